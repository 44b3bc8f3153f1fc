package chatbot

import (
	"context"
	"errors"
	"fmt"
)

// Replier produces a bot reply for a single user message. Implementations
// make exactly one attempt and never retry.
type Replier interface {
	Reply(ctx context.Context, text string) (string, error)
}

// ReplyKind classifies a failed reply.
type ReplyKind int

const (
	// ReplyTransport covers connectivity failures, timeouts and malformed
	// responses.
	ReplyTransport ReplyKind = iota
	// ReplyServer covers non-success responses from the endpoint.
	ReplyServer
)

// ConnectivityNotice is the bot text standing in for a reply that could
// not be fetched.
const ConnectivityNotice = "Oops! I'm having trouble connecting right now. Please try again later."

// ReplyError describes a failed reply exchange.
type ReplyError struct {
	Kind       ReplyKind
	StatusCode int    // zero for transport failures
	Message    string // server-supplied message or status text
	Err        error  // underlying cause, if any
}

func (e *ReplyError) Error() string {
	switch e.Kind {
	case ReplyServer:
		return fmt.Sprintf("reply server error (%d): %s", e.StatusCode, e.Message)
	default:
		if e.Err != nil {
			return fmt.Sprintf("reply transport error: %v", e.Err)
		}
		return "reply transport error"
	}
}

func (e *ReplyError) Unwrap() error { return e.Err }

// Is matches ErrReplyTransport and ErrReplyServer by kind.
func (e *ReplyError) Is(target error) bool {
	switch target {
	case ErrReplyTransport:
		return e.Kind == ReplyTransport
	case ErrReplyServer:
		return e.Kind == ReplyServer
	}
	return false
}

// BotText maps the outcome of a reply exchange to the text appended as the
// bot message. Failures never propagate: a server error quotes the server's
// message, anything else becomes ConnectivityNotice.
func BotText(reply string, err error) string {
	if err == nil {
		return reply
	}
	var re *ReplyError
	if errors.As(err, &re) && re.Kind == ReplyServer {
		return "Error from server: " + re.Message
	}
	return ConnectivityNotice
}
