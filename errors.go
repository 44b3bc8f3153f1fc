package chatbot

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a message or request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrSessionNotFound indicates a stale or unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrPersistence indicates the in-memory change succeeded but could not
	// be written to storage. Callers surface it as a warning.
	ErrPersistence = errors.New("persistence failure")

	// ErrEmptySession indicates an export of a session with no messages.
	ErrEmptySession = errors.New("session has no messages")

	// ErrNoActiveSession indicates an export with no active session.
	ErrNoActiveSession = errors.New("no active session")

	// ErrDeclined indicates the user declined a destructive action.
	ErrDeclined = errors.New("action declined")

	// ErrConfirmationNotFound indicates an unknown or superseded
	// confirmation token.
	ErrConfirmationNotFound = errors.New("confirmation not found")

	// ErrReplyTransport indicates the reply endpoint could not be reached
	// or returned an unreadable response.
	ErrReplyTransport = errors.New("reply transport error")

	// ErrReplyServer indicates the reply endpoint answered with a
	// non-success status.
	ErrReplyServer = errors.New("reply server error")
)
