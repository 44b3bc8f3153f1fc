package chatbot

import (
	"fmt"
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Valid reports whether s is a known sender.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// ParseSender converts a persisted sender string back into a Sender.
func ParseSender(s string) (Sender, error) {
	sender := Sender(s)
	if !sender.Valid() {
		return "", fmt.Errorf("%w: unknown sender %q", ErrValidation, s)
	}
	return sender, nil
}

// Greeting is the bot message that opens every conversation.
const Greeting = "Hello! Welcome to a new conversation. How can I assist you today? 😊"

// ClearedGreeting is shown, but not stored, after the history is cleared.
const ClearedGreeting = "Welcome! Starting a fresh conversation. How can I help? 😊"

// Message is a single chat message. Messages are values and are never
// modified after they are appended to a session.
type Message struct {
	Sender    Sender
	Text      string
	Timestamp time.Time
}
