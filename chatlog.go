package chatbot

import (
	"context"
	"time"
)

// ChatRecord is one answered exchange kept by the reply server.
type ChatRecord struct {
	ID          uint
	UserMessage string
	BotReply    string
	Timestamp   time.Time
}

// ChatLog stores answered exchanges, oldest first. Implementations must be
// safe for concurrent use.
type ChatLog interface {
	Record(ctx context.Context, userMessage, botReply string) error
	History(ctx context.Context) ([]ChatRecord, error)
	// DeleteAt removes the record at position index of History. An index
	// out of range returns ErrValidation.
	DeleteAt(ctx context.Context, index int) error
	DeleteAll(ctx context.Context) error
}
