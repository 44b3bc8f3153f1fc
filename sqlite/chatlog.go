package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JyothikaKancharla/chatbot"
	"gorm.io/gorm"
)

// Interface compliance check.
var _ chatbot.ChatLog = (*ChatLog)(nil)

// ChatLog records answered exchanges for the reply server.
type ChatLog struct {
	db  *gorm.DB
	now func() time.Time
}

// ChatLog returns the chat log backed by d.
func (d *DB) ChatLog() *ChatLog {
	return &ChatLog{db: d.db, now: time.Now}
}

// Record stores one exchange.
func (l *ChatLog) Record(ctx context.Context, userMessage, botReply string) error {
	row := chatRow{UserMessage: userMessage, BotReply: botReply, Timestamp: l.now().UTC()}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("record chat: %w", err)
	}
	return nil
}

// History returns every exchange, oldest first.
func (l *ChatLog) History(ctx context.Context) ([]chatbot.ChatRecord, error) {
	var rows []chatRow
	if err := l.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load chats: %w", err)
	}
	records := make([]chatbot.ChatRecord, len(rows))
	for i, r := range rows {
		records[i] = chatbot.ChatRecord{
			ID:          r.ID,
			UserMessage: r.UserMessage,
			BotReply:    r.BotReply,
			Timestamp:   r.Timestamp,
		}
	}
	return records, nil
}

// DeleteAt removes the exchange at position index of History.
func (l *ChatLog) DeleteAt(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("%w: negative index %d", chatbot.ErrValidation, index)
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row chatRow
		err := tx.Order("id").Offset(index).Limit(1).Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: index %d out of range", chatbot.ErrValidation, index)
		}
		if err != nil {
			return fmt.Errorf("find chat: %w", err)
		}
		if err := tx.Delete(&row).Error; err != nil {
			return fmt.Errorf("delete chat: %w", err)
		}
		return nil
	})
}

// DeleteAll removes every exchange.
func (l *ChatLog) DeleteAll(ctx context.Context) error {
	if err := l.db.WithContext(ctx).Where("1 = 1").Delete(&chatRow{}).Error; err != nil {
		return fmt.Errorf("delete chats: %w", err)
	}
	return nil
}
