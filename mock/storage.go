// Package mock provides test doubles for chatbot interfaces using function
// fields.
package mock

import (
	"context"

	"github.com/JyothikaKancharla/chatbot"
)

// Interface compliance checks.
var (
	_ chatbot.Storage      = (*Storage)(nil)
	_ chatbot.ThemeStorage = (*ThemeStorage)(nil)
	_ chatbot.Replier      = (*Replier)(nil)
	_ chatbot.ChatLog      = (*ChatLog)(nil)
)

// Storage is a test double for chatbot.Storage.
type Storage struct {
	LoadStateFn func() (chatbot.State, error)
	SaveStateFn func(chatbot.State) error
}

// LoadState delegates to LoadStateFn.
func (s *Storage) LoadState() (chatbot.State, error) {
	return s.LoadStateFn()
}

// SaveState delegates to SaveStateFn.
func (s *Storage) SaveState(st chatbot.State) error {
	return s.SaveStateFn(st)
}

// ThemeStorage is a test double for chatbot.ThemeStorage.
type ThemeStorage struct {
	LoadThemeFn func() (chatbot.ThemeName, error)
	SaveThemeFn func(chatbot.ThemeName) error
}

// LoadTheme delegates to LoadThemeFn.
func (s *ThemeStorage) LoadTheme() (chatbot.ThemeName, error) {
	return s.LoadThemeFn()
}

// SaveTheme delegates to SaveThemeFn.
func (s *ThemeStorage) SaveTheme(name chatbot.ThemeName) error {
	return s.SaveThemeFn(name)
}

// Replier is a test double for chatbot.Replier.
type Replier struct {
	ReplyFn func(ctx context.Context, text string) (string, error)
}

// Reply delegates to ReplyFn.
func (r *Replier) Reply(ctx context.Context, text string) (string, error) {
	return r.ReplyFn(ctx, text)
}

// ChatLog is a test double for chatbot.ChatLog.
type ChatLog struct {
	RecordFn    func(ctx context.Context, userMessage, botReply string) error
	HistoryFn   func(ctx context.Context) ([]chatbot.ChatRecord, error)
	DeleteAtFn  func(ctx context.Context, index int) error
	DeleteAllFn func(ctx context.Context) error
}

// Record delegates to RecordFn.
func (l *ChatLog) Record(ctx context.Context, userMessage, botReply string) error {
	return l.RecordFn(ctx, userMessage, botReply)
}

// History delegates to HistoryFn.
func (l *ChatLog) History(ctx context.Context) ([]chatbot.ChatRecord, error) {
	return l.HistoryFn(ctx)
}

// DeleteAt delegates to DeleteAtFn.
func (l *ChatLog) DeleteAt(ctx context.Context, index int) error {
	return l.DeleteAtFn(ctx, index)
}

// DeleteAll delegates to DeleteAllFn.
func (l *ChatLog) DeleteAll(ctx context.Context) error {
	return l.DeleteAllFn(ctx)
}
