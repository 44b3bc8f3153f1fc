package bubbletea_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/JyothikaKancharla/chatbot"
	bt "github.com/JyothikaKancharla/chatbot/bubbletea"
	"github.com/JyothikaKancharla/chatbot/mock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 2, 18, 9, 30, 0, 0, time.UTC)

// newStore returns a store over in-memory storage seeded with initial.
func newStore(t *testing.T, initial chatbot.State) *chatbot.Store {
	t.Helper()
	saved := initial.Clone()
	storage := &mock.Storage{
		LoadStateFn: func() (chatbot.State, error) { return saved.Clone(), nil },
		SaveStateFn: func(st chatbot.State) error {
			saved = st
			return nil
		},
	}
	n := 0
	s, err := chatbot.NewStore(storage,
		chatbot.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("s%d", n)
		}),
		chatbot.WithClock(func() time.Time { return testTime }),
	)
	require.NoError(t, err)
	return s
}

// newThemes returns a theme controller over in-memory storage.
func newThemes(t *testing.T) *chatbot.ThemeController {
	t.Helper()
	current := chatbot.ThemeLight
	c, err := chatbot.NewThemeController(&mock.ThemeStorage{
		LoadThemeFn: func() (chatbot.ThemeName, error) { return current, nil },
		SaveThemeFn: func(n chatbot.ThemeName) error {
			current = n
			return nil
		},
	})
	require.NoError(t, err)
	return c
}

// echoReplier answers every message with a fixed prefix.
func echoReplier() *mock.Replier {
	return &mock.Replier{
		ReplyFn: func(_ context.Context, text string) (string, error) {
			return "You said: " + text, nil
		},
	}
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, store *chatbot.Store, replier chatbot.Replier, opts ...bt.Option) bt.Model {
	t.Helper()
	return initModelWithSize(t, store, replier, 100, 24, opts...)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, store *chatbot.Store, replier chatbot.Replier, width, height int, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(store, replier, newThemes(t), opts...)
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// typeText sets the input value as if the user had typed it.
func typeText(m bt.Model, text string) bt.Model {
	m.Input.SetValue(text)
	return m
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
