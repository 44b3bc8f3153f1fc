package chatbot_test

import (
	"strings"
	"testing"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"short text is unchanged", "Sore throat", "Sore throat"},
		{"ten characters", "0123456789", "0123456789"},
		{"exactly the budget", strings.Repeat("x", 25), strings.Repeat("x", 25)},
		{"one over the budget", strings.Repeat("x", 26), strings.Repeat("x", 25) + "..."},
		{"cut mid-word", "What are the side effects of ibuprofen?", "What are the side effects..."},
		{"emoji count as one character", strings.Repeat("😊", 26), strings.Repeat("😊", 25) + "..."},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, chatbot.DeriveTitle(tt.text))
		})
	}
}

func TestSession_DisplayTitle(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "New Chat", chatbot.Session{}.DisplayTitle())
	assert.Equal(t, "Flu", chatbot.Session{Title: "Flu"}.DisplayTitle())
}

func TestSession_Clone(t *testing.T) {
	t.Parallel()
	s := chatbot.Session{ID: "a", Messages: []chatbot.Message{{Sender: chatbot.SenderUser, Text: "x"}}}
	c := s.Clone()
	c.Messages[0].Text = "y"
	assert.Equal(t, "x", s.Messages[0].Text)
}

func TestParseSender(t *testing.T) {
	t.Parallel()
	got, err := chatbot.ParseSender("bot")
	assert.NoError(t, err)
	assert.Equal(t, chatbot.SenderBot, got)

	_, err = chatbot.ParseSender("assistant")
	assert.ErrorIs(t, err, chatbot.ErrValidation)
}
