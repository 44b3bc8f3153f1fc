package chatbot_test

import (
	"testing"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	t.Parallel()

	t.Run("lists sessions with placeholder titles and active flag", func(t *testing.T) {
		t.Parallel()
		st := chatbot.State{
			ActiveID: "b",
			Sessions: []chatbot.Session{
				{ID: "b", Title: "Allergies", Messages: []chatbot.Message{
					{Sender: chatbot.SenderUser, Text: "first"},
					{Sender: chatbot.SenderBot, Text: "second"},
				}},
				{ID: "a"},
			},
		}
		v := chatbot.Project(st)
		assert.Equal(t, []chatbot.SessionItem{
			{ID: "b", Title: "Allergies", Active: true},
			{ID: "a", Title: "New Chat", Active: false},
		}, v.Sessions)
		require.Len(t, v.Messages, 2)
		assert.Equal(t, "first", v.Messages[0].Text)
		assert.Equal(t, "second", v.Messages[1].Text)
	})

	t.Run("no active session has no messages", func(t *testing.T) {
		t.Parallel()
		v := chatbot.Project(chatbot.State{Sessions: []chatbot.Session{{ID: "a"}}})
		assert.Empty(t, v.Messages)
		require.Len(t, v.Sessions, 1)
		assert.False(t, v.Sessions[0].Active)
	})
}
