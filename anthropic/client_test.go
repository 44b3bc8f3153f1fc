package anthropic_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/JyothikaKancharla/chatbot/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageJSON(stopReason string, texts ...string) string {
	content := make([]map[string]string, len(texts))
	for i, t := range texts {
		content[i] = map[string]string{"type": "text", "text": t}
	}
	b, _ := json.Marshal(map[string]any{
		"id":            "msg_1",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-sonnet-4-20250514",
		"content":       content,
		"stop_reason":   stopReason,
		"stop_sequence": nil,
		"usage":         map[string]int{"input_tokens": 10, "output_tokens": 5},
	})
	return string(b)
}

func TestClient_Reply(t *testing.T) {
	t.Parallel()

	t.Run("request format", func(t *testing.T) {
		t.Parallel()
		var captured []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = io.ReadAll(r.Body)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/messages", r.URL.Path)
			assert.Equal(t, "test-api-key", r.Header.Get("X-Api-Key"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(messageJSON("end_turn", "  - Rest\n- Fluids\n")))
		}))
		defer srv.Close()

		client := anthropic.New("test-api-key", anthropic.WithBaseURL(srv.URL), anthropic.WithModel("claude-test"))
		got, err := client.Reply(context.Background(), "I have a cold")
		require.NoError(t, err)
		assert.Equal(t, "- Rest\n- Fluids", got)

		var body struct {
			Model       string  `json:"model"`
			MaxTokens   int     `json:"max_tokens"`
			Temperature float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content []struct {
					Type string `json:"type"`
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(captured, &body))
		assert.Equal(t, "claude-test", body.Model)
		assert.Equal(t, 400, body.MaxTokens)
		assert.InDelta(t, 0.6, body.Temperature, 1e-9)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		require.Len(t, body.Messages[0].Content, 1)
		assert.Equal(t, chatbot.HealthPrompt("I have a cold"), body.Messages[0].Content[0].Text)
	})

	t.Run("refusal", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(messageJSON("refusal")))
		}))
		defer srv.Close()

		got, err := anthropic.New("k", anthropic.WithBaseURL(srv.URL)).Reply(context.Background(), "hi")
		require.NoError(t, err)
		assert.Equal(t, "Your question was blocked due to safety guidelines: refusal", got)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(messageJSON("max_tokens", "   ")))
		}))
		defer srv.Close()

		got, err := anthropic.New("k", anthropic.WithBaseURL(srv.URL)).Reply(context.Background(), "hi")
		require.NoError(t, err)
		assert.Equal(t, chatbot.DefaultReply, got)
	})

	t.Run("api error is not retried", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
		}))
		defer srv.Close()

		_, err := anthropic.New("k", anthropic.WithBaseURL(srv.URL)).Reply(context.Background(), "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "anthropic:")
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestReplyText_Nil(t *testing.T) {
	t.Parallel()
	assert.Equal(t, chatbot.DefaultReply, anthropic.ReplyText(nil))
}
