package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/go-resty/resty/v2"
)

// Interface compliance check.
var _ chatbot.Replier = (*Client)(nil)

const defaultTimeout = 30 * time.Second

// Client fetches replies from a remote /chat endpoint.
type Client struct {
	client *resty.Client
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithTimeout bounds each exchange. Default is 30s.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.client.SetTimeout(d) }
}

// NewClient returns a Client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Reply posts text to /chat. It makes a single attempt. Failures are
// returned as *chatbot.ReplyError.
func (c *Client) Reply(ctx context.Context, text string) (string, error) {
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ChatRequest{Message: text}).
		Post("/chat")
	if err != nil {
		return "", &chatbot.ReplyError{Kind: chatbot.ReplyTransport, Err: err}
	}

	if !res.IsSuccess() {
		return "", &chatbot.ReplyError{
			Kind:       chatbot.ReplyServer,
			StatusCode: res.StatusCode(),
			Message:    serverMessage(res),
		}
	}

	var body ChatResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return "", &chatbot.ReplyError{
			Kind: chatbot.ReplyTransport,
			Err:  fmt.Errorf("decode reply: %w", err),
		}
	}
	return body.Reply, nil
}

// serverMessage prefers the message in the error body and falls back to
// the status text.
func serverMessage(res *resty.Response) string {
	var body ChatResponse
	if err := json.Unmarshal(res.Body(), &body); err == nil {
		if body.Reply != "" {
			return body.Reply
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := http.StatusText(res.StatusCode()); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", res.StatusCode())
}
