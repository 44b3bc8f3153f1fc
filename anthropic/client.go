package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Interface compliance check.
var _ chatbot.Replier = (*Client)(nil)

// Client implements [chatbot.Replier] for the Anthropic Messages API.
type Client struct {
	client anthropic.Client
	model  string
}

// Option configures a [Client].
type Option func(*clientConfig)

type clientConfig struct {
	model   string
	reqOpts []option.RequestOption
}

// WithModel sets the model ID. Default is claude-sonnet-4-20250514.
func WithModel(model string) Option {
	return func(c *clientConfig) { c.model = model }
}

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.reqOpts = append(c.reqOpts, option.WithBaseURL(url)) }
}

// New creates a new Anthropic [Client] with the given API key and options.
// The client makes a single attempt per reply.
func New(apiKey string, opts ...Option) *Client {
	cfg := clientConfig{model: defaultModel}
	for _, o := range opts {
		o(&cfg)
	}
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, cfg.reqOpts...)
	return &Client{
		client: anthropic.NewClient(reqOpts...),
		model:  cfg.model,
	}
}

// Reply asks the model about text. A refusal or an empty answer comes back
// as readable bot text rather than an error.
func (c *Client) Reply(ctx context.Context, text string) (string, error) {
	msg, err := c.client.Messages.New(ctx, BuildParams(c.model, text))
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	return ReplyText(msg), nil
}

// BuildParams returns the request for a single user message.
// Exported for testing.
func BuildParams(model, text string) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   chatbot.ReplyMaxTokens,
		Temperature: anthropic.Float(chatbot.ReplyTemperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(chatbot.HealthPrompt(text))),
		},
	}
}

// ReplyText interprets a response: the first text block wins, a refusal
// becomes a blocked notice, anything else is [chatbot.DefaultReply].
func ReplyText(msg *anthropic.Message) string {
	if msg == nil {
		return chatbot.DefaultReply
	}
	for _, block := range msg.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return strings.TrimSpace(block.Text)
		}
	}
	if string(msg.StopReason) == stopRefusal {
		return chatbot.BlockedReply(stopRefusal)
	}
	return chatbot.DefaultReply
}
