package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/JyothikaKancharla/chatbot"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ chatbot.Replier = (*Client)(nil)

// Client implements [chatbot.Replier] for the Google Gemini API.
type Client struct {
	client  *genai.Client
	model   string
	baseURL string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.0-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	c := &Client{model: defaultModel}
	for _, o := range opts {
		o(c)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c.client = gc
	return c, nil
}

// Reply asks the model about text. A blocked prompt or an empty answer is
// not an error: both come back as readable bot text.
func (c *Client) Reply(ctx context.Context, text string) (string, error) {
	contents := genai.Text(chatbot.HealthPrompt(text))
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, BuildConfig())
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return ReplyText(resp), nil
}

// BuildConfig returns the generation settings used for every reply.
// Exported for testing.
func BuildConfig() *genai.GenerateContentConfig {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	safety := make([]*genai.SafetySetting, len(categories))
	for i, cat := range categories {
		safety[i] = &genai.SafetySetting{
			Category:  cat,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		}
	}
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](chatbot.ReplyTemperature),
		MaxOutputTokens: chatbot.ReplyMaxTokens,
		SafetySettings:  safety,
	}
}

// ReplyText interprets a response: the first candidate's first part wins,
// then a prompt block reason, then [chatbot.DefaultReply].
func ReplyText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return chatbot.DefaultReply
	}
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		if cand != nil && cand.Content != nil && len(cand.Content.Parts) > 0 && cand.Content.Parts[0] != nil {
			return strings.TrimSpace(cand.Content.Parts[0].Text)
		}
		return chatbot.DefaultReply
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return chatbot.BlockedReply(string(fb.BlockReason))
	}
	return chatbot.DefaultReply
}
