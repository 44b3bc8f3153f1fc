package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/JyothikaKancharla/chatbot/anthropic"
	"github.com/JyothikaKancharla/chatbot/gemini"
	chathttp "github.com/JyothikaKancharla/chatbot/http"
)

const (
	backendHTTP      = "http"
	backendAnthropic = "anthropic"
	backendGemini    = "gemini"
)

var errNoAPIKey = errors.New("no API key found")

// detectBackend picks a model backend from the configured keys when none is
// named explicitly.
func detectBackend(cfg Config) (string, error) {
	if cfg.Backend != "" {
		return cfg.Backend, nil
	}
	hasAnthropic := cfg.AnthropicAPIKey != ""
	hasGemini := cfg.GeminiAPIKey != ""
	switch {
	case hasAnthropic && hasGemini:
		return "", fmt.Errorf("multiple API keys found (ANTHROPIC_API_KEY, GEMINI_API_KEY): use --backend to select")
	case hasAnthropic:
		return backendAnthropic, nil
	case hasGemini:
		return backendGemini, nil
	default:
		return "", errNoAPIKey
	}
}

// resolveReplier selects the backend for the chat client. Without an API
// key the client talks to a reply server at cfg.ServerURL.
func resolveReplier(ctx context.Context, cfg Config) (chatbot.Replier, error) {
	backend, err := detectBackend(cfg)
	if errors.Is(err, errNoAPIKey) {
		backend = backendHTTP
	} else if err != nil {
		return nil, err
	}
	return newReplier(ctx, backend, cfg)
}

// resolveServerReplier selects the model backend for the reply server. A
// nil replier with a nil error means no key is configured; the server then
// answers every chat with 503.
func resolveServerReplier(ctx context.Context, cfg Config) (chatbot.Replier, error) {
	backend, err := detectBackend(cfg)
	if errors.Is(err, errNoAPIKey) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if backend == backendHTTP {
		return nil, fmt.Errorf("the reply server needs a model backend, not %q", backendHTTP)
	}
	return newReplier(ctx, backend, cfg)
}

func newReplier(ctx context.Context, backend string, cfg Config) (chatbot.Replier, error) {
	switch backend {
	case backendHTTP:
		if cfg.ServerURL == "" {
			return nil, fmt.Errorf("server URL not set (use --server or CHATBOT_SERVER_URL)")
		}
		var opts []chathttp.ClientOption
		if cfg.Timeout > 0 {
			opts = append(opts, chathttp.WithTimeout(cfg.Timeout))
		}
		return chathttp.NewClient(cfg.ServerURL, opts...), nil
	case backendAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set (use --api-key flag or environment variable)")
		}
		var opts []anthropic.Option
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		return anthropic.New(cfg.AnthropicAPIKey, opts...), nil
	case backendGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set (use --api-key flag or environment variable)")
		}
		var opts []gemini.Option
		if cfg.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Model))
		}
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown backend %q: must be \"http\", \"anthropic\" or \"gemini\"", backend)
	}
}
