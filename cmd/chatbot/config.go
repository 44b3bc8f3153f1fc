package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the commands need. Values are layered:
// defaults, then the YAML file, then environment variables, then flags.
type Config struct {
	Store   string `yaml:"store" env:"CHATBOT_STORE"`
	DataDir string `yaml:"data_dir" env:"CHATBOT_DATA_DIR"`

	Backend   string        `yaml:"backend" env:"CHATBOT_BACKEND"`
	ServerURL string        `yaml:"server_url" env:"CHATBOT_SERVER_URL"`
	Model     string        `yaml:"model" env:"CHATBOT_MODEL"`
	Timeout   time.Duration `yaml:"timeout" env:"CHATBOT_TIMEOUT"`

	AnthropicAPIKey string `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`

	ExportDir      string   `yaml:"export_dir" env:"CHATBOT_EXPORT_DIR"`
	AttachDir      string   `yaml:"attach_dir" env:"CHATBOT_ATTACH_DIR"`
	AttachPatterns []string `yaml:"attach_patterns" env:"CHATBOT_ATTACH_PATTERNS" envSeparator:","`

	Addr     string `yaml:"addr" env:"CHATBOT_ADDR"`
	LogLevel string `yaml:"log_level" env:"CHATBOT_LOG_LEVEL"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Store:          "json",
		DataDir:        filepath.Join(home, ".chatbot"),
		ServerURL:      "http://127.0.0.1:5000",
		Timeout:        60 * time.Second,
		ExportDir:      ".",
		AttachDir:      ".",
		AttachPatterns: []string{"*"},
		Addr:           ":5000",
		LogLevel:       "info",
	}
}

// defaultConfigPath returns ~/.config/chatbot/config.yaml, or "" when the
// home directory is unknown.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chatbot", "config.yaml")
}

// loadConfig layers the YAML file at path and the environment over the
// defaults. A missing file is not an error unless explicit is set. A nil
// environ means the process environment.
func loadConfig(path string, explicit bool, environ map[string]string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store {
	case "json", "sqlite":
	default:
		return fmt.Errorf("unknown store %q (want json or sqlite)", c.Store)
	}
	if c.DataDir == "" {
		return errors.New("data directory is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

func (c Config) logPath() string {
	return filepath.Join(c.DataDir, "chatbot.log")
}
