// Package config provides configuration for the relay service
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configurable relay parameters
type Config struct {
	Host string // Host to bind (default: "0.0.0.0")
	Port int    // Port to listen (default: 3000)

	LineChannelToken  string // LINE Messaging API channel access token
	LineChannelSecret string // LINE channel secret, used for webhook signatures

	Provider      string // LLM provider: "google" or "openai" (default: "google")
	GoogleAPIKey  string
	GoogleModel   string // default: "gemini-2.0-flash"
	OpenAIAPIKey  string
	OpenAIModel   string // default: "gpt-4o-mini"
	OpenAIBaseURL string

	MaxOutputTokens int // model output ceiling (default: 1024)
	MaxHistoryTurns int // turns kept per conversation (default: 20)
	MaxReplyChars   int // reply chunk size; LINE hard limit is 5000 (default: 4500)

	ReadTimeout  time.Duration // HTTP read timeout (default: 30s)
	WriteTimeout time.Duration // HTTP write timeout (default: 120s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 300s)
}

// Default returns the default relay configuration
func Default() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            3000,
		Provider:        "google",
		GoogleModel:     "gemini-2.0-flash",
		OpenAIModel:     "gpt-4o-mini",
		MaxOutputTokens: 1024,
		MaxHistoryTurns: 20,
		MaxReplyChars:   4500,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    120 * time.Second,
		IdleTimeout:     300 * time.Second,
	}
}

// Load builds the configuration from defaults plus environment overrides
func Load() (*Config, error) {
	c := Default()

	if v := os.Getenv("HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = parseInt(v, c.Port)
	}

	c.LineChannelToken = os.Getenv("LINE_CHANNEL_TOKEN")
	c.LineChannelSecret = os.Getenv("LINE_CHANNEL_SECRET")

	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.Provider = v
	}
	c.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	if v := os.Getenv("GOOGLE_MODEL"); v != "" {
		c.GoogleModel = v
	}
	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.OpenAIModel = v
	}
	c.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")

	if v := os.Getenv("MAX_OUTPUT_TOKENS"); v != "" {
		c.MaxOutputTokens = parseInt(v, c.MaxOutputTokens)
	}
	if v := os.Getenv("MAX_HISTORY_TURNS"); v != "" {
		c.MaxHistoryTurns = parseInt(v, c.MaxHistoryTurns)
	}
	if v := os.Getenv("MAX_REPLY_CHARS"); v != "" {
		c.MaxReplyChars = parseInt(v, c.MaxReplyChars)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that required fields are set and limits are sane
func (c *Config) Validate() error {
	if c.LineChannelToken == "" {
		return fmt.Errorf("LINE_CHANNEL_TOKEN not set")
	}
	if c.LineChannelSecret == "" {
		return fmt.Errorf("LINE_CHANNEL_SECRET not set")
	}
	switch c.Provider {
	case "google":
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY not set")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.Provider)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.MaxHistoryTurns <= 0 {
		return fmt.Errorf("MAX_HISTORY_TURNS must be > 0")
	}
	if c.MaxReplyChars <= 0 || c.MaxReplyChars > 5000 {
		return fmt.Errorf("MAX_REPLY_CHARS must be in 1..5000")
	}
	return nil
}

// Addr returns the host:port listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func parseInt(s string, defaultVal int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return n
}
