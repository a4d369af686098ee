// Package llm provides the LLM provider abstraction layer
package llm

import (
	"context"
	"fmt"
)

// ProviderType represents the type of LLM provider
type ProviderType string

const (
	ProviderGoogle ProviderType = "google"
	ProviderOpenAI ProviderType = "openai"
)

// Message roles. Providers translate these to their own wire roles
// (Gemini calls the assistant role "model").
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config holds provider connection settings
type Config struct {
	Type    ProviderType
	APIKey  string
	BaseURL string
	Model   string
	Timeout int // seconds, 0 = provider default
}

// ChatRequest represents a chat completion request
type ChatRequest struct {
	Model     string    `json:"model,omitempty"`
	Messages  []Message `json:"messages"`
	System    string    `json:"system,omitempty"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

// ChatResponse represents a chat completion response
type ChatResponse struct {
	Model   string `json:"model"`
	Content string `json:"content"`
}

// Provider is a chat-completion backend
type Provider interface {
	Name() string
	Type() ProviderType
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// UpstreamError wraps any failure from a remote model call: network,
// quota, or a malformed/empty response.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
