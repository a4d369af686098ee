// Package factory constructs the configured LLM provider
package factory

import (
	"fmt"

	"github.com/gliderlab/linerelay/pkg/config"
	"github.com/gliderlab/linerelay/pkg/llm"
	"github.com/gliderlab/linerelay/pkg/llm/providers/google"
	"github.com/gliderlab/linerelay/pkg/llm/providers/openai"
)

// New builds the provider selected by cfg.Provider
func New(cfg *config.Config) (llm.Provider, error) {
	switch llm.ProviderType(cfg.Provider) {
	case llm.ProviderGoogle:
		return google.New(llm.Config{
			Type:   llm.ProviderGoogle,
			APIKey: cfg.GoogleAPIKey,
			Model:  cfg.GoogleModel,
		}), nil
	case llm.ProviderOpenAI:
		return openai.New(llm.Config{
			Type:    llm.ProviderOpenAI,
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
