// Package openai provides an OpenAI-compatible chat provider
package openai

import (
	"context"
	"errors"

	"github.com/gliderlab/linerelay/pkg/llm"
	goopenai "github.com/sashabaranov/go-openai"
)

// Provider implements llm.Provider against any OpenAI-compatible API
type Provider struct {
	config llm.Config
	client *goopenai.Client
}

// New creates a new OpenAI provider
func New(cfg llm.Config) *Provider {
	if cfg.Model == "" {
		cfg.Model = goopenai.GPT4oMini
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Provider{
		config: cfg,
		client: goopenai.NewClientWithConfig(clientCfg),
	}
}

// Name returns the provider name
func (p *Provider) Name() string { return "openai" }

// Type returns the provider type
func (p *Provider) Type() llm.ProviderType { return llm.ProviderOpenAI }

// Chat implements llm.Provider.Chat
func (p *Provider) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := goopenai.ChatMessageRoleUser
		if m.Role == llm.RoleAssistant {
			role = goopenai.ChatMessageRoleAssistant
		}
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return nil, &llm.UpstreamError{Provider: p.Name(), Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &llm.UpstreamError{Provider: p.Name(), Err: errors.New("empty completion")}
	}

	return &llm.ChatResponse{Model: model, Content: resp.Choices[0].Message.Content}, nil
}

// Ensure Provider implements llm.Provider
var _ llm.Provider = (*Provider)(nil)
