// Package google provides the Gemini provider via the genai SDK
package google

import (
	"context"
	"errors"
	"sync"

	"github.com/gliderlab/linerelay/pkg/llm"
	"google.golang.org/genai"
)

// Provider implements llm.Provider for Google Gemini
type Provider struct {
	config llm.Config

	mu     sync.Mutex
	client *genai.Client
}

// New creates a new Google provider. The genai client is created lazily
// on first use because its constructor needs a context.
func New(cfg llm.Config) *Provider {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	return &Provider{config: cfg}
}

// Name returns the provider name
func (p *Provider) Name() string { return "google" }

// Type returns the provider type
func (p *Provider) Type() llm.ProviderType { return llm.ProviderGoogle }

func (p *Provider) ensureClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	p.client = client
	return client, nil
}

// Chat implements llm.Provider.Chat
func (p *Provider) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	client, err := p.ensureClient(ctx)
	if err != nil {
		return nil, &llm.UpstreamError{Provider: p.Name(), Err: err}
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		var role genai.Role = genai.RoleUser
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	cfg := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, &llm.UpstreamError{Provider: p.Name(), Err: err}
	}

	text := resp.Text()
	if text == "" {
		return nil, &llm.UpstreamError{Provider: p.Name(), Err: errors.New("empty completion")}
	}

	return &llm.ChatResponse{Model: model, Content: text}, nil
}

// Ensure Provider implements llm.Provider
var _ llm.Provider = (*Provider)(nil)
