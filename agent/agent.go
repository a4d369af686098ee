// Package agent bridges conversations to the configured LLM provider,
// feeding it the running history and a fixed persona.
package agent

import (
	"context"

	"github.com/gliderlab/linerelay/history"
	"github.com/gliderlab/linerelay/pkg/llm"
)

// SystemPrompt is the fixed persona sent with every model call.
const SystemPrompt = "あなたはLINEで会話するフレンドリーなアシスタントです。" +
	"日本語で、簡潔で分かりやすく答えてください。" +
	"絵文字は控えめに使ってください。"

// DefaultMaxOutputTokens caps the model output when none is configured.
const DefaultMaxOutputTokens = 1024

// Agent is the model gateway for conversations
type Agent struct {
	provider  llm.Provider
	history   *history.Store
	maxTokens int
}

// New creates an agent backed by provider, recording turns into store
func New(provider llm.Provider, store *history.Store, maxTokens int) *Agent {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}
	return &Agent{
		provider:  provider,
		history:   store,
		maxTokens: maxTokens,
	}
}

// Converse sends userText with the running history for conversationID and
// returns the model's reply. Both turns are recorded only after the call
// succeeds; a failed call leaves the history untouched. Errors from the
// provider are *llm.UpstreamError.
func (a *Agent) Converse(ctx context.Context, conversationID, userText string) (string, error) {
	turns := a.history.Get(conversationID)
	messages := make([]llm.Message, 0, len(turns)+1)
	for _, t := range turns {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Text})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userText})

	resp, err := a.provider.Chat(ctx, &llm.ChatRequest{
		Messages:  messages,
		System:    SystemPrompt,
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return "", err
	}

	a.history.Append(conversationID, history.RoleUser, userText)
	a.history.Append(conversationID, history.RoleAssistant, resp.Content)
	return resp.Content, nil
}
