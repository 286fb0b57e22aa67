// Package echo implements a provider that returns the user's message back.
// It is useful for testing and for demonstrating the plugin structure.
package echo

import (
	"context"
	"strings"
	"time"

	"github.com/modelmux/pluginkit/llm"
)

// Provider echoes the last user message back as the completion.
// It implements completion and streaming; the remaining capabilities report
// not supported.
type Provider struct {
	llm.UnimplementedProvider
}

// New creates an echo provider. It takes no arguments so it can serve
// directly as a registry factory.
func New() llm.Provider {
	return &Provider{}
}

// Completion implements llm.Provider.
func (p *Provider) Completion(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	userMessage := req.LastUserMessage()
	content := "Echo: " + userMessage

	promptTokens := len(strings.Fields(userMessage))
	completionTokens := len(strings.Fields(content))

	return &llm.Response{
		Model:   req.Model,
		Created: time.Now().Unix(),
		Choices: []llm.Choice{
			{
				Index:        0,
				Message:      llm.NewTextMessage(llm.RoleAssistant, content),
				FinishReason: "stop",
			},
		},
		Usage: &llm.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}

// Streaming implements llm.Provider by emitting the echoed message one word
// at a time.
func (p *Provider) Streaming(ctx context.Context, req *llm.Request) (llm.Stream, error) {
	content := "Echo: " + req.LastUserMessage()
	words := strings.Fields(content)

	chunks := make([]*llm.StreamChunk, 0, len(words)+1)
	for i, w := range words {
		text := w
		if i < len(words)-1 {
			text += " "
		}
		chunks = append(chunks, &llm.StreamChunk{Text: text})
	}
	chunks = append(chunks, &llm.StreamChunk{FinishReason: "stop", Done: true})

	return llm.NewSliceStream(chunks), nil
}
