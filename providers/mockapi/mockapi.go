// Package mockapi implements a provider that simulates an external LLM API:
// credential checks, parameter handling, token accounting, and deterministic
// embeddings, without any network traffic. It demonstrates what a real
// API-backed provider looks like and doubles as a test stand-in.
package mockapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/modelmux/pluginkit/llm"
)

const embeddingDimensions = 8

// Provider simulates calling an external LLM API.
// Completion, streaming, and embedding are implemented; image generation
// reports not supported.
type Provider struct {
	llm.UnimplementedProvider
	defaultAPIKey string
}

// New creates a mock API provider with no default credential. A key must then
// be supplied per request. New takes no arguments so it can serve directly as
// a registry factory.
func New() llm.Provider {
	return &Provider{}
}

// NewWithKey creates a mock API provider with a default API key used when a
// request carries none.
func NewWithKey(apiKey string) *Provider {
	return &Provider{defaultAPIKey: apiKey}
}

// resolveKey applies the per-request key over the provider default.
func (p *Provider) resolveKey(requestKey string) (string, error) {
	if requestKey != "" {
		return requestKey, nil
	}
	if p.defaultAPIKey != "" {
		return p.defaultAPIKey, nil
	}
	return "", llm.NewInvalidRequestError(
		"api key is required: provide it per request or at provider construction", nil)
}

// Completion implements llm.Provider.
func (p *Provider) Completion(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if _, err := p.resolveKey(req.APIKey); err != nil {
		return nil, err
	}

	userMessage := req.LastUserMessage()

	temperature := 0.7
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	content := fmt.Sprintf(
		"This is a mock response to: '%s' (temperature=%.1f)",
		userMessage, temperature)

	// Honor max_tokens by truncating on word boundaries.
	if req.MaxTokens > 0 {
		words := strings.Fields(content)
		if len(words) > req.MaxTokens {
			content = strings.Join(words[:req.MaxTokens], " ") + "..."
		}
	}

	promptTokens := len(strings.Fields(userMessage))
	completionTokens := len(strings.Fields(content))

	return &llm.Response{
		ID:      "mock-" + uuid.NewString(),
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

// Streaming implements llm.Provider by chunking a mock completion.
func (p *Provider) Streaming(ctx context.Context, req *llm.Request) (llm.Stream, error) {
	resp, err := p.Completion(ctx, req)
	if err != nil {
		return nil, err
	}

	words := strings.Fields(resp.Text())
	chunks := make([]*llm.StreamChunk, 0, len(words)+1)
	for i, w := range words {
		text := w
		if i < len(words)-1 {
			text += " "
		}
		chunks = append(chunks, &llm.StreamChunk{Text: text})
	}
	chunks = append(chunks, &llm.StreamChunk{
		FinishReason: "stop",
		Done:         true,
		Usage:        resp.Usage,
	})

	return llm.NewSliceStream(chunks), nil
}

// Embedding implements llm.Provider with deterministic vectors derived from
// the input text, so repeated calls embed identical inputs identically.
func (p *Provider) Embedding(ctx context.Context, req *llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	if _, err := p.resolveKey(req.APIKey); err != nil {
		return nil, err
	}
	if len(req.Input) == 0 {
		return nil, llm.NewInvalidRequestError("embedding input must not be empty", nil)
	}

	data := make([]llm.Embedding, len(req.Input))
	promptTokens := 0
	for i, input := range req.Input {
		data[i] = llm.Embedding{Index: i, Vector: mockVector(input)}
		promptTokens += len(strings.Fields(input))
	}

	return &llm.EmbeddingResponse{
		Model: req.Model,
		Data:  data,
		Usage: &llm.Usage{PromptTokens: promptTokens, TotalTokens: promptTokens},
	}, nil
}

// mockVector folds the input bytes into a fixed-size vector.
func mockVector(input string) []float32 {
	vec := make([]float32, embeddingDimensions)
	for i, b := range []byte(input) {
		vec[i%embeddingDimensions] += float32(b) / 255
	}
	return vec
}
