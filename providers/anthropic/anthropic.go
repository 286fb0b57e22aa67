// Package anthropic implements the provider capability contract on top of
// the Anthropic Messages API. It supports completion and streaming; the
// Anthropic API offers neither embeddings nor image generation, so those
// report not supported.
package anthropic

import (
	"context"
	"fmt"
	"os"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/modelmux/pluginkit/llm"
)

// defaultMaxTokens applies when a request does not set a limit; the Messages
// API requires one.
const defaultMaxTokens = 4096

// Provider implements llm.Provider for Anthropic's API.
type Provider struct {
	llm.UnimplementedProvider
	client *anthropic.Client
}

// New creates an Anthropic provider configured from the environment
// (ANTHROPIC_API_KEY). It takes no arguments so it can serve directly as a
// registry factory; when no key is configured, calls fail until a per-request
// key is supplied.
func New() llm.Provider {
	p, err := NewWithKey(os.Getenv("ANTHROPIC_API_KEY"))
	if err != nil {
		return &Provider{}
	}
	return p
}

// NewWithKey creates an Anthropic provider with an explicit API key.
func NewWithKey(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Provider{client: &client}, nil
}

// clientFor returns the client to use for a call, honoring a per-request key.
func (p *Provider) clientFor(requestKey string) (*anthropic.Client, error) {
	if requestKey != "" {
		client := anthropic.NewClient(option.WithAPIKey(requestKey))
		return &client, nil
	}
	if p.client == nil {
		return nil, llm.NewInvalidRequestError("anthropic api key is not configured", nil)
	}
	return p.client, nil
}

// Completion implements llm.Provider.
func (p *Provider) Completion(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	client, err := p.clientFor(req.APIKey)
	if err != nil {
		return nil, err
	}

	message, err := client.Messages.New(ctx, toMessageParams(req))
	if err != nil {
		return nil, llm.NewProviderError("Anthropic API error", err)
	}

	var text string
	for _, blockUnion := range message.Content {
		if block, ok := blockUnion.AsAny().(anthropic.TextBlock); ok {
			text += block.Text
		}
	}

	promptTokens := int(message.Usage.InputTokens)
	completionTokens := int(message.Usage.OutputTokens)

	return &llm.Response{
		ID:    message.ID,
		Model: string(message.Model),
		Choices: []llm.Choice{
			{
				Index:        0,
				Message:      llm.NewTextMessage(llm.RoleAssistant, text),
				FinishReason: string(message.StopReason),
			},
		},
		Usage: &llm.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	}, nil
}

// Streaming implements llm.Provider.
func (p *Provider) Streaming(ctx context.Context, req *llm.Request) (llm.Stream, error) {
	client, err := p.clientFor(req.APIKey)
	if err != nil {
		return nil, err
	}

	stream := client.Messages.NewStreaming(ctx, toMessageParams(req))
	return &messageStream{stream: stream}, nil
}

// toMessageParams converts a neutral request into the Anthropic form.
// System messages move out of the conversation into the System field.
func toMessageParams(req *llm.Request) anthropic.MessageNewParams {
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case llm.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case llm.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case llm.RoleSystem:
			// handled below
		}
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages:  messages,
	}
	if system := req.SystemPrompt(); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params
}

// messageStream adapts an Anthropic SSE stream to the llm.Stream interface.
type messageStream struct {
	stream *ssestream.Stream[anthropic.MessageStreamEventUnion]
	chunk  *llm.StreamChunk
	usage  *llm.Usage
	err    error
	done   bool
}

func (s *messageStream) Next() bool {
	if s.done || s.err != nil {
		return false
	}

	for s.stream.Next() {
		event := s.stream.Current()
		switch evt := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if delta, ok := evt.Delta.AsAny().(anthropic.TextDelta); ok {
				s.chunk = &llm.StreamChunk{Text: delta.Text}
				return true
			}
		case anthropic.MessageDeltaEvent:
			// Carries final usage; emitted with the stop chunk below.
			promptTokens := int(evt.Usage.InputTokens)
			completionTokens := int(evt.Usage.OutputTokens)
			s.usage = &llm.Usage{
				PromptTokens:     promptTokens,
				CompletionTokens: completionTokens,
				TotalTokens:      promptTokens + completionTokens,
			}
		case anthropic.MessageStopEvent:
			s.done = true
			s.chunk = &llm.StreamChunk{FinishReason: "stop", Done: true, Usage: s.usage}
			return true
		}
	}

	s.done = true
	if err := s.stream.Err(); err != nil {
		s.err = llm.NewProviderError("Anthropic stream error", err)
	}
	return false
}

func (s *messageStream) Chunk() *llm.StreamChunk { return s.chunk }

func (s *messageStream) Err() error { return s.err }

func (s *messageStream) Close() error {
	s.done = true
	return s.stream.Close()
}

var _ llm.Stream = (*messageStream)(nil)
