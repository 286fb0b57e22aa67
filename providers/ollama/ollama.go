// Package ollama implements the provider capability contract on top of a
// local or remote Ollama server. It supports completion, streaming, and
// embedding; image generation reports not supported.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ollama/ollama/api"

	"github.com/modelmux/pluginkit/llm"
)

// Provider implements llm.Provider for Ollama.
type Provider struct {
	llm.UnimplementedProvider
	client *api.Client
}

// New creates an Ollama provider from the environment (OLLAMA_HOST, falling
// back to http://localhost:11434). It takes no arguments so it can serve
// directly as a registry factory.
func New() llm.Provider {
	p, err := NewWithHost("")
	if err != nil {
		return &Provider{}
	}
	return p
}

// NewWithHost creates an Ollama provider for the given host. An empty host
// defers to the environment.
func NewWithHost(host string) (*Provider, error) {
	if host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return &Provider{client: client}, nil
	}

	baseURL, err := parseHost(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host: %w", err)
	}
	return &Provider{client: api.NewClient(baseURL, &http.Client{})}, nil
}

// parseHost parses a host string into a URL, defaulting the scheme to http.
func parseHost(host string) (*url.URL, error) {
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return url.Parse(host)
}

func (p *Provider) ready() error {
	if p.client == nil {
		return llm.NewInvalidRequestError("ollama client is not configured", nil)
	}
	return nil
}

// Completion implements llm.Provider.
func (p *Provider) Completion(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	chatReq := toChatRequest(req, false)

	var final *api.ChatResponse
	err := p.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		final = &resp
		return nil
	})
	if err != nil {
		return nil, llm.NewProviderError("Ollama API error", err)
	}
	if final == nil {
		return nil, llm.NewProviderError("no response from ollama", nil)
	}

	promptTokens := final.PromptEvalCount
	completionTokens := final.EvalCount

	finishReason := final.DoneReason
	if finishReason == "" {
		finishReason = "stop"
	}

	return &llm.Response{
		Model:   req.Model,
		Created: final.CreatedAt.Unix(),
		Choices: []llm.Choice{
			{
				Index:        0,
				Message:      llm.NewTextMessage(llm.RoleAssistant, final.Message.Content),
				FinishReason: finishReason,
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
	if err := p.ready(); err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	s := &chatStream{
		ch:     make(chan *llm.StreamChunk, 16),
		cancel: cancel,
	}

	chatReq := toChatRequest(req, true)

	go func() {
		defer close(s.ch)
		err := p.client.Chat(streamCtx, chatReq, func(resp api.ChatResponse) error {
			chunk := &llm.StreamChunk{Text: resp.Message.Content}
			if resp.Done {
				chunk.Done = true
				chunk.FinishReason = resp.DoneReason
				promptTokens := resp.PromptEvalCount
				completionTokens := resp.EvalCount
				chunk.Usage = &llm.Usage{
					PromptTokens:     promptTokens,
					CompletionTokens: completionTokens,
					TotalTokens:      promptTokens + completionTokens,
				}
			}
			select {
			case s.ch <- chunk:
				return nil
			case <-streamCtx.Done():
				return streamCtx.Err()
			}
		})
		if err != nil {
			s.setErr(llm.NewProviderError("Ollama stream error", err))
		}
	}()

	return s, nil
}

// Embedding implements llm.Provider.
func (p *Provider) Embedding(ctx context.Context, req *llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	resp, err := p.client.Embed(ctx, &api.EmbedRequest{
		Model: req.Model,
		Input: req.Input,
	})
	if err != nil {
		return nil, llm.NewProviderError("Ollama embed error", err)
	}

	data := make([]llm.Embedding, len(resp.Embeddings))
	for i, vec := range resp.Embeddings {
		data[i] = llm.Embedding{Index: i, Vector: vec}
	}

	return &llm.EmbeddingResponse{
		Model: resp.Model,
		Data:  data,
		Usage: &llm.Usage{
			PromptTokens: resp.PromptEvalCount,
			TotalTokens:  resp.PromptEvalCount,
		},
	}, nil
}

// toChatRequest converts a neutral request into the Ollama form.
func toChatRequest(req *llm.Request, stream bool) *api.ChatRequest {
	messages := make([]api.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = api.Message{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}

	chatReq := &api.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
		Options:  make(map[string]any),
	}
	if req.MaxTokens > 0 {
		chatReq.Options["num_predict"] = req.MaxTokens
	}
	if req.Temperature != nil {
		chatReq.Options["temperature"] = *req.Temperature
	}
	return chatReq
}

// chatStream adapts Ollama's callback streaming to the llm.Stream interface.
type chatStream struct {
	ch     chan *llm.StreamChunk
	cancel context.CancelFunc
	chunk  *llm.StreamChunk

	mu  sync.Mutex
	err error
}

func (s *chatStream) Next() bool {
	chunk, ok := <-s.ch
	if !ok {
		return false
	}
	s.chunk = chunk
	return true
}

func (s *chatStream) Chunk() *llm.StreamChunk { return s.chunk }

func (s *chatStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *chatStream) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *chatStream) Close() error {
	s.cancel()
	return nil
}

var _ llm.Stream = (*chatStream)(nil)
