// Package openai implements the provider capability contract on top of the
// OpenAI API. It supports completion, streaming, embedding, and image
// generation.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/modelmux/pluginkit/llm"
)

// OpenAI errors don't directly expose retry-after headers; use a default
// delay for rate limits.
const defaultRetryAfter = 60 * time.Second

// Provider implements llm.Provider for OpenAI's API.
type Provider struct {
	llm.UnimplementedProvider
	client       *openai.Client
	baseURL      string
	organization string
}

// New creates an OpenAI provider configured from the environment
// (OPENAI_API_KEY, OPENAI_BASE_URL, OPENAI_ORG_ID). It takes no arguments so
// it can serve directly as a registry factory; when no key is configured,
// calls fail until a per-request key is supplied.
func New() llm.Provider {
	p, err := NewWithConfig(
		os.Getenv("OPENAI_API_KEY"),
		os.Getenv("OPENAI_BASE_URL"),
		os.Getenv("OPENAI_ORG_ID"),
	)
	if err != nil {
		return &Provider{
			baseURL:      os.Getenv("OPENAI_BASE_URL"),
			organization: os.Getenv("OPENAI_ORG_ID"),
		}
	}
	return p
}

// NewWithConfig creates an OpenAI provider with explicit settings.
func NewWithConfig(apiKey, baseURL, organization string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	return &Provider{
		client:       newClient(apiKey, baseURL, organization),
		baseURL:      baseURL,
		organization: organization,
	}, nil
}

func newClient(apiKey, baseURL, organization string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if organization != "" {
		config.OrgID = organization
	}
	return openai.NewClientWithConfig(config)
}

// clientFor returns the client to use for a call, honoring a per-request key.
func (p *Provider) clientFor(requestKey string) (*openai.Client, error) {
	if requestKey != "" {
		return newClient(requestKey, p.baseURL, p.organization), nil
	}
	if p.client == nil {
		return nil, llm.NewInvalidRequestError("openai api key is not configured", nil)
	}
	return p.client, nil
}

// Completion implements llm.Provider.
func (p *Provider) Completion(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	client, err := p.clientFor(req.APIKey)
	if err != nil {
		return nil, err
	}

	chatResp, err := client.CreateChatCompletion(ctx, toChatRequest(req, false))
	if err != nil {
		return nil, convertError(err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, llm.NewProviderError("no choices in response", nil)
	}

	choices := make([]llm.Choice, len(chatResp.Choices))
	for i, c := range chatResp.Choices {
		choices[i] = llm.Choice{
			Index:        c.Index,
			Message:      llm.NewTextMessage(llm.RoleAssistant, c.Message.Content),
			FinishReason: string(c.FinishReason),
		}
	}

	return &llm.Response{
		ID:      chatResp.ID,
		Model:   chatResp.Model,
		Created: chatResp.Created,
		Choices: choices,
		Usage: &llm.Usage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
		},
	}, nil
}

// Streaming implements llm.Provider.
func (p *Provider) Streaming(ctx context.Context, req *llm.Request) (llm.Stream, error) {
	client, err := p.clientFor(req.APIKey)
	if err != nil {
		return nil, err
	}

	stream, err := client.CreateChatCompletionStream(ctx, toChatRequest(req, true))
	if err != nil {
		return nil, convertError(err)
	}
	return &chatStream{stream: stream}, nil
}

// Embedding implements llm.Provider.
func (p *Provider) Embedding(ctx context.Context, req *llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	client, err := p.clientFor(req.APIKey)
	if err != nil {
		return nil, err
	}

	resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: req.Input,
		Model: openai.EmbeddingModel(req.Model),
	})
	if err != nil {
		return nil, convertError(err)
	}

	data := make([]llm.Embedding, len(resp.Data))
	for i, e := range resp.Data {
		data[i] = llm.Embedding{Index: e.Index, Vector: e.Embedding}
	}

	return &llm.EmbeddingResponse{
		Model: string(resp.Model),
		Data:  data,
		Usage: &llm.Usage{
			PromptTokens: resp.Usage.PromptTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// ImageGeneration implements llm.Provider.
func (p *Provider) ImageGeneration(ctx context.Context, req *llm.ImageRequest) (*llm.ImageResponse, error) {
	client, err := p.clientFor(req.APIKey)
	if err != nil {
		return nil, err
	}

	n := req.N
	if n == 0 {
		n = 1
	}

	resp, err := client.CreateImage(ctx, openai.ImageRequest{
		Prompt: req.Prompt,
		Model:  req.Model,
		N:      n,
		Size:   req.Size,
	})
	if err != nil {
		return nil, convertError(err)
	}

	images := make([]llm.ImageData, len(resp.Data))
	for i, d := range resp.Data {
		images[i] = llm.ImageData{URL: d.URL, B64JSON: d.B64JSON}
	}

	return &llm.ImageResponse{Created: resp.Created, Images: images}, nil
}

// toChatRequest converts a neutral request into the OpenAI form.
func toChatRequest(req *llm.Request, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   stream,
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if req.Temperature != nil {
		chatReq.Temperature = float32(*req.Temperature)
	}
	return chatReq
}

// chatStream adapts an OpenAI completion stream to the llm.Stream interface.
type chatStream struct {
	stream *openai.ChatCompletionStream
	chunk  *llm.StreamChunk
	err    error
	done   bool
}

func (s *chatStream) Next() bool {
	if s.done || s.err != nil {
		return false
	}

	for {
		resp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			s.done = true
			return false
		}
		if err != nil {
			s.err = convertError(err)
			return false
		}
		if len(resp.Choices) == 0 {
			continue
		}

		choice := resp.Choices[0]
		s.chunk = &llm.StreamChunk{
			Text:         choice.Delta.Content,
			Index:        choice.Index,
			FinishReason: string(choice.FinishReason),
			Done:         choice.FinishReason != "",
		}
		return true
	}
}

func (s *chatStream) Chunk() *llm.StreamChunk { return s.chunk }

func (s *chatStream) Err() error { return s.err }

func (s *chatStream) Close() error {
	s.done = true
	return s.stream.Close()
}

// convertError converts OpenAI API errors to llm.Error types.
func convertError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return llm.NewProviderError("OpenAI API error", err)
	}

	switch apiErr.HTTPStatusCode {
	case http.StatusTooManyRequests:
		retryAfter := defaultRetryAfter
		return llm.NewRateLimitError(
			fmt.Sprintf("OpenAI rate limit: %s", apiErr.Message), &retryAfter, err)
	case http.StatusBadRequest:
		return &llm.Error{
			Type:        llm.ErrorTypeInvalidRequest,
			Message:     fmt.Sprintf("OpenAI invalid request: %s", apiErr.Message),
			Retryable:   false,
			StatusCode:  apiErr.HTTPStatusCode,
			ProviderErr: err,
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return &llm.Error{
			Type:        llm.ErrorTypeProvider,
			Message:     fmt.Sprintf("OpenAI server error: %s", apiErr.Message),
			Retryable:   true,
			StatusCode:  apiErr.HTTPStatusCode,
			ProviderErr: err,
		}
	default:
		return &llm.Error{
			Type:        llm.ErrorTypeProvider,
			Message:     fmt.Sprintf("OpenAI API error: %s", apiErr.Message),
			Retryable:   false,
			StatusCode:  apiErr.HTTPStatusCode,
			ProviderErr: err,
		}
	}
}

var _ llm.Stream = (*chatStream)(nil)
