package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/modelmux/pluginkit/hooks"
	"github.com/modelmux/pluginkit/llm"
)

// ErrNoRoute is returned when a model identifier does not resolve to a
// provider in the dispatch table.
var ErrNoRoute = errors.New("no provider route for model")

// Router resolves model identifiers against a dispatch table and invokes the
// matching handler, running the configured hooks around every call.
type Router struct {
	table      *Table
	hooks      hooks.Chain
	maxRetries uint64
	logger     zerolog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithHooks appends hooks to the router's chain, in execution order.
func WithHooks(h ...hooks.Hook) RouterOption {
	return func(r *Router) {
		r.hooks = append(r.hooks, h...)
	}
}

// WithRetry enables retrying of retryable provider errors with exponential
// backoff, up to maxRetries additional attempts.
func WithRetry(maxRetries uint64) RouterOption {
	return func(r *Router) {
		r.maxRetries = maxRetries
	}
}

// WithLogger sets the router's logger.
func WithLogger(logger zerolog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// NewRouter creates a Router over the given table.
func NewRouter(table *Table, opts ...RouterOption) *Router {
	r := &Router{
		table:  table,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resolve maps a full model identifier to its handler and bare model id.
func (r *Router) resolve(model string) (provider, modelID string, handler llm.Provider, err error) {
	provider, modelID, ok := SplitModel(model)
	if !ok {
		return "", "", nil, fmt.Errorf("%w: %q is not of the form <provider>/<model-id>", ErrNoRoute, model)
	}
	handler, ok = r.table.handler(provider)
	if !ok {
		return "", "", nil, fmt.Errorf("%w: provider %q is not in the dispatch table", ErrNoRoute, provider)
	}
	return provider, modelID, handler, nil
}

// Completion routes a non-streaming completion request.
// The request's Model must carry the "<provider>/<model-id>" form; the handler
// receives the bare model id.
func (r *Router) Completion(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	call := &hooks.CallInfo{
		Type:    hooks.CallTypeCompletion,
		Model:   req.Model,
		Request: req,
	}
	if err := r.hooks.PreCall(ctx, call); err != nil {
		return nil, err
	}

	// Resolve after PreCall so hooks may rewrite model selection.
	provider, modelID, handler, err := r.resolve(req.Model)
	if err != nil {
		return nil, err
	}
	call.Provider = provider

	handlerReq := *req
	handlerReq.Model = modelID

	start := time.Now()
	resp, err := r.withRetry(ctx, func() (*llm.Response, error) {
		return handler.Completion(ctx, &handlerReq)
	})
	result := &hooks.CallResult{Call: call, Response: resp, Err: err, Start: start, End: time.Now()}

	if err != nil {
		r.hooks.LogFailure(ctx, result)
		return nil, err
	}
	if err := r.hooks.PostCallSuccess(ctx, call, resp); err != nil {
		result.Err = err
		r.hooks.LogFailure(ctx, result)
		return nil, err
	}
	r.hooks.LogSuccess(ctx, result)
	return resp, nil
}

// Streaming routes a streaming completion request. The returned stream runs
// the observation hooks per chunk and the logging hooks once it is drained or
// fails.
func (r *Router) Streaming(ctx context.Context, req *llm.Request) (llm.Stream, error) {
	call := &hooks.CallInfo{
		Type:    hooks.CallTypeStreaming,
		Model:   req.Model,
		Request: req,
	}
	if err := r.hooks.PreCall(ctx, call); err != nil {
		return nil, err
	}

	provider, modelID, handler, err := r.resolve(req.Model)
	if err != nil {
		return nil, err
	}
	call.Provider = provider

	handlerReq := *req
	handlerReq.Model = modelID

	start := time.Now()
	inner, err := handler.Streaming(ctx, &handlerReq)
	if err != nil {
		r.hooks.LogFailure(ctx, &hooks.CallResult{Call: call, Err: err, Start: start, End: time.Now()})
		return nil, err
	}
	return &hookedStream{
		ctx:   ctx,
		inner: inner,
		hooks: r.hooks,
		call:  call,
		start: start,
	}, nil
}

// Embedding routes an embedding request.
func (r *Router) Embedding(ctx context.Context, req *llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	call := &hooks.CallInfo{
		Type:             hooks.CallTypeEmbedding,
		Model:            req.Model,
		EmbeddingRequest: req,
	}
	if err := r.hooks.PreCall(ctx, call); err != nil {
		return nil, err
	}

	provider, modelID, handler, err := r.resolve(req.Model)
	if err != nil {
		return nil, err
	}
	call.Provider = provider

	handlerReq := *req
	handlerReq.Model = modelID

	start := time.Now()
	resp, err := handler.Embedding(ctx, &handlerReq)
	result := &hooks.CallResult{Call: call, Err: err, Start: start, End: time.Now()}
	if err != nil {
		r.hooks.LogFailure(ctx, result)
		return nil, err
	}
	r.hooks.LogSuccess(ctx, result)
	return resp, nil
}

// ImageGeneration routes an image generation request.
func (r *Router) ImageGeneration(ctx context.Context, req *llm.ImageRequest) (*llm.ImageResponse, error) {
	call := &hooks.CallInfo{
		Type:         hooks.CallTypeImageGeneration,
		Model:        req.Model,
		ImageRequest: req,
	}
	if err := r.hooks.PreCall(ctx, call); err != nil {
		return nil, err
	}

	provider, modelID, handler, err := r.resolve(req.Model)
	if err != nil {
		return nil, err
	}
	call.Provider = provider

	handlerReq := *req
	handlerReq.Model = modelID

	start := time.Now()
	resp, err := handler.ImageGeneration(ctx, &handlerReq)
	result := &hooks.CallResult{Call: call, Err: err, Start: start, End: time.Now()}
	if err != nil {
		r.hooks.LogFailure(ctx, result)
		return nil, err
	}
	r.hooks.LogSuccess(ctx, result)
	return resp, nil
}

// withRetry runs fn, retrying retryable provider errors with exponential
// backoff when the router was configured with WithRetry.
func (r *Router) withRetry(ctx context.Context, fn func() (*llm.Response, error)) (*llm.Response, error) {
	if r.maxRetries == 0 {
		return fn()
	}

	var resp *llm.Response
	op := func() error {
		var err error
		resp, err = fn()
		if err == nil {
			return nil
		}
		if !llm.IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		r.logger.Warn().Err(err).Msg("Retrying provider call")
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return resp, nil
}

// hookedStream wraps a provider stream, feeding each chunk to the observation
// hooks and firing the logging hooks exactly once when the stream ends.
type hookedStream struct {
	ctx   context.Context
	inner llm.Stream
	hooks hooks.Chain
	call  *hooks.CallInfo
	start time.Time
	once  sync.Once
}

func (s *hookedStream) Next() bool {
	if s.inner.Next() {
		if chunk := s.inner.Chunk(); chunk != nil {
			s.hooks.PostCallStreaming(s.ctx, s.call, chunk)
		}
		return true
	}
	s.finish()
	return false
}

func (s *hookedStream) Chunk() *llm.StreamChunk { return s.inner.Chunk() }

func (s *hookedStream) Err() error { return s.inner.Err() }

func (s *hookedStream) Close() error {
	err := s.inner.Close()
	s.finish()
	return err
}

func (s *hookedStream) finish() {
	s.once.Do(func() {
		result := &hooks.CallResult{
			Call:  s.call,
			Err:   s.inner.Err(),
			Start: s.start,
			End:   time.Now(),
		}
		if result.Err != nil {
			s.hooks.LogFailure(s.ctx, result)
			return
		}
		s.hooks.LogSuccess(s.ctx, result)
	})
}

var _ llm.Stream = (*hookedStream)(nil)
