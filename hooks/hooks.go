// Package hooks defines the interceptor contract the host runs around every
// routed call: mutate requests before dispatch, mutate responses before they
// reach the caller, observe streaming output, and log outcomes.
//
// Implementations embed Noop and override the phases they care about, the same
// selective-override pattern llm.UnimplementedProvider uses for providers.
package hooks

import (
	"context"
	"time"

	"github.com/modelmux/pluginkit/llm"
)

// CallType identifies which capability operation a call targets.
type CallType string

const (
	CallTypeCompletion      CallType = "completion"
	CallTypeStreaming       CallType = "streaming"
	CallTypeEmbedding       CallType = "embedding"
	CallTypeImageGeneration CallType = "image_generation"
)

// CallInfo describes a routed call. Exactly one of the request fields is
// populated, matching Type. Hooks may mutate the populated request in PreCall.
type CallInfo struct {
	Type     CallType
	Model    string // Full "<provider>/<model-id>" identifier as received
	Provider string // Provider name the call resolved to

	Request          *llm.Request          // Completion and streaming calls
	EmbeddingRequest *llm.EmbeddingRequest // Embedding calls
	ImageRequest     *llm.ImageRequest     // Image generation calls

	Metadata map[string]any
}

// CallResult describes a finished call for the logging phases.
type CallResult struct {
	Call     *CallInfo
	Response *llm.Response // Completion calls only
	Err      error         // Set for failures
	Start    time.Time
	End      time.Time
}

// Duration returns the wall-clock time the call took.
func (r *CallResult) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Hook intercepts routed calls.
type Hook interface {
	// PreCall runs before the provider is invoked. It may mutate the request
	// carried by call. A non-nil error aborts the call.
	PreCall(ctx context.Context, call *CallInfo) error

	// PostCallSuccess runs after a successful non-streaming completion and may
	// mutate the response. A non-nil error fails the call.
	PostCallSuccess(ctx context.Context, call *CallInfo, resp *llm.Response) error

	// PostCallStreaming observes each chunk of a streaming response.
	// Chunks are already on their way to the caller and cannot be modified.
	PostCallStreaming(ctx context.Context, call *CallInfo, chunk *llm.StreamChunk)

	// LogSuccess records a successful call.
	LogSuccess(ctx context.Context, result *CallResult)

	// LogFailure records a failed call.
	LogFailure(ctx context.Context, result *CallResult)
}

// Noop is an embeddable Hook whose every phase is a no-op.
type Noop struct{}

func (Noop) PreCall(ctx context.Context, call *CallInfo) error { return nil }

func (Noop) PostCallSuccess(ctx context.Context, call *CallInfo, resp *llm.Response) error {
	return nil
}

func (Noop) PostCallStreaming(ctx context.Context, call *CallInfo, chunk *llm.StreamChunk) {}

func (Noop) LogSuccess(ctx context.Context, result *CallResult) {}

func (Noop) LogFailure(ctx context.Context, result *CallResult) {}

var _ Hook = Noop{}

// Chain runs a set of hooks in order. PreCall and PostCallSuccess stop at the
// first error; the logging phases always run for every hook.
type Chain []Hook

func (c Chain) PreCall(ctx context.Context, call *CallInfo) error {
	for _, h := range c {
		if err := h.PreCall(ctx, call); err != nil {
			return err
		}
	}
	return nil
}

func (c Chain) PostCallSuccess(ctx context.Context, call *CallInfo, resp *llm.Response) error {
	for _, h := range c {
		if err := h.PostCallSuccess(ctx, call, resp); err != nil {
			return err
		}
	}
	return nil
}

func (c Chain) PostCallStreaming(ctx context.Context, call *CallInfo, chunk *llm.StreamChunk) {
	for _, h := range c {
		h.PostCallStreaming(ctx, call, chunk)
	}
}

func (c Chain) LogSuccess(ctx context.Context, result *CallResult) {
	for _, h := range c {
		h.LogSuccess(ctx, result)
	}
}

func (c Chain) LogFailure(ctx context.Context, result *CallResult) {
	for _, h := range c {
		h.LogFailure(ctx, result)
	}
}

var _ Hook = Chain(nil)
