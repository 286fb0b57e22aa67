package hooks

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// RequestLogger logs every routed call and its outcome through zerolog.
// It demonstrates using the pre-call and logging phases together for
// observability without touching request or response content.
type RequestLogger struct {
	Noop
	logger zerolog.Logger
	count  atomic.Uint64
}

// NewRequestLogger creates a RequestLogger writing to the given logger.
func NewRequestLogger(logger zerolog.Logger) *RequestLogger {
	return &RequestLogger{
		logger: logger.With().Str("component", "requestLogger").Logger(),
	}
}

// RequestCount returns the number of calls observed so far.
func (l *RequestLogger) RequestCount() uint64 {
	return l.count.Load()
}

func (l *RequestLogger) PreCall(ctx context.Context, call *CallInfo) error {
	n := l.count.Add(1)
	evt := l.logger.Info().
		Uint64("request", n).
		Str("type", string(call.Type)).
		Str("model", call.Model)
	if call.Request != nil {
		evt = evt.Int("messages", len(call.Request.Messages))
	}
	evt.Msg("Dispatching request")
	return nil
}

func (l *RequestLogger) LogSuccess(ctx context.Context, result *CallResult) {
	evt := l.logger.Info().
		Str("model", result.Call.Model).
		Dur("duration", result.Duration())
	if result.Response != nil && result.Response.Usage != nil {
		evt = evt.Int("total_tokens", result.Response.Usage.TotalTokens)
	}
	evt.Msg("Request succeeded")
}

func (l *RequestLogger) LogFailure(ctx context.Context, result *CallResult) {
	l.logger.Error().
		Err(result.Err).
		Str("model", result.Call.Model).
		Dur("duration", result.Duration()).
		Msg("Request failed")
}
