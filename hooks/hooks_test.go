package hooks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelmux/pluginkit/hooks"
	"github.com/modelmux/pluginkit/llm"
)

func completionResponse(text string) *llm.Response {
	return &llm.Response{
		Choices: []llm.Choice{
			{Message: llm.NewTextMessage(llm.RoleAssistant, text), FinishReason: "stop"},
		},
		Usage: &llm.Usage{TotalTokens: 5},
	}
}

func completionCall(model string) *hooks.CallInfo {
	return &hooks.CallInfo{
		Type:    hooks.CallTypeCompletion,
		Model:   model,
		Request: &llm.Request{Model: model},
	}
}

func TestNoopIsInert(t *testing.T) {
	ctx := context.Background()
	var h hooks.Hook = hooks.Noop{}

	call := completionCall("test/m")
	resp := completionResponse("hello")

	require.NoError(t, h.PreCall(ctx, call))
	require.NoError(t, h.PostCallSuccess(ctx, call, resp))
	assert.Equal(t, "hello", resp.Text())
}

func TestResponseModifier(t *testing.T) {
	ctx := context.Background()
	m := hooks.NewResponseModifier("[AI Response] ")

	resp := completionResponse("hello there")
	require.NoError(t, m.PostCallSuccess(ctx, completionCall("test/m"), resp))
	assert.Equal(t, "[AI Response] hello there", resp.Text())
}

func TestResponseModifierDefaultPrefix(t *testing.T) {
	ctx := context.Background()
	m := hooks.NewResponseModifier("")

	resp := completionResponse("hello")
	require.NoError(t, m.PostCallSuccess(ctx, completionCall("test/m"), resp))
	assert.Equal(t, "[Verified] hello", resp.Text())
}

func TestResponseModifierSkipsEmptyContent(t *testing.T) {
	ctx := context.Background()
	m := hooks.NewResponseModifier("[V] ")

	resp := completionResponse("")
	require.NoError(t, m.PostCallSuccess(ctx, completionCall("test/m"), resp))
	assert.Equal(t, "", resp.Text())
}

func TestContentFilter(t *testing.T) {
	ctx := context.Background()
	f := hooks.NewContentFilter([]string{"spam", "advertisement"})

	resp := completionResponse("this spam is an advertisement for spam")
	require.NoError(t, f.PostCallSuccess(ctx, completionCall("test/m"), resp))
	assert.Equal(t, "this [FILTERED] is an [FILTERED] for [FILTERED]", resp.Text())
}

func TestRequestLoggerCounts(t *testing.T) {
	ctx := context.Background()
	l := hooks.NewRequestLogger(zerolog.Nop())

	require.NoError(t, l.PreCall(ctx, completionCall("test/m")))
	require.NoError(t, l.PreCall(ctx, completionCall("test/m")))
	assert.Equal(t, uint64(2), l.RequestCount())

	now := time.Now()
	l.LogSuccess(ctx, &hooks.CallResult{
		Call:     completionCall("test/m"),
		Response: completionResponse("ok"),
		Start:    now.Add(-time.Second),
		End:      now,
	})
	l.LogFailure(ctx, &hooks.CallResult{
		Call:  completionCall("test/m"),
		Err:   errors.New("boom"),
		Start: now,
		End:   now,
	})
}

func TestChainStopsAtFirstError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	chain := hooks.Chain{
		failingHook{err: boom},
		hooks.NewResponseModifier("[V] "),
	}

	resp := completionResponse("hello")
	err := chain.PostCallSuccess(ctx, completionCall("test/m"), resp)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "hello", resp.Text(), "later hooks must not run after a failure")
}

func TestChainRunsInOrder(t *testing.T) {
	ctx := context.Background()
	chain := hooks.Chain{
		hooks.NewContentFilter([]string{"secret"}),
		hooks.NewResponseModifier("[V] "),
	}

	resp := completionResponse("the secret word")
	require.NoError(t, chain.PostCallSuccess(ctx, completionCall("test/m"), resp))
	assert.Equal(t, "[V] the [FILTERED] word", resp.Text())
}

func TestCallResultDuration(t *testing.T) {
	start := time.Now()
	result := &hooks.CallResult{Start: start, End: start.Add(250 * time.Millisecond)}
	assert.Equal(t, 250*time.Millisecond, result.Duration())
}

type failingHook struct {
	hooks.Noop
	err error
}

func (h failingHook) PostCallSuccess(ctx context.Context, call *hooks.CallInfo, resp *llm.Response) error {
	return h.err
}
