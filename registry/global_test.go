package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelmux/pluginkit/dispatch"
	"github.com/modelmux/pluginkit/llm"
	"github.com/modelmux/pluginkit/registry"
)

func TestGlobalRegistry(t *testing.T) {
	// The global registry is process-wide state shared with the default
	// dispatch table; clean up both.
	t.Cleanup(func() {
		registry.Default().Unregister("global-echo")
		dispatch.Default().Reset()
	})

	require.NoError(t, registry.Register("global-echo", func() llm.Provider {
		return &fakeProvider{kind: "global"}
	}))

	p, ok := registry.Get("global-echo")
	require.True(t, ok)
	assert.NotNil(t, p)

	require.NoError(t, registry.Initialize())
	assert.Contains(t, dispatch.Default().Providers(), "global-echo")

	assert.Same(t, registry.Default(), registry.Default())
}
