package registry

import (
	"github.com/modelmux/pluginkit/dispatch"
	"github.com/modelmux/pluginkit/llm"
)

// The process-wide registry. It exists so independently-loaded plugin
// packages can share one registration table without explicit wiring; code
// that can thread a *Registry through should prefer New and dependency
// injection.
var global = New(WithHost(dispatch.Default()))

// Register registers a provider factory with the global registry.
func Register(name string, factory Factory) error {
	return global.Register(name, factory)
}

// Get returns a provider instance from the global registry.
func Get(name string) (llm.Provider, bool) {
	return global.Get(name)
}

// Initialize pushes all globally registered providers into the default
// dispatch table.
func Initialize() error {
	return global.Initialize()
}

// Default returns the global registry.
func Default() *Registry {
	return global
}
