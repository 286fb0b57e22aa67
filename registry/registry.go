// Package registry manages the set of known provider names, the factory
// backing each name, and at most one lazily-created instance per name, and
// bridges registered providers into the host dispatch table.
//
// The registry performs no internal locking. Registration, unregistration,
// and initialization are expected to happen during single-threaded process
// start-up; callers that must mutate a registry concurrently need to
// serialize access themselves. The singleton instances handed out by Get are
// the same object for every caller — whether that object tolerates concurrent
// use is each provider's own responsibility.
package registry

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/modelmux/pluginkit/dispatch"
	"github.com/modelmux/pluginkit/llm"
)

// Factory constructs a provider instance. It is the registered "type": the
// registry calls it with no arguments, at most once per registered name.
type Factory func() llm.Provider

// entry is the per-name state: registered, and after first use, instantiated.
type entry struct {
	factory  Factory
	instance llm.Provider
	created  bool
}

// Registry owns the name → factory table and the lazily-populated
// name → instance table.
type Registry struct {
	entries map[string]*entry
	order   []string // registration order, drives Initialize
	host    dispatch.Appender
	logger  zerolog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithHost attaches the host dispatch table Initialize appends into.
// A registry without a host can register and look up providers but fails
// Initialize with ErrHostUnavailable.
func WithHost(host dispatch.Appender) Option {
	return func(r *Registry) {
		r.host = host
	}
}

// WithLogger sets the logger used for registration notices.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		logger:  zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a provider factory under the given name.
//
// Names are opaque: any string, including the empty string, is a legal key.
// Registering an already-registered name fails with ErrDuplicateProvider and
// leaves the registry unchanged. A nil factory fails with ErrInvalidFactory.
// No instance is created here; construction is deferred to the first Get or
// to initialization.
func (r *Registry) Register(name string, factory Factory) error {
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateProvider)
	}
	if factory == nil {
		return fmt.Errorf("register %q: %w", name, ErrInvalidFactory)
	}

	r.entries[name] = &entry{factory: factory}
	r.order = append(r.order, name)
	r.logger.Info().Str("provider", name).Msg("Registered provider")
	return nil
}

// Unregister removes a provider and its cached instance. Unknown names are a
// silent no-op; Unregister never fails.
func (r *Registry) Unregister(name string) {
	if _, exists := r.entries[name]; !exists {
		return
	}
	delete(r.entries, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Info().Str("provider", name).Msg("Unregistered provider")
}

// Get returns the instance registered under name, constructing and caching it
// on first use. The second return value reports whether the name is
// registered; Get never fails for unknown names.
func (r *Registry) Get(name string) (llm.Provider, bool) {
	e, exists := r.entries[name]
	if !exists {
		return nil, false
	}
	return r.instance(e), true
}

// Names returns a snapshot of the registered provider names in registration
// order. Mutating the returned slice does not affect the registry.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Initialize pushes every registered provider into the host dispatch table,
// in registration order, constructing instances as needed. It fails with
// ErrHostUnavailable when no host table is attached.
func (r *Registry) Initialize() error {
	if r.host == nil {
		return ErrHostUnavailable
	}

	for _, name := range r.order {
		r.host.Append(dispatch.Entry{
			Provider: name,
			Handler:  r.instance(r.entries[name]),
		})
	}

	r.logger.Info().Int("count", len(r.order)).Msg("Initialized providers with host dispatch table")
	return nil
}

// InitializeProvider pushes a single registered provider into the host
// dispatch table. It fails with ErrHostUnavailable when no host table is
// attached and with ErrUnknownProvider when the name was never registered.
func (r *Registry) InitializeProvider(name string) error {
	if r.host == nil {
		return ErrHostUnavailable
	}
	e, exists := r.entries[name]
	if !exists {
		return fmt.Errorf("initialize %q: %w", name, ErrUnknownProvider)
	}

	r.host.Append(dispatch.Entry{
		Provider: name,
		Handler:  r.instance(e),
	})

	r.logger.Info().Str("provider", name).Msg("Initialized provider with host dispatch table")
	return nil
}

// instance performs the lazy registered → instantiated upgrade.
func (r *Registry) instance(e *entry) llm.Provider {
	if !e.created {
		e.instance = e.factory()
		e.created = true
	}
	return e.instance
}
