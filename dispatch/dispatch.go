// Package dispatch implements the host side of the plugin contract: the
// ordered provider dispatch table the registry appends to, and a Router that
// resolves "<provider>/<model-id>" identifiers against the table and invokes
// handler capabilities with hooks running around each call.
package dispatch

import (
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/modelmux/pluginkit/llm"
)

// Entry maps a provider name to a handler instance.
type Entry struct {
	Provider string
	Handler  llm.Provider
}

// Appender is the registry's only write surface into the host.
type Appender interface {
	Append(e Entry)
}

// Table is an ordered, append-only collection of dispatch entries.
// Unlike the registry it is mutex-guarded: the table is consulted at request
// time, well past the single-threaded registration phase.
type Table struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewTable creates an empty dispatch table.
func NewTable() *Table {
	return &Table{}
}

// Append adds an entry to the end of the table.
func (t *Table) Append(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
}

// Entries returns a snapshot copy of the table in append order.
func (t *Table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Entry(nil), t.entries...)
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Providers returns the provider names in the table, in append order.
func (t *Table) Providers() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return lo.Map(t.entries, func(e Entry, _ int) string { return e.Provider })
}

// Reset removes all entries. Intended for tests and host reloads.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}

// handler returns the first entry registered under the given provider name.
func (t *Table) handler(provider string) (llm.Provider, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, e := range t.entries {
		if e.Provider == provider {
			return e.Handler, true
		}
	}
	return nil, false
}

var defaultTable = NewTable()

// Default returns the process-wide dispatch table the global registry
// initializes into.
func Default() *Table {
	return defaultTable
}

// SplitModel splits a "<provider>/<model-id>" identifier into its parts.
// The model id may itself contain slashes; only the first separator counts.
func SplitModel(model string) (provider, modelID string, ok bool) {
	provider, modelID, ok = strings.Cut(model, "/")
	if !ok || provider == "" {
		return "", "", false
	}
	return provider, modelID, true
}
