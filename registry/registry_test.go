package registry_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelmux/pluginkit/dispatch"
	"github.com/modelmux/pluginkit/llm"
	"github.com/modelmux/pluginkit/registry"
)

type fakeProvider struct {
	llm.UnimplementedProvider
	kind string
}

func fakeFactory(kind string) registry.Factory {
	return func() llm.Provider {
		return &fakeProvider{kind: kind}
	}
}

func newRegistry(opts ...registry.Option) *registry.Registry {
	opts = append(opts, registry.WithLogger(zerolog.Nop()))
	return registry.New(opts...)
}

func TestRegisterThenNames(t *testing.T) {
	reg := newRegistry()

	require.NoError(t, reg.Register("echo", fakeFactory("echo")))

	names := reg.Names()
	assert.Equal(t, []string{"echo"}, names)
}

func TestRegisterDuplicateFails(t *testing.T) {
	reg := newRegistry()

	require.NoError(t, reg.Register("echo", fakeFactory("first")))
	err := reg.Register("echo", fakeFactory("second"))
	require.ErrorIs(t, err, registry.ErrDuplicateProvider)

	// State unchanged from after the first registration.
	assert.Equal(t, []string{"echo"}, reg.Names())

	// Get still resolves to the first factory's instances.
	p, ok := reg.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "first", p.(*fakeProvider).kind)
}

func TestRegisterNilFactoryFails(t *testing.T) {
	reg := newRegistry()

	err := reg.Register("bad", nil)
	require.ErrorIs(t, err, registry.ErrInvalidFactory)
	assert.Empty(t, reg.Names())
}

func TestRegisterEmptyNameAllowed(t *testing.T) {
	reg := newRegistry()

	require.NoError(t, reg.Register("", fakeFactory("anon")))
	assert.Equal(t, []string{""}, reg.Names())

	p, ok := reg.Get("")
	require.True(t, ok)
	assert.NotNil(t, p)
}

func TestGetReturnsSingleton(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.Register("echo", fakeFactory("echo")))

	first, ok := reg.Get("echo")
	require.True(t, ok)
	second, ok := reg.Get("echo")
	require.True(t, ok)

	assert.Same(t, first, second)
}

func TestGetUnknownName(t *testing.T) {
	reg := newRegistry()

	p, ok := reg.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestUnregister(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.Register("echo", fakeFactory("echo")))

	// Force instantiation so the instance table has something to drop.
	_, ok := reg.Get("echo")
	require.True(t, ok)

	reg.Unregister("echo")

	assert.Empty(t, reg.Names())
	_, ok = reg.Get("echo")
	assert.False(t, ok)
}

func TestUnregisterAbsentIsNoop(t *testing.T) {
	reg := newRegistry()

	assert.NotPanics(t, func() {
		reg.Unregister("never-registered")
	})
}

func TestReregisterCreatesNewInstance(t *testing.T) {
	reg := newRegistry()
	factory := fakeFactory("echo")
	require.NoError(t, reg.Register("echo", factory))

	before, ok := reg.Get("echo")
	require.True(t, ok)

	reg.Unregister("echo")
	require.NoError(t, reg.Register("echo", factory))

	after, ok := reg.Get("echo")
	require.True(t, ok)
	assert.NotSame(t, before, after)
}

func TestNamesSnapshotIsIndependent(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.Register("a", fakeFactory("a")))
	require.NoError(t, reg.Register("b", fakeFactory("b")))

	names := reg.Names()
	names[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, reg.Names())
}

func TestInitializeWithoutHost(t *testing.T) {
	reg := newRegistry()
	require.NoError(t, reg.Register("echo", fakeFactory("echo")))

	err := reg.Initialize()
	require.ErrorIs(t, err, registry.ErrHostUnavailable)

	err = reg.InitializeProvider("echo")
	require.ErrorIs(t, err, registry.ErrHostUnavailable)
}

func TestInitializeEmptyRegistry(t *testing.T) {
	table := dispatch.NewTable()
	reg := newRegistry(registry.WithHost(table))

	require.NoError(t, reg.Initialize())
	assert.Zero(t, table.Len())
}

func TestInitializeAppendsAllInOrder(t *testing.T) {
	table := dispatch.NewTable()
	reg := newRegistry(registry.WithHost(table))

	require.NoError(t, reg.Register("echo", fakeFactory("echo")))
	require.NoError(t, reg.Register("mockapi", fakeFactory("mockapi")))
	require.NoError(t, reg.Register("other", fakeFactory("other")))

	require.NoError(t, reg.Initialize())

	entries := table.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"echo", "mockapi", "other"}, table.Providers())

	// Each entry carries that name's singleton instance.
	for _, e := range entries {
		p, ok := reg.Get(e.Provider)
		require.True(t, ok)
		assert.Same(t, p, e.Handler)
	}
}

func TestInitializeProvider(t *testing.T) {
	table := dispatch.NewTable()
	reg := newRegistry(registry.WithHost(table))
	require.NoError(t, reg.Register("echo", fakeFactory("echo")))

	require.NoError(t, reg.InitializeProvider("echo"))
	require.Equal(t, 1, table.Len())

	entry := table.Entries()[0]
	assert.Equal(t, "echo", entry.Provider)

	p, ok := reg.Get("echo")
	require.True(t, ok)
	assert.Same(t, p, entry.Handler)
}

func TestInitializeProviderUnknown(t *testing.T) {
	table := dispatch.NewTable()
	reg := newRegistry(registry.WithHost(table))

	err := reg.InitializeProvider("x")
	require.ErrorIs(t, err, registry.ErrUnknownProvider)
	assert.Zero(t, table.Len())
}

func TestLazyInstantiation(t *testing.T) {
	reg := newRegistry()

	constructed := 0
	require.NoError(t, reg.Register("counted", func() llm.Provider {
		constructed++
		return &fakeProvider{kind: "counted"}
	}))

	assert.Zero(t, constructed, "Register must not construct an instance")

	reg.Get("counted")
	reg.Get("counted")
	assert.Equal(t, 1, constructed, "Get must construct at most one instance")
}
