package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/realmgate/errors"
	"github.com/c360/realmgate/metric"
)

type fakeStore struct{}

func TestRegisterAndLookup(t *testing.T) {
	r := New()

	err := r.Register(Config{
		Name:         "file-store",
		Kind:         "capability-provider",
		Endpoint:     LocalEndpoint{Handle: &fakeStore{}},
		Capabilities: []string{"file.read", "file.write"},
	})
	require.NoError(t, err)

	reg, found := r.Lookup("file-store")
	require.True(t, found)
	assert.Equal(t, "file-store", reg.Name)
	assert.Equal(t, "capability-provider", reg.Kind)
	assert.Equal(t, []string{"file.read", "file.write"}, reg.Capabilities)
	assert.Equal(t, StateRegistered, reg.State)
	assert.False(t, reg.RegisteredAt.IsZero())

	_, found = r.Lookup("missing")
	assert.False(t, found)
}

func TestRegisterValidation(t *testing.T) {
	r := New()

	err := r.Register(Config{Endpoint: LocalEndpoint{Handle: &fakeStore{}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidRegistration)
	assert.True(t, errors.IsInvalid(err))

	err = r.Register(Config{Name: "no-endpoint"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidRegistration)

	assert.Equal(t, 0, r.Len())
}

func TestRegisterReplaceIsWholesale(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Config{
		Name:         "file-store",
		Kind:         "capability-provider",
		Endpoint:     LocalEndpoint{Handle: &fakeStore{}},
		Capabilities: []string{"file.read", "file.write"},
	}))
	require.NoError(t, r.Transition("file-store", StateStarting))
	require.NoError(t, r.Transition("file-store", StateRunning))

	// Replacement overwrites everything, including lifecycle state. No merge.
	require.NoError(t, r.Register(Config{
		Name:         "file-store",
		Kind:         "capability-provider",
		Endpoint:     RemoteEndpoint{Address: "store.internal:9000"},
		Capabilities: []string{"file.read"},
	}))

	reg, found := r.Lookup("file-store")
	require.True(t, found)
	assert.Equal(t, []string{"file.read"}, reg.Capabilities)
	assert.Equal(t, StateRegistered, reg.State)
	assert.Equal(t, KindRemote, reg.Endpoint.Kind())
	assert.Equal(t, 1, r.Len())
}

func TestReplaceKeepsInsertionSlot(t *testing.T) {
	r := New()

	for _, name := range []string{"alpha", "beta", "gamma"} {
		require.NoError(t, r.Register(Config{
			Name:     name,
			Endpoint: LocalEndpoint{Handle: &fakeStore{}},
		}))
	}

	require.NoError(t, r.Register(Config{
		Name:     "beta",
		Endpoint: LocalEndpoint{Handle: &fakeStore{}},
	}))

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, r.Names())
}

func TestRegisterDedupesCapabilities(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Config{
		Name:         "file-store",
		Endpoint:     LocalEndpoint{Handle: &fakeStore{}},
		Capabilities: []string{"file.read", "file.read", "", "file.write"},
	}))

	reg, _ := r.Lookup("file-store")
	assert.Equal(t, []string{"file.read", "file.write"}, reg.Capabilities)
}

func TestLookupByKind(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Config{
		Name: "file-store", Kind: "capability-provider",
		Endpoint: LocalEndpoint{Handle: &fakeStore{}},
	}))
	require.NoError(t, r.Register(Config{
		Name: "session-manager", Kind: "manager",
		Endpoint: LocalEndpoint{Handle: &fakeStore{}},
	}))
	require.NoError(t, r.Register(Config{
		Name: "blob-store", Kind: "capability-provider",
		Endpoint: LocalEndpoint{Handle: &fakeStore{}},
	}))

	providers := r.LookupByKind("capability-provider")
	require.Len(t, providers, 2)
	assert.Equal(t, "file-store", providers[0].Name)
	assert.Equal(t, "blob-store", providers[1].Name)

	assert.Empty(t, r.LookupByKind("unknown-kind"))
}

func TestLookupByCapabilityOrder(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Config{
		Name:         "primary-store",
		Endpoint:     LocalEndpoint{Handle: &fakeStore{}},
		Capabilities: []string{"file.read"},
	}))
	require.NoError(t, r.Register(Config{
		Name:         "mirror-store",
		Endpoint:     LocalEndpoint{Handle: &fakeStore{}},
		Capabilities: []string{"file.read", "file.write"},
	}))

	readers := r.LookupByCapability("file.read")
	require.Len(t, readers, 2)
	assert.Equal(t, "primary-store", readers[0].Name)
	assert.Equal(t, "mirror-store", readers[1].Name)

	writers := r.LookupByCapability("file.write")
	require.Len(t, writers, 1)
	assert.Equal(t, "mirror-store", writers[0].Name)

	assert.Empty(t, r.LookupByCapability("file.delete"))
}

func TestLookupReturnsDefensiveCopies(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Config{
		Name:         "file-store",
		Endpoint:     LocalEndpoint{Handle: &fakeStore{}},
		Capabilities: []string{"file.read"},
	}))

	reg, _ := r.Lookup("file-store")
	reg.Capabilities[0] = "mutated"
	reg.Name = "mutated"

	fresh, _ := r.Lookup("file-store")
	assert.Equal(t, "file-store", fresh.Name)
	assert.Equal(t, []string{"file.read"}, fresh.Capabilities)
}

func TestUnregister(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Config{
		Name: "file-store", Endpoint: LocalEndpoint{Handle: &fakeStore{}},
	}))
	require.Equal(t, 1, r.Len())

	r.Unregister("file-store")
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Names())

	// Unknown and empty names are no-ops.
	r.Unregister("file-store")
	r.Unregister("")
}

func TestTransition(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Config{
		Name: "file-store", Endpoint: LocalEndpoint{Handle: &fakeStore{}},
	}))

	require.NoError(t, r.Transition("file-store", StateStarting))
	require.NoError(t, r.Transition("file-store", StateRunning))
	require.NoError(t, r.Transition("file-store", StateStopping))
	require.NoError(t, r.Transition("file-store", StateStopped))

	state, found := r.StateOf("file-store")
	require.True(t, found)
	assert.Equal(t, StateStopped, state)
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Config{
		Name: "file-store", Endpoint: LocalEndpoint{Handle: &fakeStore{}},
	}))

	// Registered cannot jump straight to running.
	err := r.Transition("file-store", StateRunning)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStaleTransition)

	// Terminal states have no successors.
	require.NoError(t, r.Transition("file-store", StateStarting))
	require.NoError(t, r.Transition("file-store", StateFailed))
	err = r.Transition("file-store", StateStarting)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStaleTransition)

	// State unchanged after the rejected transition.
	state, _ := r.StateOf("file-store")
	assert.Equal(t, StateFailed, state)
}

func TestTransitionUnknownName(t *testing.T) {
	r := New()

	err := r.Transition("ghost", StateStarting)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotRegistered)
}

func TestSnapshot(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Config{
		Name: "alpha", Endpoint: LocalEndpoint{Handle: &fakeStore{}},
	}))
	require.NoError(t, r.Register(Config{
		Name: "beta", Endpoint: LocalEndpoint{Handle: &fakeStore{}},
	}))
	require.NoError(t, r.Transition("alpha", StateStarting))

	snap := r.Snapshot()
	assert.Equal(t, map[string]State{
		"alpha": StateStarting,
		"beta":  StateRegistered,
	}, snap)
}

func TestConcurrentRegisterAndLookup(t *testing.T) {
	r := New()

	require.NoError(t, r.Register(Config{
		Name:         "file-store",
		Endpoint:     LocalEndpoint{Handle: &fakeStore{}},
		Capabilities: []string{"file.read"},
	}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Register(Config{
				Name:         "file-store",
				Endpoint:     LocalEndpoint{Handle: &fakeStore{}},
				Capabilities: []string{"file.read"},
			})
		}()
		go func() {
			defer wg.Done()
			if reg, found := r.Lookup("file-store"); found {
				// Never observe a torn record.
				assert.Equal(t, "file-store", reg.Name)
				assert.Equal(t, []string{"file.read"}, reg.Capabilities)
			}
			_ = r.LookupByCapability("file.read")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, r.Len())
}

func TestRegistryWithMetrics(t *testing.T) {
	metrics := metric.NewMetricsRegistry()
	r := New(WithMetrics(metrics))

	require.NoError(t, r.Register(Config{
		Name: "file-store", Kind: "capability-provider",
		Endpoint: LocalEndpoint{Handle: &fakeStore{}},
	}))
	require.NoError(t, r.Transition("file-store", StateStarting))
	r.Unregister("file-store")
}
