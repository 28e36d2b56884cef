package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/c360/realmgate/errors"
	"github.com/c360/realmgate/metric"
)

// Registration is the record describing one capability provider or
// long-lived service known to the registry.
type Registration struct {
	Name         string    `json:"name"`
	Kind         string    `json:"kind"`
	Endpoint     Endpoint  `json:"-"`
	Capabilities []string  `json:"capabilities"`
	Dependencies []string  `json:"dependencies"`
	State        State     `json:"state"`
	RegisteredAt time.Time `json:"registered_at"`
}

// clone returns a defensive copy so callers cannot mutate registry-owned state
func (r *Registration) clone() Registration {
	out := *r
	out.Capabilities = slices.Clone(r.Capabilities)
	out.Dependencies = slices.Clone(r.Dependencies)
	return out
}

// Config provides a clean API for service registration. It maps 1:1 to
// Registration fields; lifecycle state and timestamps are registry-owned.
type Config struct {
	Name         string   // Unique registration name (e.g., "file-store")
	Kind         string   // Category: "manager", "capability-provider", ...
	Endpoint     Endpoint // Opaque locator (in-process handle or remote address)
	Capabilities []string // Capability tags this registration advertises
	Dependencies []string // Names that must be running before this one starts
}

// Option is a functional option for configuring a Registry
type Option func(*Registry)

// WithLogger sets a custom logger for the registry
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the metrics registry used to record registration and
// lifecycle activity
func WithMetrics(metrics *metric.MetricsRegistry) Option {
	return func(r *Registry) {
		r.metrics = metrics
	}
}

// Registry manages service registrations and their lifecycle metadata.
// It provides thread-safe registration and lookup by name, kind, and
// capability tag.
type Registry struct {
	entries map[string]*Registration // Registrations by name
	order   []string                 // Insertion order for deterministic lookups
	logger  *slog.Logger
	metrics *metric.MetricsRegistry
	mu      sync.RWMutex // Protects entries and order
}

// New creates a new empty service registry
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*Registration),
		logger:  slog.Default().With("component", "registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces a registration. An empty name is
// ErrInvalidRegistration. Replacing an existing name overwrites the record
// wholesale (last-write-wins) and resets its lifecycle state to
// StateRegistered; the original insertion slot is kept so registration
// order stays stable across hot swaps. The entry is visible to lookups as
// soon as Register returns.
func (r *Registry) Register(cfg Config) error {
	if cfg.Name == "" {
		return errors.WrapInvalid(errors.ErrInvalidRegistration,
			"Registry", "Register", "name validation")
	}
	if cfg.Endpoint == nil {
		return errors.WrapInvalid(errors.ErrInvalidRegistration,
			"Registry", "Register", "endpoint validation")
	}

	reg := &Registration{
		Name:         cfg.Name,
		Kind:         cfg.Kind,
		Endpoint:     cfg.Endpoint,
		Capabilities: dedupe(cfg.Capabilities),
		Dependencies: slices.Clone(cfg.Dependencies),
		State:        StateRegistered,
		RegisteredAt: time.Now(),
	}

	r.mu.Lock()
	_, replaced := r.entries[cfg.Name]
	r.entries[cfg.Name] = reg
	if !replaced {
		r.order = append(r.order, cfg.Name)
	}
	total := len(r.entries)
	r.mu.Unlock()

	if replaced {
		r.logger.Info("registration replaced",
			"name", cfg.Name,
			"kind", cfg.Kind,
			"endpoint", cfg.Endpoint.Locator())
	} else {
		r.logger.Debug("registration added",
			"name", cfg.Name,
			"kind", cfg.Kind,
			"capabilities", reg.Capabilities)
	}

	if r.metrics != nil {
		core := r.metrics.CoreMetrics()
		core.RecordRegistration(cfg.Kind, total)
		core.RecordLifecycleState(cfg.Name, int(StateRegistered))
	}

	return nil
}

// Unregister removes a registration from the registry. Removing an
// unknown name is a no-op.
func (r *Registry) Unregister(name string) {
	if name == "" {
		return
	}

	r.mu.Lock()
	if _, exists := r.entries[name]; exists {
		delete(r.entries, name)
		for i, n := range r.order {
			if n == name {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	total := len(r.entries)
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.CoreMetrics().RecordRegistrySize(total)
	}
}

// Lookup retrieves a registration by name. The found flag is explicit:
// absence never masquerades as a zero value that looks valid.
func (r *Registry) Lookup(name string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, exists := r.entries[name]
	if !exists {
		return Registration{}, false
	}
	return reg.clone(), true
}

// LookupByKind returns all registrations of the given kind in
// registration (insertion) order.
func (r *Registry) LookupByKind(kind string) []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Registration
	for _, name := range r.order {
		if reg := r.entries[name]; reg.Kind == kind {
			result = append(result, reg.clone())
		}
	}
	return result
}

// LookupByCapability returns all registrations advertising the given
// capability tag, in registration order. The deterministic order is what
// the gateway's first-registered-wins resolution relies on.
func (r *Registry) LookupByCapability(tag string) []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Registration
	for _, name := range r.order {
		if reg := r.entries[name]; slices.Contains(reg.Capabilities, tag) {
			result = append(result, reg.clone())
		}
	}
	return result
}

// Names returns all registration names in insertion order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// Len returns the number of registrations
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// StateOf returns the lifecycle state of a named registration
func (r *Registry) StateOf(name string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, exists := r.entries[name]
	if !exists {
		return StateRegistered, false
	}
	return reg.State, true
}

// Snapshot returns the lifecycle state of every registration. Pure read.
func (r *Registry) Snapshot() map[string]State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]State, len(r.entries))
	for name, reg := range r.entries {
		result[name] = reg.State
	}
	return result
}

// Transition moves a registration to the next lifecycle state, enforcing
// the forward-only state machine. An unknown name is ErrNotRegistered; an
// illegal transition is ErrStaleTransition naming both states. Transition
// is the only mutation path for lifecycle state besides Register itself.
func (r *Registry) Transition(name string, next State) error {
	r.mu.Lock()
	reg, exists := r.entries[name]
	if !exists {
		r.mu.Unlock()
		return errors.WrapInvalid(
			fmt.Errorf("registration %q: %w", name, errors.ErrNotRegistered),
			"Registry", "Transition", "name lookup")
	}

	current := reg.State
	if !current.CanTransitionTo(next) {
		r.mu.Unlock()
		return errors.WrapInvalid(
			fmt.Errorf("registration %q cannot move %s to %s: %w",
				name, current, next, errors.ErrStaleTransition),
			"Registry", "Transition", "state machine check")
	}

	reg.State = next
	r.mu.Unlock()

	r.logger.Debug("lifecycle transition",
		"name", name,
		"from", current.String(),
		"to", next.String())

	if r.metrics != nil {
		core := r.metrics.CoreMetrics()
		core.RecordLifecycleState(name, int(next))
		core.RecordTransition(name, next.String())
	}

	return nil
}

// dedupe removes duplicate capability tags while preserving first-seen order
func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup || tag == "" {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
