package lifecycle

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/c360/realmgate/errors"
	"github.com/c360/realmgate/health"
	"github.com/c360/realmgate/registry"
)

// Phase is the coarse state of the coordinator itself
type Phase int

const (
	// PhaseIdle means StartAll has not run yet
	PhaseIdle Phase = iota
	// PhaseStarting means StartAll is in progress
	PhaseStarting
	// PhaseRunning means at least one StartAll completed
	PhaseRunning
	// PhaseStopping means StopAll is in progress
	PhaseStopping
	// PhaseStopped means StopAll completed
	PhaseStopped
)

// String returns a string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStarting:
		return "starting"
	case PhaseRunning:
		return "running"
	case PhaseStopping:
		return "stopping"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time view of coordinator and registration state.
// Pure read; taking one never mutates anything.
type Snapshot struct {
	TakenAt time.Time                 `json:"taken_at"`
	Phase   Phase                     `json:"-"`
	Uptime  time.Duration             `json:"uptime"`
	States  map[string]registry.State `json:"states"`
}

// Option is a functional option for configuring a Coordinator
type Option func(*Coordinator)

// WithLogger sets a custom logger for the coordinator
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMonitor attaches a health monitor that mirrors every lifecycle
// change the coordinator drives
func WithMonitor(monitor *health.Monitor) Option {
	return func(c *Coordinator) {
		c.monitor = monitor
	}
}

// Coordinator starts and stops registered services in dependency order
type Coordinator struct {
	registry *registry.Registry
	logger   *slog.Logger
	monitor  *health.Monitor

	mu        sync.Mutex
	phase     Phase
	started   []string // successful starts, in start order
	startedAt time.Time
}

// NewCoordinator creates a coordinator over the given registry
func NewCoordinator(reg *registry.Registry, opts ...Option) *Coordinator {
	c := &Coordinator{
		registry: reg,
		logger:   slog.Default().With("component", "lifecycle"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartAll starts every registration in StateRegistered, in dependency
// order. A registration starts only after all of its dependencies are
// running. When a start hook fails the registration moves to StateFailed,
// its transitive dependents are skipped, and the remaining independent
// registrations still start; all failures come back joined into one
// error. Calling StartAll again without an intervening StopAll is a
// no-op for everything already started, so the call is idempotent; it
// only touches registrations still in StateRegistered.
//
// Registrations the dependency graph cannot order (unknown dependency
// name, or membership in a cycle) are skipped with
// ErrDependencyUnresolved in the aggregate error; they are never started
// out of order, and the orderable remainder still starts.
func (c *Coordinator) StartAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	order, unresolved := c.startOrder()

	c.phase = PhaseStarting
	c.logger.Debug("beginning startup sequence",
		"count", len(order), "order", order, "unresolved", len(unresolved))

	failed := make(map[string]bool)
	var errs []error

	for name, err := range unresolved {
		failed[name] = true
		errs = append(errs, err)
		c.logger.Warn("skipping registration with unresolved dependencies",
			"name", name, "error", err)
	}

	for _, name := range order {
		if err := ctx.Err(); err != nil {
			errs = append(errs, errors.WrapTransient(err,
				"Coordinator", "StartAll", "context check"))
			break
		}

		reg, found := c.registry.Lookup(name)
		if !found || reg.State != registry.StateRegistered {
			continue // already started on a previous call, or unregistered mid-flight
		}

		if dep := c.failedDependency(reg, failed); dep != "" {
			failed[name] = true
			errs = append(errs, fmt.Errorf(
				"skipped %s: dependency %s did not start", name, dep))
			c.logger.Warn("skipping registration",
				"name", name, "failed_dependency", dep)
			continue
		}

		if err := c.startOne(ctx, name, reg); err != nil {
			failed[name] = true
			errs = append(errs, err)
			continue
		}
		c.started = append(c.started, name)
	}

	c.phase = PhaseRunning
	if c.startedAt.IsZero() {
		c.startedAt = time.Now()
	}

	if len(errs) > 0 {
		c.logger.Error("startup sequence completed with failures",
			"started", len(c.started), "failed", len(errs))
		return stderrors.Join(errs...)
	}
	c.logger.Info("all registrations started", "count", len(c.started))
	return nil
}

// startOne drives one registration through Starting into Running or Failed
func (c *Coordinator) startOne(ctx context.Context, name string, reg registry.Registration) error {
	if err := c.registry.Transition(name, registry.StateStarting); err != nil {
		return err
	}

	runner, ok := registry.RunnerFor(reg.Endpoint)
	if ok {
		startTime := time.Now()
		if err := runner.Start(ctx); err != nil {
			_ = c.registry.Transition(name, registry.StateFailed)
			c.updateHealth(name, registry.StateFailed)
			c.logger.Error("start hook failed",
				"name", name,
				"duration_ms", time.Since(startTime).Milliseconds(),
				"error", err)
			return errors.WrapFatal(
				fmt.Errorf("start %s: %w: %w", name, errors.ErrLifecycleTransition, err),
				"Coordinator", "StartAll", "start hook")
		}
		c.logger.Debug("registration started",
			"name", name,
			"duration_ms", time.Since(startTime).Milliseconds())
	}

	if err := c.registry.Transition(name, registry.StateRunning); err != nil {
		return err
	}
	c.updateHealth(name, registry.StateRunning)
	return nil
}

// StopAll stops everything StartAll brought up, in reverse start order.
// Each stop hook gets the same timeout. Failures mark the registration
// StateFailed but never block stopping the rest; they come back joined
// into one error. StopAll with nothing running is a no-op.
func (c *Coordinator) StopAll(timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.started) == 0 {
		c.phase = PhaseStopped
		return nil
	}

	c.phase = PhaseStopping
	logger := c.logger.With("operation", "shutdown")
	logger.Debug("beginning shutdown sequence",
		"count", len(c.started), "timeout", timeout)

	var errs []error
	for i := len(c.started) - 1; i >= 0; i-- {
		name := c.started[i]

		state, found := c.registry.StateOf(name)
		if !found || state != registry.StateRunning {
			continue
		}

		if err := c.stopOne(name, timeout, logger); err != nil {
			errs = append(errs, err)
		}
	}

	c.started = nil
	c.phase = PhaseStopped

	if len(errs) > 0 {
		return stderrors.Join(errs...)
	}
	logger.Info("shutdown sequence completed")
	return nil
}

// stopOne drives one registration through Stopping into Stopped or Failed
func (c *Coordinator) stopOne(name string, timeout time.Duration, logger *slog.Logger) error {
	if err := c.registry.Transition(name, registry.StateStopping); err != nil {
		return err
	}

	reg, found := c.registry.Lookup(name)
	if found {
		if runner, ok := registry.RunnerFor(reg.Endpoint); ok {
			stopTime := time.Now()
			if err := runner.Stop(timeout); err != nil {
				_ = c.registry.Transition(name, registry.StateFailed)
				c.updateHealth(name, registry.StateFailed)
				logger.Error("stop hook failed",
					"name", name,
					"duration_ms", time.Since(stopTime).Milliseconds(),
					"error", err)
				return errors.WrapTransient(
					fmt.Errorf("stop %s: %w: %w", name, errors.ErrLifecycleTransition, err),
					"Coordinator", "StopAll", "stop hook")
			}
			logger.Debug("registration stopped",
				"name", name,
				"duration_ms", time.Since(stopTime).Milliseconds())
		}
	}

	if err := c.registry.Transition(name, registry.StateStopped); err != nil {
		return err
	}
	c.updateHealth(name, registry.StateStopped)
	return nil
}

// Snapshot returns a point-in-time view of the coordinator and all
// registration states
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	phase := c.phase
	startedAt := c.startedAt
	c.mu.Unlock()

	var uptime time.Duration
	if !startedAt.IsZero() {
		uptime = time.Since(startedAt)
	}

	return Snapshot{
		TakenAt: time.Now(),
		Phase:   phase,
		Uptime:  uptime,
		States:  c.registry.Snapshot(),
	}
}

// Health aggregates the lifecycle state of every registration into one
// platform health status
func (c *Coordinator) Health() health.Status {
	states := c.registry.Snapshot()

	subStatuses := make([]health.Status, 0, len(states))
	for _, name := range c.registry.Names() {
		state, found := states[name]
		if !found {
			continue
		}
		subStatuses = append(subStatuses, health.FromState(name, state))
	}
	return health.Aggregate("platform", subStatuses)
}

// Started returns the names of successfully started registrations in
// start order
func (c *Coordinator) Started() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.started))
	copy(out, c.started)
	return out
}

// updateHealth mirrors a lifecycle change into the health monitor, if any
func (c *Coordinator) updateHealth(name string, state registry.State) {
	if c.monitor != nil {
		c.monitor.Update(name, health.FromState(name, state))
	}
}

// failedDependency returns the first dependency of reg that failed or was
// skipped, or "" when all dependencies are fine
func (c *Coordinator) failedDependency(reg registry.Registration, failed map[string]bool) string {
	for _, dep := range reg.Dependencies {
		if failed[dep] {
			return dep
		}
	}
	return ""
}

// startOrder computes a topological order over registration dependencies
// using Kahn's algorithm, preferring registration order among ready nodes
// so startup is deterministic. Registrations that cannot be ordered, by
// naming an unknown dependency or sitting in a cycle, come back in the
// unresolved map with an ErrDependencyUnresolved explaining why; they are
// excluded from the order rather than failing everything else.
func (c *Coordinator) startOrder() (order []string, unresolved map[string]error) {
	names := c.registry.Names()
	known := make(map[string]bool, len(names))
	for _, name := range names {
		known[name] = true
	}

	unresolved = make(map[string]error)

	// dependents[d] lists registrations that depend on d
	dependents := make(map[string][]string, len(names))
	indegree := make(map[string]int, len(names))

	for _, name := range names {
		reg, found := c.registry.Lookup(name)
		if !found {
			continue
		}
		indegree[name] = 0
		for _, dep := range reg.Dependencies {
			if !known[dep] {
				unresolved[name] = errors.WrapInvalid(
					fmt.Errorf("%s depends on unknown registration %q: %w",
						name, dep, errors.ErrDependencyUnresolved),
					"Coordinator", "StartAll", "dependency resolution")
				continue
			}
			dependents[dep] = append(dependents[dep], name)
			indegree[name]++
		}
		if _, bad := unresolved[name]; bad {
			delete(indegree, name)
		}
	}

	order = make([]string, 0, len(indegree))
	ready := make([]string, 0, len(indegree))
	for _, name := range names {
		if deg, ok := indegree[name]; ok && deg == 0 {
			ready = append(ready, name)
		}
	}

	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		for _, dependent := range dependents[name] {
			if _, ok := indegree[dependent]; !ok {
				continue
			}
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	// Whatever never became ready sits in a cycle, or depends on a
	// registration that does.
	if len(order) != len(indegree) {
		ordered := make(map[string]bool, len(order))
		for _, name := range order {
			ordered[name] = true
		}
		for _, name := range names {
			if _, ok := indegree[name]; ok && !ordered[name] {
				unresolved[name] = errors.WrapInvalid(
					fmt.Errorf("%s cannot be ordered (dependency cycle or unresolvable dependency): %w",
						name, errors.ErrDependencyUnresolved),
					"Coordinator", "StartAll", "dependency resolution")
			}
		}
	}

	return order, unresolved
}
