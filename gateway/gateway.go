package gateway

import (
	"log/slog"
	"time"

	"github.com/c360/realmgate/errors"
	"github.com/c360/realmgate/metric"
	"github.com/c360/realmgate/policy"
	"github.com/c360/realmgate/registry"
	"github.com/c360/realmgate/security"
)

// Option is a functional option for configuring a Gateway
type Option func(*Gateway)

// WithLogger sets a custom logger for the gateway
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics sets the metrics registry used to record access decisions
// and resolution latency
func WithMetrics(metrics *metric.MetricsRegistry) Option {
	return func(g *Gateway) {
		g.metrics = metrics
	}
}

// WithPolicy sets the policy engine. Without one the gateway allows
// every request and says so loudly at construction.
func WithPolicy(engine *policy.Engine) Option {
	return func(g *Gateway) {
		g.engine = engine
	}
}

// WithProvider sets the security context provider used by ResolveAs
func WithProvider(provider *security.Provider) Option {
	return func(g *Gateway) {
		g.provider = provider
	}
}

// Gateway resolves capability requests from caller realms to registered
// providers, enforcing policy before resolution
type Gateway struct {
	registry *registry.Registry
	engine   *policy.Engine
	provider *security.Provider
	logger   *slog.Logger
	metrics  *metric.MetricsRegistry
}

// New creates a gateway over the given registry
func New(reg *registry.Registry, opts ...Option) *Gateway {
	g := &Gateway{
		registry: reg,
		logger:   slog.Default().With("component", "gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.provider == nil {
		g.provider = security.NewProvider()
	}
	if g.engine == nil {
		g.logger.Warn("gateway running without a policy engine",
			"detail", "all capability requests will be allowed")
	}
	return g
}

// Resolve checks policy and then resolves the capability to a provider.
// Policy runs first: a denied realm gets ErrAccessDenied without the
// registry being consulted. Past policy, an unadvertised capability is
// ErrCapabilityNotFound, and when several providers advertise the tag the
// earliest registration wins.
func (g *Gateway) Resolve(realm, capability string) (registry.Registration, error) {
	start := time.Now()

	if err := g.authorize(realm, capability); err != nil {
		g.recordDecision(realm, capability, "deny")
		return registry.Registration{}, err
	}

	providers := g.registry.LookupByCapability(capability)
	if len(providers) == 0 {
		g.recordDecision(realm, capability, "not_found")
		g.logger.Debug("capability not registered",
			"realm", realm, "capability", capability)
		return registry.Registration{}, errors.CapabilityNotFound(capability)
	}

	chosen := providers[0]
	if len(providers) > 1 {
		shadowed := make([]string, 0, len(providers)-1)
		for _, p := range providers[1:] {
			shadowed = append(shadowed, p.Name)
		}
		g.logger.Debug("capability advertised by multiple providers",
			"capability", capability,
			"chosen", chosen.Name,
			"shadowed", shadowed)
	}

	g.recordDecision(realm, capability, "allow")
	if g.metrics != nil {
		g.metrics.CoreMetrics().RecordResolveDuration(realm, time.Since(start))
	}

	g.logger.Debug("capability resolved",
		"realm", realm,
		"capability", capability,
		"provider", chosen.Name,
		"endpoint", chosen.Endpoint.Locator())
	return chosen, nil
}

// ResolveAs is Resolve on behalf of an authenticated caller. The security
// context must validate before anything else happens; an anonymous
// context is ErrInvalidContext regardless of policy.
func (g *Gateway) ResolveAs(ctx security.Context, realm, capability string) (registry.Registration, error) {
	if err := g.provider.Validate(ctx); err != nil {
		g.recordDecision(realm, capability, "invalid_context")
		return registry.Registration{}, err
	}

	reg, err := g.Resolve(realm, capability)
	if err != nil {
		return registry.Registration{}, err
	}

	g.logger.Debug("capability resolved for subject",
		"subject_id", ctx.SubjectID,
		"session_id", ctx.SessionID,
		"realm", realm,
		"capability", capability,
		"provider", reg.Name)
	return reg, nil
}

// ValidateAccess reports whether the realm may access the capability.
// Pure policy check; the registry is not consulted and nothing is
// resolved.
func (g *Gateway) ValidateAccess(realm, capability string) bool {
	if g.engine == nil {
		return true
	}
	return g.engine.Allows(realm, capability)
}

// authorize applies the policy engine, treating a missing engine as
// allow-all
func (g *Gateway) authorize(realm, capability string) error {
	if g.engine == nil {
		return nil
	}
	return g.engine.Authorize(realm, capability)
}

// recordDecision mirrors an access decision into metrics, if configured
func (g *Gateway) recordDecision(realm, capability, decision string) {
	if g.metrics != nil {
		g.metrics.CoreMetrics().RecordAccessDecision(realm, capability, decision)
	}
}
