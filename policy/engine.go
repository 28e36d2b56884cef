package policy

import (
	"log/slog"
	"sort"

	"github.com/c360/realmgate/errors"
)

// Decision is the outcome of a policy check, carried on logs and metrics
type Decision string

const (
	// DecisionAllow means the realm holds the capability grant
	DecisionAllow Decision = "allow"
	// DecisionDeny means the realm is known and the grant is absent
	DecisionDeny Decision = "deny"
	// DecisionFallback means the realm is unknown and fail-open let it pass
	DecisionFallback Decision = "fallback"
)

// Option is a functional option for configuring an Engine
type Option func(*Engine)

// WithLogger sets a custom logger for the engine
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithFailOpen permits callers from realms absent from the policy table.
// Known realms are still checked against their grants. Every decision
// taken through this path is logged at WARN. Off by default.
func WithFailOpen() Option {
	return func(e *Engine) {
		e.failOpen = true
	}
}

// Engine evaluates capability access for caller realms against a fixed
// grant table. Immutable after construction; safe for concurrent use.
type Engine struct {
	grants   map[string]map[string]struct{} // realm -> capability set
	failOpen bool
	logger   *slog.Logger
}

// NewEngine builds an engine from a realm-to-capabilities grant table.
// The table is deep-copied; later mutation of the input has no effect.
func NewEngine(grants map[string][]string, opts ...Option) *Engine {
	e := &Engine{
		grants: make(map[string]map[string]struct{}, len(grants)),
		logger: slog.Default().With("component", "policy"),
	}
	for realm, capabilities := range grants {
		set := make(map[string]struct{}, len(capabilities))
		for _, capability := range capabilities {
			set[capability] = struct{}{}
		}
		e.grants[realm] = set
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.failOpen {
		e.logger.Warn("policy engine running fail-open",
			"detail", "unknown realms will be granted access",
			"known_realms", len(e.grants))
	}

	return e
}

// Decide returns the engine's decision for a realm requesting a
// capability. Pure function of the grant table and the fail-open flag,
// plus a WARN log on the fallback path.
func (e *Engine) Decide(realm, capability string) Decision {
	set, known := e.grants[realm]
	if !known {
		if e.failOpen {
			e.logger.Warn("fail-open policy decision",
				"realm", realm,
				"capability", capability,
				"decision", DecisionFallback)
			return DecisionFallback
		}
		return DecisionDeny
	}
	if _, granted := set[capability]; granted {
		return DecisionAllow
	}
	return DecisionDeny
}

// Allows reports whether the realm may access the capability
func (e *Engine) Allows(realm, capability string) bool {
	return e.Decide(realm, capability) != DecisionDeny
}

// Authorize checks access and returns ErrAccessDenied naming the realm
// and capability when the decision is deny.
func (e *Engine) Authorize(realm, capability string) error {
	decision := e.Decide(realm, capability)
	if decision == DecisionDeny {
		return errors.AccessDenied(realm, capability)
	}
	e.logger.Debug("capability access granted",
		"realm", realm,
		"capability", capability,
		"decision", string(decision))
	return nil
}

// Realms returns the sorted list of realms named in the grant table
func (e *Engine) Realms() []string {
	realms := make([]string, 0, len(e.grants))
	for realm := range e.grants {
		realms = append(realms, realm)
	}
	sort.Strings(realms)
	return realms
}

// Grants returns the sorted capability grants for a realm. The known flag
// distinguishes a realm with no grants from an unlisted realm.
func (e *Engine) Grants(realm string) (capabilities []string, known bool) {
	set, known := e.grants[realm]
	if !known {
		return nil, false
	}
	capabilities = make([]string, 0, len(set))
	for capability := range set {
		capabilities = append(capabilities, capability)
	}
	sort.Strings(capabilities)
	return capabilities, true
}

// FailOpen reports whether the engine grants access to unknown realms
func (e *Engine) FailOpen() bool {
	return e.failOpen
}
