package security

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/c360/realmgate/errors"
)

// Identity carries the caller-supplied fields used to build a Context.
// Nothing here is trusted; authentication happens upstream.
type Identity struct {
	SubjectID   string
	TenantID    string
	Roles       []string
	Permissions []string
}

// ProviderOption is a functional option for configuring a Provider
type ProviderOption func(*Provider)

// WithLogger sets a custom logger for the provider
func WithLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Provider builds and validates security contexts. It is stateless and
// safe for concurrent use.
type Provider struct {
	logger *slog.Logger
}

// NewProvider creates a security context provider
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		logger: slog.Default().With("component", "security"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewContext builds a Context from the given identity. Construction never
// fails: an empty subject produces an anonymous context that Validate will
// reject later. Each context gets a fresh session ID.
func (p *Provider) NewContext(id Identity) Context {
	return Context{
		SubjectID:   id.SubjectID,
		TenantID:    id.TenantID,
		SessionID:   uuid.NewString(),
		Roles:       slices.Clone(id.Roles),
		Permissions: slices.Clone(id.Permissions),
		IssuedAt:    time.Now(),
	}
}

// Validate checks whether a context is usable for access decisions. The
// only hard requirement is a non-empty subject; tenant, roles, and
// permissions are all optional. An anonymous context is ErrInvalidContext.
func (p *Provider) Validate(ctx Context) error {
	if ctx.Anonymous() {
		p.logger.Debug("context validation rejected anonymous caller",
			"session_id", ctx.SessionID)
		return errors.WrapInvalid(errors.ErrInvalidContext,
			"Provider", "Validate", "subject check")
	}
	return nil
}
