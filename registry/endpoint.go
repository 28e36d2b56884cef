package registry

import (
	"context"
	"fmt"
	"time"
)

// EndpointKind discriminates the closed set of endpoint handle kinds
type EndpointKind int

const (
	// KindLocal is an in-process handle (interface or function reference)
	KindLocal EndpointKind = iota
	// KindRemote is a network locator resolved by the caller's own client
	KindRemote
)

// String returns a string representation of the endpoint kind
func (k EndpointKind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Endpoint is the opaque locator a registration advertises. The registry
// never inspects handle contents; consumers type-switch on the concrete
// endpoint at the call site instead of passing untyped values around.
type Endpoint interface {
	// Kind returns the endpoint discriminator
	Kind() EndpointKind
	// Locator returns a human-readable locator for logs and errors
	Locator() string
}

// LocalEndpoint wraps an in-process handle. If the handle implements
// Runner it participates in coordinator-driven lifecycle; otherwise the
// registration is passive and transitions straight to running.
type LocalEndpoint struct {
	Handle any
}

// Kind returns KindLocal
func (e LocalEndpoint) Kind() EndpointKind { return KindLocal }

// Locator returns a descriptor built from the handle's dynamic type
func (e LocalEndpoint) Locator() string {
	if e.Handle == nil {
		return "local:<nil>"
	}
	return fmt.Sprintf("local:%T", e.Handle)
}

// RemoteEndpoint wraps a network address. The registry treats the address
// as opaque; dialing is the consumer's concern.
type RemoteEndpoint struct {
	Address string
}

// Kind returns KindRemote
func (e RemoteEndpoint) Kind() EndpointKind { return KindRemote }

// Locator returns the remote address
func (e RemoteEndpoint) Locator() string { return "remote:" + e.Address }

// Runner defines local endpoint handles that support lifecycle management
// following the unified pattern:
//   - Start(ctx context.Context) error     // Start with context passed through
//   - Stop(timeout time.Duration) error    // Stop with timeout for graceful shutdown
//
// The handle never stores the context; it receives it as a parameter, and
// the lifecycle coordinator owns cancellation.
type Runner interface {
	Start(ctx context.Context) error
	Stop(timeout time.Duration) error
}

// RunnerFor extracts the Runner from an endpoint, if it has one. Remote
// endpoints and passive local handles return (nil, false).
func RunnerFor(ep Endpoint) (Runner, bool) {
	local, ok := ep.(LocalEndpoint)
	if !ok {
		return nil, false
	}
	runner, ok := local.Handle.(Runner)
	return runner, ok
}
