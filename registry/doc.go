// Package registry implements the process-wide service registry: an
// in-memory catalog of registered service endpoints with lifecycle
// metadata, supporting lookup by name, kind, and capability tag.
//
// # Ownership
//
// The Registry exclusively owns Registration records. Lookups return
// defensive copies; no other component mutates records directly. State
// changes go through Transition, which enforces the lifecycle state
// machine; a record never moves backward except through an explicit
// re-registration.
//
// # Replacement Semantics
//
// Re-registering an existing name replaces the prior record wholesale
// (last-write-wins, no merge) and resets its lifecycle state to
// StateRegistered. This matches the platform's established registration
// behavior and is relied on by callers that hot-swap capability
// providers.
//
// # Concurrency
//
// All writes serialize on a single mutex; reads take the read lock.
// A registration is visible to lookups the moment Register returns.
package registry
