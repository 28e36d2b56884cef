// Package policy implements the capability access policy: which caller
// realms may use which capability tags.
//
// The policy is a closed world. Every realm that should get access must
// be named in the policy table; capabilities are matched by exact tag.
// The one deliberate escape hatch is the fail-open mode for callers whose
// realm is absent from the table entirely. It exists for staged rollout
// of policy coverage and it is loud: the engine defaults to fail-closed,
// and every fail-open decision is logged at WARN so an unconfigured realm
// cannot slip through silently.
//
// Policies are plain values once loaded. The engine never mutates its
// table after construction, so a single Engine is safe for concurrent
// use without locking.
package policy
