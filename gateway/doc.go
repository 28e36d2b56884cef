// Package gateway is the capability access surface: the one place where
// a caller realm's request for a capability is checked against policy and
// resolved to a registered provider.
//
// The order of operations is fixed. Policy is consulted before the
// registry, so a denied caller learns nothing about whether the
// capability exists; denial and absence are distinct errors
// (ErrAccessDenied vs ErrCapabilityNotFound) only for callers that passed
// the policy check.
//
// When several registrations advertise the same capability the earliest
// registration wins. The shadowed providers are logged at DEBUG so the
// ambiguity is visible without breaking resolution.
//
// A gateway built without a policy engine allows everything. That mode
// exists for bootstrap and tests, and it announces itself at WARN on
// construction.
package gateway
