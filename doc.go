// Package realmgate provides the capability access-control core for the
// platform: a process-wide service registry with lifecycle tracking, a
// realm-scoped authorization policy engine, and a capability gateway that
// decides which caller groups ("realms") may obtain which infrastructure
// capabilities.
//
// # Architecture
//
// RealmGate is a library core, not a network service. Every other component
// in the process interacts with it through three surfaces:
//
//	┌─────────────────────────────────────┐
//	│        Capability Gateway           │  Resolve(realm, capability)
//	│   (policy check → registry lookup)  │  ValidateAccess
//	└─────────────────────────────────────┘
//	           ↓ composes
//	┌──────────────────┬──────────────────┐
//	│  Service Registry│  Policy Engine   │  Register / Lookup*
//	│  (lifecycle, caps)│ (realm → caps)  │  Allows / Authorize
//	└──────────────────┴──────────────────┘
//	           ↓ driven by
//	┌─────────────────────────────────────┐
//	│      Lifecycle Coordinator          │  StartAll / StopAll
//	│  (dependency order, partial failure)│  Snapshot / Health
//	└─────────────────────────────────────┘
//
// The registry is the only long-lived shared mutable state. Policy is
// loaded once at boot and read-only afterwards. Security contexts are
// constructed per call and immutable.
//
// # Layers
//
//   - registry: registration records, endpoint handles, lifecycle states
//   - lifecycle: dependency-ordered startup/shutdown with partial failure
//   - policy: closed-world realm → capability authorization
//   - gateway: the composed access decision and handle resolution
//   - security: per-call identity, tenant, roles and permissions
//   - health, metric, errors, config: platform infrastructure
//
// RealmGate MUST NOT contain:
//   - Concrete capability implementations (file stores, document stores,
//     LLM clients); those are opaque endpoint handles
//   - Business workflow logic
//   - Network transport or registry persistence
package realmgate
