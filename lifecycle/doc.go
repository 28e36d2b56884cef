// Package lifecycle coordinates startup and shutdown of registered
// services in dependency order.
//
// The Coordinator computes a topological order over registration
// dependencies and starts services so that every dependency is running
// before its dependents. Shutdown walks the successfully started set in
// reverse. A single failing service does not abort the whole sequence:
// its transitive dependents are skipped, everything else proceeds, and
// the failures come back as one aggregated error.
//
// The Coordinator drives state exclusively through registry.Transition,
// so the registry remains the single source of truth for lifecycle
// state. Health reporting reads the same states through Snapshot and
// Health.
package lifecycle
