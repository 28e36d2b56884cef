// Package health provides health tracking for RealmGate registrations
// with thread-safe status aggregation.
//
// # Health States
//
// The package supports three health states:
//   - Healthy: registration running normally
//   - Degraded: registration in a transitional or not-yet-started state
//   - Unhealthy: registration stopped or failed
//
// Lifecycle states map onto health through FromState, so a coordinator
// snapshot translates directly into a health report.
//
// # Core Components
//
// Status is the health state of one registration: level, message, and
// timestamp, with optional sub-statuses for composite reports. Monitor is
// a thread-safe tracker for many registrations with aggregation into a
// single platform-level status.
package health
