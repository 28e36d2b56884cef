package registry

// State represents the current lifecycle state of a registration
type State int

const (
	// StateRegistered indicates the registration exists but has not been started
	StateRegistered State = iota
	// StateStarting indicates the start hook is executing
	StateStarting
	// StateRunning indicates the registration is up and serving
	StateRunning
	// StateStopping indicates the stop hook is executing
	StateStopping
	// StateStopped indicates the registration was stopped cleanly
	StateStopped
	// StateFailed indicates a start or stop hook returned an error
	StateFailed
)

// String returns a string representation of the lifecycle state
func (s State) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state can only be left via re-registration.
// A failed registration is never auto-retried.
func (s State) Terminal() bool {
	return s == StateStopped || s == StateFailed
}

// CanTransitionTo reports whether next is a legal successor of s.
// The machine is strictly forward:
//
//	Registered → Starting → Running → Stopping → Stopped
//
// with Failed reachable from Starting and Stopping. Terminal states have
// no successors; only Register resets a record to StateRegistered.
func (s State) CanTransitionTo(next State) bool {
	switch s {
	case StateRegistered:
		return next == StateStarting
	case StateStarting:
		return next == StateRunning || next == StateFailed
	case StateRunning:
		return next == StateStopping
	case StateStopping:
		return next == StateStopped || next == StateFailed
	default:
		return false
	}
}
