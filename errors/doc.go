// Package errors provides standardized error handling patterns for RealmGate
// components. It includes error classification, standard error variables for
// the registry/gateway taxonomy, and helper functions for consistent error
// wrapping across the system.
//
// # Error Classification
//
// Errors are classified into three categories that drive caller behavior:
//
//   - Transient: temporary conditions that may succeed on retry
//   - Invalid: bad input or configuration; retrying will not help
//   - Fatal: unrecoverable conditions that should stop processing
//
// # Wrapping Convention
//
// All wrapped errors follow the pattern "component.method: action failed: %w"
// so that log lines and aggregate errors always carry enough context to
// identify the registration, caller group, or capability involved:
//
//	return errors.WrapInvalid(err, "Registry", "Register", "name validation")
//
// Authorization and resolution failures use dedicated sentinels
// (ErrAccessDenied, ErrCapabilityNotFound) so that callers can distinguish
// "you are not allowed" from "it does not exist" with errors.Is.
package errors
