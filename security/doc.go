// Package security provides the caller identity model for capability
// access decisions.
//
// A Context is an immutable value describing who is asking: subject,
// tenant, session, and the roles and permissions attached to the subject.
// Construction and validation are deliberately separate operations. The
// Provider always succeeds at building a Context from whatever identity
// fields it is given; Validate is the explicit judgment call, so callers
// can build a context early and defer the decision to the enforcement
// point.
//
// The package holds no credential material and performs no
// authentication. Verifying that a subject is who they claim to be
// happens upstream; this package only carries the resulting identity.
package security
