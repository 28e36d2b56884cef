package security

import (
	"slices"
	"time"
)

// Context is an immutable identity snapshot for one caller. Fields are
// exported for read access; construction goes through Provider.NewContext
// so slices are always defensively cloned.
type Context struct {
	SubjectID   string    `json:"subject_id"`
	TenantID    string    `json:"tenant_id,omitempty"`
	SessionID   string    `json:"session_id"`
	Roles       []string  `json:"roles,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	IssuedAt    time.Time `json:"issued_at"`
}

// HasRole reports whether the context carries the named role
func (c Context) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasPermission reports whether the context carries the named permission
func (c Context) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// Anonymous reports whether the context has no subject. Anonymous
// contexts never pass validation.
func (c Context) Anonymous() bool {
	return c.SubjectID == ""
}
