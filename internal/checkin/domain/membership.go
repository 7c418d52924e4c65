package domain

import "time"

// Workspace roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Membership joins a user to a workspace with a role. At most one row may
// exist per (UserID, WorkspaceID) pair; the store enforces this with a
// unique constraint.
type Membership struct {
	ID          string
	UserID      string
	WorkspaceID string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidRole reports whether role is one of the known workspace roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}
