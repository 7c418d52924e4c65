package domain

import "time"

// Invitation is a pending, token-bearing offer for an email address to join
// a workspace with a given role. An invitation is reusable while unexpired:
// re-inviting the same (workspace, email) pair returns the existing token.
type Invitation struct {
	ID          string
	WorkspaceID string
	Email       string
	Role        string
	Token       string
	InvitedBy   string // sender user id, empty for system-issued invites
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the invitation is past its expiry at the given
// instant.
func (i Invitation) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}
