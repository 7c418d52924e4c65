package domain

import "time"

// Venue is a workspace-scoped resource supporting participant check-in.
// Participants may only be added while the venue is active.
type Venue struct {
	ID          string
	WorkspaceID string
	Name        string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Check-in lifecycle states for a venue participant.
const (
	CheckInJoined    = "joined"
	CheckInChecking  = "checking"
	CheckInCompleted = "completed"
	CheckInFailed    = "failed"
)

// VenueUser is a participant membership in a venue. Duplicate rows per
// (venue, user) are allowed; each add is a fresh participation.
type VenueUser struct {
	ID        string
	VenueID   string
	UserID    string
	Status    string
	Comments  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidCheckInStatus reports whether s names a check-in lifecycle state.
func ValidCheckInStatus(s string) bool {
	switch s {
	case CheckInJoined, CheckInChecking, CheckInCompleted, CheckInFailed:
		return true
	}
	return false
}
