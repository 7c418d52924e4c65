package store

import (
	"context"
	"errors"

	"github.com/checkinhq/checkin/internal/checkin/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. Sub-repositories keep concerns tidy and
// make it obvious which tables an operation touches.
type Store interface {
	Users() Users
	Workspaces() Workspaces
	Memberships() Memberships
	Invitations() Invitations
	Venues() Venues
	VenueUsers() VenueUsers

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Use it for
	// multi-step writes that must land together (user + membership,
	// expired-invitation replacement).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store. Nested transactions are not supported.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is the unique-email lookup used by membership
	// reconciliation.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUserName mutates the display name and bumps updated_at.
	UpdateUserName(ctx context.Context, userID, name string) error
}

type Workspaces interface {
	// GetWorkspaceByID returns a workspace by id.
	GetWorkspaceByID(ctx context.Context, id string) (domain.Workspace, error)

	// CreateWorkspace inserts a new workspace.
	CreateWorkspace(ctx context.Context, w domain.Workspace) error

	// ListWorkspacesForUser returns the workspaces a user belongs to,
	// newest first.
	ListWorkspacesForUser(ctx context.Context, userID string) ([]domain.Workspace, error)
}

type Memberships interface {
	// GetMembership is the composite-key lookup (userID + workspaceID).
	GetMembership(ctx context.Context, userID, workspaceID string) (domain.Membership, error)

	// CreateMembership inserts a membership row. Returns ErrAlreadyExists
	// when the (user, workspace) unique constraint is violated.
	CreateMembership(ctx context.Context, m domain.Membership) error

	// ListMembers returns all memberships of a workspace.
	ListMembers(ctx context.Context, workspaceID string) ([]domain.Membership, error)

	// CountMembers returns the number of members in a workspace.
	CountMembers(ctx context.Context, workspaceID string) (int, error)
}

type Invitations interface {
	// GetInvitation looks up the invitation for a (workspace, email) pair.
	GetInvitation(ctx context.Context, workspaceID, email string) (domain.Invitation, error)

	// GetInvitationByToken looks up an invitation by its opaque token,
	// used by the acceptance flow.
	GetInvitationByToken(ctx context.Context, token string) (domain.Invitation, error)

	// CreateInvitation inserts a new invitation row.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// DeleteInvitation removes an invitation by id (consumed or replaced).
	DeleteInvitation(ctx context.Context, id string) error

	// DeleteExpiredInvitations is housekeeping.
	DeleteExpiredInvitations(ctx context.Context) error

	// CountPendingInvitations returns the number of unexpired invitations
	// for a workspace.
	CountPendingInvitations(ctx context.Context, workspaceID string) (int, error)
}

type Venues interface {
	// GetVenueByID returns a venue by id regardless of its active flag;
	// callers decide how to treat inactive venues.
	GetVenueByID(ctx context.Context, id string) (domain.Venue, error)

	// CreateVenue inserts a new venue.
	CreateVenue(ctx context.Context, v domain.Venue) error

	// SetVenueActive flips the active flag.
	SetVenueActive(ctx context.Context, id string, active bool) error

	// CountVenues returns the number of venues in a workspace.
	CountVenues(ctx context.Context, workspaceID string) (int, error)
}

type VenueUsers interface {
	// CreateVenueUser inserts a participant row. No duplicate check: every
	// insert is a fresh participation.
	CreateVenueUser(ctx context.Context, vu domain.VenueUser) error

	// GetVenueUserByID returns a participant row by id.
	GetVenueUserByID(ctx context.Context, id string) (domain.VenueUser, error)

	// UpdateVenueUserStatus moves a participant through the check-in
	// lifecycle and bumps updated_at.
	UpdateVenueUserStatus(ctx context.Context, id, status string) error

	// ListVenueUsers returns all participants of a venue.
	ListVenueUsers(ctx context.Context, venueID string) ([]domain.VenueUser, error)
}
