package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/checkinhq/checkin/internal/checkin/domain"
)

type invitationsRepo struct {
	db dbtx
}

func (r *invitationsRepo) GetInvitation(ctx context.Context, workspaceID, email string) (domain.Invitation, error) {
	var (
		inv       domain.Invitation
		invitedBy sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, email, role, token, invited_by, created_at, expires_at
		 FROM member_invitations
		 WHERE workspace_id = ? AND email = ?
		 ORDER BY created_at DESC
		 LIMIT 1`,
		workspaceID, email,
	).Scan(&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Role, &inv.Token, &invitedBy, &inv.CreatedAt, &inv.ExpiresAt)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	inv.InvitedBy = mapNullString(invitedBy)
	return inv, nil
}

func (r *invitationsRepo) GetInvitationByToken(ctx context.Context, token string) (domain.Invitation, error) {
	var (
		inv       domain.Invitation
		invitedBy sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, email, role, token, invited_by, created_at, expires_at
		 FROM member_invitations
		 WHERE token = ?`,
		token,
	).Scan(&inv.ID, &inv.WorkspaceID, &inv.Email, &inv.Role, &inv.Token, &invitedBy, &inv.CreatedAt, &inv.ExpiresAt)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	inv.InvitedBy = mapNullString(invitedBy)
	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO member_invitations (id, workspace_id, email, role, token, invited_by, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.WorkspaceID, inv.Email, inv.Role, inv.Token,
		// expires_at is compared against UTC bounds in SQL, so it must be
		// stored in UTC regardless of the zone the caller supplied.
		mapStringNull(inv.InvitedBy), time.Now().UTC(), inv.ExpiresAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) DeleteInvitation(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM member_invitations WHERE id = ?`, id)
	return err
}

func (r *invitationsRepo) DeleteExpiredInvitations(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM member_invitations WHERE expires_at <= ?`, time.Now().UTC())
	return err
}

func (r *invitationsRepo) CountPendingInvitations(ctx context.Context, workspaceID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM member_invitations WHERE workspace_id = ? AND expires_at > ?`,
		workspaceID, time.Now().UTC(),
	).Scan(&n)
	return n, err
}
