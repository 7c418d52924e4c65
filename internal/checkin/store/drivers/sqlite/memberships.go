package sqlite

import (
	"context"
	"time"

	"github.com/checkinhq/checkin/internal/checkin/domain"
)

type membershipsRepo struct {
	db dbtx
}

const membershipColumns = `id, user_id, workspace_id, role, created_at, updated_at`

func (r *membershipsRepo) GetMembership(ctx context.Context, userID, workspaceID string) (domain.Membership, error) {
	var m domain.Membership
	err := r.db.QueryRowContext(ctx,
		`SELECT `+membershipColumns+` FROM workspace_members WHERE user_id = ? AND workspace_id = ?`,
		userID, workspaceID,
	).Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspace_members (id, user_id, workspace_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.WorkspaceID, m.Role, now, now,
	)
	return mapConstraint(err)
}

func (r *membershipsRepo) ListMembers(ctx context.Context, workspaceID string) ([]domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+membershipColumns+` FROM workspace_members WHERE workspace_id = ? ORDER BY created_at`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *membershipsRepo) CountMembers(ctx context.Context, workspaceID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspace_members WHERE workspace_id = ?`, workspaceID,
	).Scan(&n)
	return n, err
}
