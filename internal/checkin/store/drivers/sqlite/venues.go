package sqlite

import (
	"context"
	"time"

	"github.com/checkinhq/checkin/internal/checkin/domain"
)

type venuesRepo struct {
	db dbtx
}

func (r *venuesRepo) GetVenueByID(ctx context.Context, id string) (domain.Venue, error) {
	var v domain.Venue
	err := r.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, name, active, created_at, updated_at FROM venues WHERE id = ?`, id,
	).Scan(&v.ID, &v.WorkspaceID, &v.Name, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return domain.Venue{}, mapNotFound(err)
	}
	return v, nil
}

func (r *venuesRepo) CreateVenue(ctx context.Context, v domain.Venue) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO venues (id, workspace_id, name, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.WorkspaceID, v.Name, v.Active, now, now,
	)
	return mapConstraint(err)
}

func (r *venuesRepo) SetVenueActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE venues SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id,
	)
	return err
}

func (r *venuesRepo) CountVenues(ctx context.Context, workspaceID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM venues WHERE workspace_id = ?`, workspaceID,
	).Scan(&n)
	return n, err
}
