package sqlite

import (
	"context"
	"time"

	"github.com/checkinhq/checkin/internal/checkin/domain"
)

type venueUsersRepo struct {
	db dbtx
}

const venueUserColumns = `id, venue_id, user_id, status, comments, created_at, updated_at`

func (r *venueUsersRepo) CreateVenueUser(ctx context.Context, vu domain.VenueUser) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO venue_users (id, venue_id, user_id, status, comments, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		vu.ID, vu.VenueID, vu.UserID, vu.Status, vu.Comments, now, now,
	)
	return mapConstraint(err)
}

func (r *venueUsersRepo) GetVenueUserByID(ctx context.Context, id string) (domain.VenueUser, error) {
	var vu domain.VenueUser
	err := r.db.QueryRowContext(ctx,
		`SELECT `+venueUserColumns+` FROM venue_users WHERE id = ?`, id,
	).Scan(&vu.ID, &vu.VenueID, &vu.UserID, &vu.Status, &vu.Comments, &vu.CreatedAt, &vu.UpdatedAt)
	if err != nil {
		return domain.VenueUser{}, mapNotFound(err)
	}
	return vu, nil
}

func (r *venueUsersRepo) UpdateVenueUserStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE venue_users SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	return err
}

func (r *venueUsersRepo) ListVenueUsers(ctx context.Context, venueID string) ([]domain.VenueUser, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+venueUserColumns+` FROM venue_users WHERE venue_id = ? ORDER BY created_at`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.VenueUser
	for rows.Next() {
		var vu domain.VenueUser
		if err := rows.Scan(&vu.ID, &vu.VenueID, &vu.UserID, &vu.Status, &vu.Comments, &vu.CreatedAt, &vu.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, vu)
	}
	return out, rows.Err()
}
