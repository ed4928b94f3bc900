package postgres

import (
	"context"
	"database/sql"
	"errors"

	"mybites/internal/domain"
)

var _ domain.ProfileRepository = (*DB)(nil)

// GetProfile returns the stored profile for a user.
func (d *DB) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	p := domain.Profile{UserID: userID}
	err := d.sql.QueryRowContext(ctx,
		"SELECT name, hydration_target, timezone, onboarded, updated_at FROM profiles WHERE user_id=$1;",
		userID,
	).Scan(&p.Name, &p.HydrationTarget, &p.Timezone, &p.Onboarded, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile inserts or replaces the profile.
func (d *DB) UpsertProfile(ctx context.Context, p domain.Profile) error {
	_, err := d.sql.ExecContext(ctx, `
		INSERT INTO profiles(user_id, name, hydration_target, timezone, onboarded, updated_at)
		VALUES($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			hydration_target = EXCLUDED.hydration_target,
			timezone = EXCLUDED.timezone,
			onboarded = EXCLUDED.onboarded,
			updated_at = EXCLUDED.updated_at;`,
		p.UserID, p.Name, p.HydrationTarget, p.Timezone, p.Onboarded, p.UpdatedAt.UTC(),
	)
	return err
}
