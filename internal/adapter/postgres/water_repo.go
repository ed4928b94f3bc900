package postgres

import (
	"context"
	"time"

	"mybites/internal/domain"

	"github.com/google/uuid"
)

var _ domain.WaterRepository = (*DB)(nil)

// AddWaterEvent inserts a new water intake event.
func (d *DB) AddWaterEvent(ctx context.Context, userID string, amount float64, createdAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO water_events(id, user_id, amount, created_at) VALUES($1, $2, $3, $4);",
		id, userID, amount, createdAt.UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteWaterEvent removes a water event by ID, scoped to a user.
func (d *DB) DeleteWaterEvent(ctx context.Context, userID, id string) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM water_events WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// ListRecentWaterEvents returns the most recent water events up to limit for a user.
func (d *DB) ListRecentWaterEvents(ctx context.Context, userID string, limit int) ([]domain.WaterEvent, error) {
	return d.queryWater(ctx,
		"SELECT id, amount, created_at FROM water_events WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2;",
		userID, userID, limit)
}

// WaterEventsForUser returns the user's events created at or after since.
func (d *DB) WaterEventsForUser(ctx context.Context, userID string, since time.Time) ([]domain.WaterEvent, error) {
	return d.queryWater(ctx,
		"SELECT id, amount, created_at FROM water_events WHERE user_id=$1 AND created_at >= $2;",
		userID, userID, since.UTC())
}

// WaterTotalBetween returns the summed amount of a user's events in [from, to).
func (d *DB) WaterTotalBetween(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	var total float64
	err := d.sql.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM water_events WHERE user_id=$1 AND created_at >= $2 AND created_at < $3;",
		userID, from.UTC(), to.UTC(),
	).Scan(&total)
	return total, err
}

func (d *DB) queryWater(ctx context.Context, query, userID string, args ...any) ([]domain.WaterEvent, error) {
	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.WaterEvent, 0)
	for rows.Next() {
		var e domain.WaterEvent
		if err := rows.Scan(&e.ID, &e.Amount, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.UserID = userID
		out = append(out, e)
	}
	return out, rows.Err()
}
