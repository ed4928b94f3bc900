package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mybites/internal/domain"

	"github.com/google/uuid"
)

var _ domain.MealRepository = (*DB)(nil)

// AddMeal inserts a meal entry.
func (d *DB) AddMeal(ctx context.Context, userID, name, mealType string, createdAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO meals(id, user_id, name, meal_type, created_at) VALUES($1, $2, $3, $4, $5);",
		id, userID, name, mealType, createdAt.UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteMeal removes a meal, scoped to a user.
func (d *DB) DeleteMeal(ctx context.Context, userID, id string) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM meals WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// ListRecentMeals returns the newest meals up to limit.
func (d *DB) ListRecentMeals(ctx context.Context, userID string, limit int) ([]domain.MealEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, name, meal_type, created_at FROM meals WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2;",
		userID, limit)
	if err != nil {
		return nil, err
	}
	return scanMeals(rows, userID)
}

// MealsBetween returns meals created in [from, to), oldest first.
func (d *DB) MealsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.MealEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, name, meal_type, created_at FROM meals WHERE user_id=$1 AND created_at >= $2 AND created_at < $3 ORDER BY created_at;",
		userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	return scanMeals(rows, userID)
}

// AddFavorite inserts a favorite meal.
func (d *DB) AddFavorite(ctx context.Context, userID, name, mealType string, createdAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO favorite_meals(id, user_id, name, meal_type, created_at) VALUES($1, $2, $3, $4, $5);",
		id, userID, name, mealType, createdAt.UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetFavorite returns a single favorite.
func (d *DB) GetFavorite(ctx context.Context, userID, id string) (*domain.FavoriteMeal, error) {
	f := domain.FavoriteMeal{UserID: userID}
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, name, meal_type, created_at FROM favorite_meals WHERE id=$1 AND user_id=$2;",
		id, userID,
	).Scan(&f.ID, &f.Name, &f.Type, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFavorites returns every favorite, newest first.
func (d *DB) ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteMeal, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, name, meal_type, created_at FROM favorite_meals WHERE user_id=$1 ORDER BY created_at DESC;",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.FavoriteMeal, 0)
	for rows.Next() {
		f := domain.FavoriteMeal{UserID: userID}
		if err := rows.Scan(&f.ID, &f.Name, &f.Type, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteFavorite removes a favorite, scoped to a user.
func (d *DB) DeleteFavorite(ctx context.Context, userID, id string) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM favorite_meals WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func scanMeals(rows *sql.Rows, userID string) ([]domain.MealEntry, error) {
	defer rows.Close() //nolint:errcheck

	out := make([]domain.MealEntry, 0)
	for rows.Next() {
		m := domain.MealEntry{UserID: userID}
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
