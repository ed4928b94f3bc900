package memory

import (
	"context"
	"sort"
	"time"

	"mybites/internal/domain"

	"github.com/google/uuid"
)

// AddMeal adds a meal entry.
func (db *DB) AddMeal(ctx context.Context, userID, name, mealType string, createdAt time.Time) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := uuid.NewString()
	db.meals = append(db.meals, domain.MealEntry{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Type:      mealType,
		CreatedAt: createdAt.UTC(),
	})
	return id, nil
}

// DeleteMeal deletes a meal entry by ID.
func (db *DB) DeleteMeal(ctx context.Context, userID, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, m := range db.meals {
		if m.UserID == userID && m.ID == id {
			db.meals = append(db.meals[:i], db.meals[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ListRecentMeals lists the most recent meals.
func (db *DB) ListRecentMeals(ctx context.Context, userID string, limit int) ([]domain.MealEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.MealEntry, 0)
	for _, m := range db.meals {
		if m.UserID == userID {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MealsBetween returns meals created in [from, to), oldest first.
func (db *DB) MealsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.MealEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.MealEntry, 0)
	for _, m := range db.meals {
		if m.UserID == userID && !m.CreatedAt.Before(from) && m.CreatedAt.Before(to) {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// AddFavorite saves a favorite meal.
func (db *DB) AddFavorite(ctx context.Context, userID, name, mealType string, createdAt time.Time) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := uuid.NewString()
	db.favorites = append(db.favorites, domain.FavoriteMeal{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Type:      mealType,
		CreatedAt: createdAt.UTC(),
	})
	return id, nil
}

// GetFavorite returns one favorite.
func (db *DB) GetFavorite(ctx context.Context, userID, id string) (*domain.FavoriteMeal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, f := range db.favorites {
		if f.UserID == userID && f.ID == id {
			return &f, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListFavorites returns the user's favorites, newest first.
func (db *DB) ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteMeal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.FavoriteMeal, 0)
	for _, f := range db.favorites {
		if f.UserID == userID {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// DeleteFavorite removes a favorite.
func (db *DB) DeleteFavorite(ctx context.Context, userID, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, f := range db.favorites {
		if f.UserID == userID && f.ID == id {
			db.favorites = append(db.favorites[:i], db.favorites[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
