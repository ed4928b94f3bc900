package domain

import (
	"context"
	"time"
)

// Meal types accepted by the diary.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealEntry is a single logged meal.
type MealEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// FavoriteMeal is a saved meal that can be logged again without retyping it.
type FavoriteMeal struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// MealRepository is the port for meal and favorite persistence.
type MealRepository interface {
	AddMeal(ctx context.Context, userID, name, mealType string, createdAt time.Time) (string, error)
	DeleteMeal(ctx context.Context, userID, id string) error
	ListRecentMeals(ctx context.Context, userID string, limit int) ([]MealEntry, error)
	MealsBetween(ctx context.Context, userID string, from, to time.Time) ([]MealEntry, error)

	AddFavorite(ctx context.Context, userID, name, mealType string, createdAt time.Time) (string, error)
	GetFavorite(ctx context.Context, userID, id string) (*FavoriteMeal, error)
	ListFavorites(ctx context.Context, userID string) ([]FavoriteMeal, error)
	DeleteFavorite(ctx context.Context, userID, id string) error
}
