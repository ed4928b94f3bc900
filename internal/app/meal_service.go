package app

import (
	"context"
	"strings"
	"time"

	"mybites/internal/domain"
)

// MealInput is the user-supplied part of a meal or favorite.
type MealInput struct {
	Name string `json:"name" validate:"required,max=120"`
	Type string `json:"type" validate:"required,oneof=breakfast lunch dinner snack"`
}

// MealService encapsulates meal diary and favorites use cases.
type MealService struct {
	repo domain.MealRepository
}

// NewMealService creates a MealService backed by the given repository.
func NewMealService(repo domain.MealRepository) *MealService {
	return &MealService{repo: repo}
}

func normalizeMeal(in MealInput) (MealInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	if err := validateStruct(in); err != nil {
		return in, err
	}
	return in, nil
}

// LogMeal validates and stores a meal entry.
func (s *MealService) LogMeal(ctx context.Context, userID string, in MealInput, now time.Time) (*domain.MealEntry, error) {
	in, err := normalizeMeal(in)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.AddMeal(ctx, userID, in.Name, in.Type, now)
	if err != nil {
		return nil, err
	}
	return &domain.MealEntry{ID: id, UserID: userID, Name: in.Name, Type: in.Type, CreatedAt: now}, nil
}

// ListRecent returns the most recent meals up to limit.
func (s *MealService) ListRecent(ctx context.Context, userID string, limit int) ([]domain.MealEntry, error) {
	return s.repo.ListRecentMeals(ctx, userID, limit)
}

// Delete removes a meal entry.
func (s *MealService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.DeleteMeal(ctx, userID, id)
}

// AddFavorite saves a meal for quick re-logging.
func (s *MealService) AddFavorite(ctx context.Context, userID string, in MealInput, now time.Time) (*domain.FavoriteMeal, error) {
	in, err := normalizeMeal(in)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.AddFavorite(ctx, userID, in.Name, in.Type, now)
	if err != nil {
		return nil, err
	}
	return &domain.FavoriteMeal{ID: id, UserID: userID, Name: in.Name, Type: in.Type, CreatedAt: now}, nil
}

// ListFavorites returns every saved favorite.
func (s *MealService) ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteMeal, error) {
	return s.repo.ListFavorites(ctx, userID)
}

// DeleteFavorite removes a saved favorite. Meals already logged from it are
// kept.
func (s *MealService) DeleteFavorite(ctx context.Context, userID, id string) error {
	return s.repo.DeleteFavorite(ctx, userID, id)
}

// LogFavorite logs a new meal copied from a saved favorite.
func (s *MealService) LogFavorite(ctx context.Context, userID, favoriteID string, now time.Time) (*domain.MealEntry, error) {
	fav, err := s.repo.GetFavorite(ctx, userID, favoriteID)
	if err != nil {
		return nil, err
	}
	id, err := s.repo.AddMeal(ctx, userID, fav.Name, fav.Type, now)
	if err != nil {
		return nil, err
	}
	return &domain.MealEntry{ID: id, UserID: userID, Name: fav.Name, Type: fav.Type, CreatedAt: now}, nil
}
