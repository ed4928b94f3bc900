package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"mybites/internal/domain"
)

var _ domain.MealRepository = (*Store)(nil)

type mealDoc struct {
	Name      string    `firestore:"name"`
	Type      string    `firestore:"type"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// AddMeal stores a meal under users/{uid}/meals.
func (s *Store) AddMeal(ctx context.Context, userID, name, mealType string, createdAt time.Time) (string, error) {
	return s.addMealDoc(ctx, userID, mealsCollection, name, mealType, createdAt)
}

// DeleteMeal removes a meal.
func (s *Store) DeleteMeal(ctx context.Context, userID, id string) error {
	return deleteOwned(ctx, s.userCollection(userID, mealsCollection).Doc(id))
}

// ListRecentMeals returns the newest meals up to limit.
func (s *Store) ListRecentMeals(ctx context.Context, userID string, limit int) ([]domain.MealEntry, error) {
	q := s.userCollection(userID, mealsCollection).OrderBy("createdAt", firestore.Desc).Limit(limit)
	return s.collectMeals(ctx, userID, q)
}

// MealsBetween returns meals created in [from, to), oldest first.
func (s *Store) MealsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.MealEntry, error) {
	q := s.userCollection(userID, mealsCollection).
		Where("createdAt", ">=", from.UTC()).
		Where("createdAt", "<", to.UTC()).
		OrderBy("createdAt", firestore.Asc)
	return s.collectMeals(ctx, userID, q)
}

// AddFavorite stores a favorite under users/{uid}/favorites.
func (s *Store) AddFavorite(ctx context.Context, userID, name, mealType string, createdAt time.Time) (string, error) {
	return s.addMealDoc(ctx, userID, favoritesCollection, name, mealType, createdAt)
}

// GetFavorite returns one favorite.
func (s *Store) GetFavorite(ctx context.Context, userID, id string) (*domain.FavoriteMeal, error) {
	doc, err := s.userCollection(userID, favoritesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	var d mealDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode favorite %s: %w", id, err)
	}
	return &domain.FavoriteMeal{ID: id, UserID: userID, Name: d.Name, Type: d.Type, CreatedAt: d.CreatedAt}, nil
}

// ListFavorites returns every favorite, newest first.
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteMeal, error) {
	q := s.userCollection(userID, favoritesCollection).OrderBy("createdAt", firestore.Desc)
	meals, err := s.collectMeals(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FavoriteMeal, 0, len(meals))
	for _, m := range meals {
		out = append(out, domain.FavoriteMeal(m))
	}
	return out, nil
}

// DeleteFavorite removes a favorite.
func (s *Store) DeleteFavorite(ctx context.Context, userID, id string) error {
	return deleteOwned(ctx, s.userCollection(userID, favoritesCollection).Doc(id))
}

func (s *Store) addMealDoc(ctx context.Context, userID, collection, name, mealType string, createdAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.userCollection(userID, collection).Doc(id).Create(ctx, mealDoc{
		Name:      name,
		Type:      mealType,
		CreatedAt: createdAt.UTC(),
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) collectMeals(ctx context.Context, userID string, q firestore.Query) ([]domain.MealEntry, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := make([]domain.MealEntry, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var d mealDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode meal %s: %w", doc.Ref.ID, err)
		}
		out = append(out, domain.MealEntry{
			ID:        doc.Ref.ID,
			UserID:    userID,
			Name:      d.Name,
			Type:      d.Type,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}
