package app

import (
	"context"
	"errors"
	"time"

	"mybites/internal/domain"
)

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id string) (*domain.User, error)
	createFn        func(ctx context.Context, username, passwordHash string) (*domain.User, error)
	countFn         func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash)
	}
	return &domain.User{ID: "u-1", Username: username, PasswordHash: passwordHash}, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) (int, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, userID, token, userAgent, ip string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, userAgent, ip, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return 0, nil
}

type mockVerifier struct {
	verifyFn func(ctx context.Context, raw string) (domain.Identity, error)
}

func (m *mockVerifier) Verify(ctx context.Context, raw string) (domain.Identity, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, raw)
	}
	return domain.Identity{}, errors.New("unverified")
}

type mockWaterRepo struct {
	addFn    func(ctx context.Context, userID string, amount float64, t time.Time) (string, error)
	delFn    func(ctx context.Context, userID, id string) error
	listFn   func(ctx context.Context, userID string, limit int) ([]domain.WaterEvent, error)
	eventsFn func(ctx context.Context, userID string, since time.Time) ([]domain.WaterEvent, error)
	totalFn  func(ctx context.Context, userID string, from, to time.Time) (float64, error)
}

func (m *mockWaterRepo) AddWaterEvent(ctx context.Context, userID string, amount float64, t time.Time) (string, error) {
	if m.addFn != nil {
		return m.addFn(ctx, userID, amount, t)
	}
	return "w-1", nil
}

func (m *mockWaterRepo) DeleteWaterEvent(ctx context.Context, userID, id string) error {
	if m.delFn != nil {
		return m.delFn(ctx, userID, id)
	}
	return nil
}

func (m *mockWaterRepo) ListRecentWaterEvents(ctx context.Context, userID string, limit int) ([]domain.WaterEvent, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockWaterRepo) WaterEventsForUser(ctx context.Context, userID string, since time.Time) ([]domain.WaterEvent, error) {
	if m.eventsFn != nil {
		return m.eventsFn(ctx, userID, since)
	}
	return nil, nil
}

func (m *mockWaterRepo) WaterTotalBetween(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	if m.totalFn != nil {
		return m.totalFn(ctx, userID, from, to)
	}
	return 0, nil
}

type mockMealRepo struct {
	addMealFn   func(ctx context.Context, userID, name, mealType string, t time.Time) (string, error)
	delMealFn   func(ctx context.Context, userID, id string) error
	listMealsFn func(ctx context.Context, userID string, limit int) ([]domain.MealEntry, error)
	betweenFn   func(ctx context.Context, userID string, from, to time.Time) ([]domain.MealEntry, error)
	addFavFn    func(ctx context.Context, userID, name, mealType string, t time.Time) (string, error)
	getFavFn    func(ctx context.Context, userID, id string) (*domain.FavoriteMeal, error)
	listFavsFn  func(ctx context.Context, userID string) ([]domain.FavoriteMeal, error)
	delFavFn    func(ctx context.Context, userID, id string) error
}

func (m *mockMealRepo) AddMeal(ctx context.Context, userID, name, mealType string, t time.Time) (string, error) {
	if m.addMealFn != nil {
		return m.addMealFn(ctx, userID, name, mealType, t)
	}
	return "m-1", nil
}

func (m *mockMealRepo) DeleteMeal(ctx context.Context, userID, id string) error {
	if m.delMealFn != nil {
		return m.delMealFn(ctx, userID, id)
	}
	return nil
}

func (m *mockMealRepo) ListRecentMeals(ctx context.Context, userID string, limit int) ([]domain.MealEntry, error) {
	if m.listMealsFn != nil {
		return m.listMealsFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockMealRepo) MealsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.MealEntry, error) {
	if m.betweenFn != nil {
		return m.betweenFn(ctx, userID, from, to)
	}
	return nil, nil
}

func (m *mockMealRepo) AddFavorite(ctx context.Context, userID, name, mealType string, t time.Time) (string, error) {
	if m.addFavFn != nil {
		return m.addFavFn(ctx, userID, name, mealType, t)
	}
	return "f-1", nil
}

func (m *mockMealRepo) GetFavorite(ctx context.Context, userID, id string) (*domain.FavoriteMeal, error) {
	if m.getFavFn != nil {
		return m.getFavFn(ctx, userID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockMealRepo) ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteMeal, error) {
	if m.listFavsFn != nil {
		return m.listFavsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockMealRepo) DeleteFavorite(ctx context.Context, userID, id string) error {
	if m.delFavFn != nil {
		return m.delFavFn(ctx, userID, id)
	}
	return nil
}

type mockProfileRepo struct {
	getFn    func(ctx context.Context, userID string) (*domain.Profile, error)
	upsertFn func(ctx context.Context, p domain.Profile) error
}

func (m *mockProfileRepo) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockProfileRepo) UpsertProfile(ctx context.Context, p domain.Profile) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, p)
	}
	return nil
}
