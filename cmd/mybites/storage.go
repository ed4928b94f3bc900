package main

import (
	"context"
	"fmt"

	"mybites/internal/adapter/firestore"
	"mybites/internal/adapter/memory"
	"mybites/internal/adapter/postgres"
	"mybites/internal/config"
	"mybites/internal/domain"
)

// repositories is the set of ports one storage backend provides.
type repositories struct {
	water    domain.WaterRepository
	meals    domain.MealRepository
	profiles domain.ProfileRepository
	users    domain.UserRepository
	sessions domain.SessionRepository
	close    func() error
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (*repositories, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return &repositories{
			water: db, meals: db, profiles: db, users: db,
			sessions: postgres.NewSessionRepo(db),
			close:    db.Close,
		}, nil
	case config.BackendFirestore:
		store, err := firestore.Open(ctx, cfg.FirestoreProject)
		if err != nil {
			return nil, fmt.Errorf("firestore: %w", err)
		}
		return &repositories{
			water: store, meals: store, profiles: store, users: store,
			sessions: firestore.NewSessionRepo(store),
			close:    store.Close,
		}, nil
	case config.BackendMemory, "":
		db := memory.New()
		return &repositories{
			water: db, meals: db, profiles: db, users: db,
			sessions: db.NewSessionRepo(),
			close:    func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
