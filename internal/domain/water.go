package domain

import (
	"context"
	"time"
)

// WaterEvent represents a single logged water intake. Amount is in fluid
// ounces.
type WaterEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// WaterRepository is the port for water persistence.
type WaterRepository interface {
	AddWaterEvent(ctx context.Context, userID string, amount float64, createdAt time.Time) (string, error)
	DeleteWaterEvent(ctx context.Context, userID, id string) error
	ListRecentWaterEvents(ctx context.Context, userID string, limit int) ([]WaterEvent, error)
	// WaterEventsForUser returns every event created at or after since, in no
	// particular order. A zero since returns the full history.
	WaterEventsForUser(ctx context.Context, userID string, since time.Time) ([]WaterEvent, error)
	WaterTotalBetween(ctx context.Context, userID string, from, to time.Time) (float64, error)
}
