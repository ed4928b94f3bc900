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

var _ domain.WaterRepository = (*Store)(nil)

type waterDoc struct {
	Amount    float64   `firestore:"amount"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// AddWaterEvent stores a new event under users/{uid}/water.
func (s *Store) AddWaterEvent(ctx context.Context, userID string, amount float64, createdAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.userCollection(userID, waterCollection).Doc(id).Create(ctx, waterDoc{
		Amount:    amount,
		CreatedAt: createdAt.UTC(),
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteWaterEvent removes one event.
func (s *Store) DeleteWaterEvent(ctx context.Context, userID, id string) error {
	return deleteOwned(ctx, s.userCollection(userID, waterCollection).Doc(id))
}

// ListRecentWaterEvents returns the newest events up to limit.
func (s *Store) ListRecentWaterEvents(ctx context.Context, userID string, limit int) ([]domain.WaterEvent, error) {
	q := s.userCollection(userID, waterCollection).OrderBy("createdAt", firestore.Desc).Limit(limit)
	return s.collectWater(ctx, userID, q)
}

// WaterEventsForUser returns events created at or after since.
func (s *Store) WaterEventsForUser(ctx context.Context, userID string, since time.Time) ([]domain.WaterEvent, error) {
	q := s.userCollection(userID, waterCollection).Query
	if !since.IsZero() {
		q = q.Where("createdAt", ">=", since.UTC())
	}
	return s.collectWater(ctx, userID, q)
}

// WaterTotalBetween sums event amounts in [from, to).
func (s *Store) WaterTotalBetween(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	q := s.userCollection(userID, waterCollection).
		Where("createdAt", ">=", from.UTC()).
		Where("createdAt", "<", to.UTC())
	events, err := s.collectWater(ctx, userID, q)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, e := range events {
		total += e.Amount
	}
	return total, nil
}

func (s *Store) collectWater(ctx context.Context, userID string, q firestore.Query) ([]domain.WaterEvent, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := make([]domain.WaterEvent, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var d waterDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode water event %s: %w", doc.Ref.ID, err)
		}
		out = append(out, domain.WaterEvent{
			ID:        doc.Ref.ID,
			UserID:    userID,
			Amount:    d.Amount,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}
