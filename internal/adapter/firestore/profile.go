package firestore

import (
	"context"
	"fmt"
	"time"

	"mybites/internal/domain"
)

var _ domain.ProfileRepository = (*Store)(nil)

type profileDoc struct {
	Name            string    `firestore:"name"`
	HydrationTarget float64   `firestore:"hydrationTarget"`
	Timezone        string    `firestore:"timezone"`
	Onboarded       bool      `firestore:"onboarded"`
	UpdatedAt       time.Time `firestore:"updatedAt"`
}

// GetProfile reads profiles/{uid}.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	doc, err := s.client.Collection(profilesCollection).Doc(userID).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	var d profileDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &domain.Profile{
		UserID:          userID,
		Name:            d.Name,
		HydrationTarget: d.HydrationTarget,
		Timezone:        d.Timezone,
		Onboarded:       d.Onboarded,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

// UpsertProfile overwrites profiles/{uid}.
func (s *Store) UpsertProfile(ctx context.Context, p domain.Profile) error {
	_, err := s.client.Collection(profilesCollection).Doc(p.UserID).Set(ctx, profileDoc{
		Name:            p.Name,
		HydrationTarget: p.HydrationTarget,
		Timezone:        p.Timezone,
		Onboarded:       p.Onboarded,
		UpdatedAt:       p.UpdatedAt.UTC(),
	})
	return err
}
