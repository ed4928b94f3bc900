package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"mybites/internal/domain"
)

// ProfileInput is the editable part of a profile.
type ProfileInput struct {
	Name            string  `json:"name" validate:"max=80"`
	HydrationTarget float64 `json:"hydrationTarget" validate:"gte=8,lte=512"`
	Timezone        string  `json:"timezone" validate:"omitempty,timezone"`
}

// ProfileService encapsulates profile use cases.
type ProfileService struct {
	repo domain.ProfileRepository
}

// NewProfileService creates a ProfileService backed by the given repository.
func NewProfileService(repo domain.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Get returns the stored profile, or a default one that is not yet onboarded.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Profile{UserID: userID, HydrationTarget: domain.DefaultHydrationTarget}, nil
	}
	if err != nil {
		return nil, err
	}
	if p.HydrationTarget <= 0 {
		p.HydrationTarget = domain.DefaultHydrationTarget
	}
	return p, nil
}

// Update validates and saves the profile. Saving marks the user onboarded.
func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileInput, now time.Time) (*domain.Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Timezone = strings.TrimSpace(in.Timezone)
	if in.HydrationTarget == 0 {
		in.HydrationTarget = domain.DefaultHydrationTarget
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	p := domain.Profile{
		UserID:          userID,
		Name:            in.Name,
		HydrationTarget: in.HydrationTarget,
		Timezone:        in.Timezone,
		Onboarded:       true,
		UpdatedAt:       now.UTC(),
	}
	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}
