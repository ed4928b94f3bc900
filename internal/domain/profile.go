package domain

import (
	"context"
	"time"
)

// DefaultHydrationTarget is the daily goal in fluid ounces used when a user
// has not set one.
const DefaultHydrationTarget = 64.0

// Profile holds per-user preferences.
type Profile struct {
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	HydrationTarget float64   `json:"hydrationTarget"`
	Timezone        string    `json:"timezone,omitempty"`
	Onboarded       bool      `json:"onboarded"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ProfileRepository is the port for profile persistence. GetProfile returns
// ErrNotFound when the user never saved one.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpsertProfile(ctx context.Context, p Profile) error
}
