package app

import (
	"context"
	"time"

	"mybites/internal/domain"
)

// BadgeStatus is one row of the badge collection.
type BadgeStatus struct {
	domain.Badge
	Unlocked bool `json:"unlocked"`
}

// BadgeCollection is the full badge table evaluated against a user's streak.
type BadgeCollection struct {
	CurrentStreak int           `json:"currentStreak"`
	LongestStreak int           `json:"longestStreak"`
	Badges        []BadgeStatus `json:"badges"`
	Next          *domain.Badge `json:"next,omitempty"`
}

// BadgeService evaluates the badge registry for a user.
type BadgeService struct {
	hydration *HydrationService
}

// NewBadgeService creates a BadgeService reading streaks from hydration.
func NewBadgeService(hydration *HydrationService) *BadgeService {
	return &BadgeService{hydration: hydration}
}

// Collection returns every badge with its unlocked flag. Badges are unlocked
// by the current streak, so a broken streak locks them again.
func (s *BadgeService) Collection(ctx context.Context, userID string, now time.Time) (BadgeCollection, error) {
	sum, err := s.hydration.Streak(ctx, userID, now)
	if err != nil {
		return BadgeCollection{}, err
	}
	table := domain.WaterStreakBadges()
	out := BadgeCollection{
		CurrentStreak: sum.Current,
		LongestStreak: sum.Longest,
		Badges:        make([]BadgeStatus, 0, len(table)),
		Next:          sum.Next,
	}
	for _, b := range table {
		out.Badges = append(out.Badges, BadgeStatus{Badge: b, Unlocked: sum.Current >= b.MinStreak})
	}
	return out, nil
}
