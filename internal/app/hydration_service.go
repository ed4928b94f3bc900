package app

import (
	"context"
	"math"
	"time"

	"mybites/internal/domain"
	"mybites/internal/streak"
)

// MaxWaterAmount is the largest single intake accepted, in fluid ounces.
const MaxWaterAmount = 256.0

// HydrationService encapsulates water-tracking use cases.
type HydrationService struct {
	repo     domain.WaterRepository
	calendar *CalendarResolver
}

// NewHydrationService creates a HydrationService backed by the given
// repository.
func NewHydrationService(repo domain.WaterRepository, calendar *CalendarResolver) *HydrationService {
	return &HydrationService{repo: repo, calendar: calendar}
}

// LogResult is returned after recording a water event.
type LogResult struct {
	ID        string         `json:"id"`
	Streak    int            `json:"streak"`
	NewBadges []domain.Badge `json:"newBadges"`
}

// TodaySummary is the water total for the current calendar day.
type TodaySummary struct {
	Day       string  `json:"day"`
	Total     float64 `json:"total"`
	Goal      float64 `json:"goal"`
	Remaining float64 `json:"remaining"`
	GoalMet   bool    `json:"goalMet"`
}

// StreakSummary describes the user's current hydration streak.
type StreakSummary struct {
	Current int           `json:"current"`
	Longest int           `json:"longest"`
	Policy  string        `json:"policy"`
	Goal    float64       `json:"goal"`
	Next    *domain.Badge `json:"next,omitempty"`
}

// LogWater validates and stores a water intake event, then reports the
// streak after the insert and any badges it unlocked.
func (s *HydrationService) LogWater(ctx context.Context, userID string, amount float64, now time.Time) (LogResult, error) {
	if math.IsNaN(amount) || amount <= 0 || amount > MaxWaterAmount {
		return LogResult{}, invalidf("amount must be within (0, %g]", MaxWaterAmount)
	}

	cal, err := s.calendar.Resolve(ctx, userID)
	if err != nil {
		return LogResult{}, err
	}
	events, err := s.repo.WaterEventsForUser(ctx, userID, time.Time{})
	if err != nil {
		return LogResult{}, err
	}
	before := cal.Calculator.Calculate(events, now)

	id, err := s.repo.AddWaterEvent(ctx, userID, amount, now)
	if err != nil {
		return LogResult{}, err
	}

	events = append(events, domain.WaterEvent{ID: id, UserID: userID, Amount: amount, CreatedAt: now})
	after := cal.Calculator.Calculate(events, now)

	return LogResult{
		ID:        id,
		Streak:    after,
		NewBadges: domain.NewlyUnlocked(before, after),
	}, nil
}

// GetToday returns the water total for the calendar day containing now.
func (s *HydrationService) GetToday(ctx context.Context, userID string, now time.Time) (TodaySummary, error) {
	cal, err := s.calendar.Resolve(ctx, userID)
	if err != nil {
		return TodaySummary{}, err
	}
	day := streak.DayOf(now, cal.Location)
	total, err := s.repo.WaterTotalBetween(ctx, userID, day.Start(cal.Location), day.End(cal.Location))
	if err != nil {
		return TodaySummary{}, err
	}
	return TodaySummary{
		Day:       day.String(),
		Total:     total,
		Goal:      cal.Goal,
		Remaining: math.Max(cal.Goal-total, 0),
		GoalMet:   total >= cal.Goal,
	}, nil
}

// ListRecent returns the most recent water events up to limit.
func (s *HydrationService) ListRecent(ctx context.Context, userID string, limit int) ([]domain.WaterEvent, error) {
	return s.repo.ListRecentWaterEvents(ctx, userID, limit)
}

// Delete removes a single water event.
func (s *HydrationService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.DeleteWaterEvent(ctx, userID, id)
}

// UndoLast deletes the most recent water event.
func (s *HydrationService) UndoLast(ctx context.Context, userID string) (bool, string, error) {
	items, err := s.repo.ListRecentWaterEvents(ctx, userID, 1)
	if err != nil {
		return false, "", err
	}
	if len(items) == 0 {
		return false, "", nil
	}
	if err := s.repo.DeleteWaterEvent(ctx, userID, items[0].ID); err != nil {
		return false, "", err
	}
	return true, items[0].ID, nil
}

// Streak computes the user's current and longest streak as of now from a
// snapshot of their full history.
func (s *HydrationService) Streak(ctx context.Context, userID string, now time.Time) (StreakSummary, error) {
	cal, err := s.calendar.Resolve(ctx, userID)
	if err != nil {
		return StreakSummary{}, err
	}
	events, err := s.repo.WaterEventsForUser(ctx, userID, time.Time{})
	if err != nil {
		return StreakSummary{}, err
	}
	current := cal.Calculator.Calculate(events, now)
	return StreakSummary{
		Current: current,
		Longest: cal.Calculator.Longest(events, now),
		Policy:  cal.Calculator.Policy().Name(),
		Goal:    cal.Goal,
		Next:    domain.NextBadge(current),
	}, nil
}
