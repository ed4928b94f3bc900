package app

import (
	"context"
	"time"

	"mybites/internal/domain"
	"mybites/internal/streak"
)

// MaxHistoryDays caps the range returned by Daily.
const MaxHistoryDays = 366

// HistoryService encapsulates per-day history retrieval.
type HistoryService struct {
	water    domain.WaterRepository
	meals    domain.MealRepository
	calendar *CalendarResolver
}

// NewHistoryService creates a HistoryService backed by the given repositories.
func NewHistoryService(water domain.WaterRepository, meals domain.MealRepository, calendar *CalendarResolver) *HistoryService {
	return &HistoryService{water: water, meals: meals, calendar: calendar}
}

// DayPoint is a single day returned by Daily.
type DayPoint struct {
	Day     string  `json:"day"`
	Water   float64 `json:"water"`
	Unit    string  `json:"unit"`
	Meals   int     `json:"meals"`
	GoalMet bool    `json:"goalMet"`
}

// Daily returns one point per calendar day for the last days days ending on
// the day containing now, oldest first, with water converted to unit.
func (s *HistoryService) Daily(ctx context.Context, userID string, days int, unit string, now time.Time) ([]DayPoint, error) {
	if unit == "" {
		unit = domain.UnitOz
	}
	if !domain.ValidVolumeUnit(unit) {
		return nil, invalidf("unit must be %q or %q", domain.UnitOz, domain.UnitML)
	}
	if days <= 0 {
		return nil, invalidf("days must be positive")
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}

	cal, err := s.calendar.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := streak.DayOf(now, cal.Location)
	first := today.AddDays(-(days - 1))
	from, to := first.Start(cal.Location), today.End(cal.Location)

	events, err := s.water.WaterEventsForUser(ctx, userID, from)
	if err != nil {
		return nil, err
	}
	tallies := cal.Calculator.Tallies(events, now)

	meals, err := s.meals.MealsBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	mealCounts := make(map[streak.Day]int, len(meals))
	for _, m := range meals {
		mealCounts[streak.DayOf(m.CreatedAt, cal.Location)]++
	}

	points := make([]DayPoint, 0, days)
	for d := first; !today.Before(d); d = d.Next() {
		t := tallies[d]
		points = append(points, DayPoint{
			Day:     d.String(),
			Water:   domain.ConvertVolume(t.Total, domain.UnitOz, unit),
			Unit:    unit,
			Meals:   mealCounts[d],
			GoalMet: cal.Calculator.Qualifies(t),
		})
	}
	return points, nil
}
