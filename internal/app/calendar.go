package app

import (
	"context"
	"errors"
	"time"

	"mybites/internal/domain"
	"mybites/internal/streak"
)

// Calendar is the per-user view used to group events into days: the
// location days are observed in, the daily goal, and the streak calculator
// built from both.
type Calendar struct {
	Location   *time.Location
	Goal       float64
	Calculator *streak.Calculator
}

// CalendarResolver builds a Calendar from the user's profile, falling back to
// server defaults for anything the profile leaves unset.
type CalendarResolver struct {
	profiles   domain.ProfileRepository
	policy     string
	defaultLoc *time.Location
	fixedGoal  bool
}

// CalendarOption configures a CalendarResolver.
type CalendarOption func(*CalendarResolver)

// WithFixedGoal makes every calendar use streak.DailyGoal, ignoring the
// profile's hydration target. Badge streaks then mean the same thing for
// every user.
func WithFixedGoal() CalendarOption {
	return func(r *CalendarResolver) { r.fixedGoal = true }
}

// NewCalendarResolver creates a resolver. policy is "threshold" or
// "presence"; loc is the server default location and may be nil for Local.
func NewCalendarResolver(profiles domain.ProfileRepository, policy string, loc *time.Location, opts ...CalendarOption) (*CalendarResolver, error) {
	if _, err := streak.PolicyByName(policy, streak.DailyGoal); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	r := &CalendarResolver{profiles: profiles, policy: policy, defaultLoc: loc}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve returns the calendar for userID.
func (r *CalendarResolver) Resolve(ctx context.Context, userID string) (Calendar, error) {
	loc := r.defaultLoc
	goal := domain.DefaultHydrationTarget
	if r.fixedGoal {
		goal = streak.DailyGoal
	}

	if r.profiles != nil {
		p, err := r.profiles.GetProfile(ctx, userID)
		switch {
		case err == nil:
			if p.HydrationTarget > 0 && !r.fixedGoal {
				goal = p.HydrationTarget
			}
			if p.Timezone != "" {
				if l, lerr := time.LoadLocation(p.Timezone); lerr == nil {
					loc = l
				}
			}
		case errors.Is(err, domain.ErrNotFound):
		default:
			return Calendar{}, err
		}
	}

	policy, err := streak.PolicyByName(r.policy, goal)
	if err != nil {
		return Calendar{}, err
	}
	return Calendar{Location: loc, Goal: goal, Calculator: streak.New(policy, loc)}, nil
}
