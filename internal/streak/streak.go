// Package streak derives consecutive-day hydration streaks from water intake
// events.
//
// Events are grouped by the calendar date of their timestamp in a single
// location, each day is judged by a Policy, and the streak is the number of
// qualifying days walking backward from today. Today must qualify for the
// streak to be non-zero; there is no grace day.
//
// Events with a zero timestamp or a non-finite amount are skipped.
package streak

import (
	"math"
	"sort"
	"time"

	"mybites/internal/domain"
)

// Calculator computes streaks under a fixed policy and calendar location. It
// holds no mutable state and is safe for concurrent use.
type Calculator struct {
	policy Policy
	loc    *time.Location
}

// New returns a Calculator. A nil policy means Threshold{Goal: DailyGoal}. A
// nil loc means each call groups in the location of the today argument.
func New(policy Policy, loc *time.Location) *Calculator {
	if policy == nil {
		policy = Threshold{Goal: DailyGoal}
	}
	return &Calculator{policy: policy, loc: loc}
}

// CalculateHydrationStreak returns the streak under the 64 oz threshold
// policy, grouping days in today's location.
func CalculateHydrationStreak(events []domain.WaterEvent, today time.Time) int {
	return New(nil, nil).Calculate(events, today)
}

// Policy returns the calculator's policy.
func (c *Calculator) Policy() Policy { return c.policy }

// Calculate returns the number of consecutive qualifying days ending at the
// calendar date of today.
func (c *Calculator) Calculate(events []domain.WaterEvent, today time.Time) int {
	loc := c.location(today)
	tallies := tally(events, loc)

	n := 0
	for d := DayOf(today, loc); ; d = d.Prev() {
		t, ok := tallies[d]
		if !ok || !c.policy.Qualifies(t) {
			break
		}
		n++
	}
	return n
}

// Longest returns the longest run of consecutive qualifying days ending on or
// before the calendar date of today.
func (c *Calculator) Longest(events []domain.WaterEvent, today time.Time) int {
	loc := c.location(today)
	last := DayOf(today, loc)
	tallies := tally(events, loc)

	days := make([]Day, 0, len(tallies))
	for d, t := range tallies {
		if !last.Before(d) && c.policy.Qualifies(t) {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && days[i-1].Next() == d {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// Tallies groups events by calendar date in the location Calculate would use
// for today.
func (c *Calculator) Tallies(events []domain.WaterEvent, today time.Time) map[Day]Tally {
	return tally(events, c.location(today))
}

// Qualifies reports whether t counts toward a streak under the calculator's
// policy.
func (c *Calculator) Qualifies(t Tally) bool {
	return c.policy.Qualifies(t)
}

func (c *Calculator) location(today time.Time) *time.Location {
	if c.loc != nil {
		return c.loc
	}
	return today.Location()
}

func tally(events []domain.WaterEvent, loc *time.Location) map[Day]Tally {
	out := make(map[Day]Tally)
	for _, e := range events {
		if e.CreatedAt.IsZero() || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
			continue
		}
		d := DayOf(e.CreatedAt, loc)
		t := out[d]
		t.Total += e.Amount
		t.Count++
		out[d] = t
	}
	return out
}
