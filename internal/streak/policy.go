package streak

import "fmt"

// DailyGoal is the default threshold in fluid ounces.
const DailyGoal = 64.0

// Tally aggregates the events logged on one calendar day.
type Tally struct {
	Total float64
	Count int
}

// Policy decides whether a day's tally counts toward a streak.
type Policy interface {
	Qualifies(t Tally) bool
	Name() string
}

// Threshold qualifies a day when the summed amount reaches Goal.
type Threshold struct {
	Goal float64
}

// Qualifies implements Policy.
func (p Threshold) Qualifies(t Tally) bool {
	return t.Count > 0 && t.Total >= p.Goal
}

// Name implements Policy.
func (p Threshold) Name() string { return "threshold" }

// Presence qualifies a day when anything was logged, regardless of amount.
type Presence struct{}

// Qualifies implements Policy.
func (Presence) Qualifies(t Tally) bool { return t.Count > 0 }

// Name implements Policy.
func (Presence) Name() string { return "presence" }

// PolicyByName builds a policy from its configured name. goal is ignored for
// presence.
func PolicyByName(name string, goal float64) (Policy, error) {
	switch name {
	case "", "threshold":
		return Threshold{Goal: goal}, nil
	case "presence":
		return Presence{}, nil
	default:
		return nil, fmt.Errorf("unknown streak policy %q", name)
	}
}
