package domain

// Badge is an award unlocked by reaching a hydration streak length.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MinStreak   int    `json:"minStreak"`
	Emoji       string `json:"emoji"`
}

// Ordered by MinStreak ascending.
var waterStreakBadges = []Badge{
	{ID: "first_sip", Name: "First Sip", Description: "Logged water for one day", MinStreak: 1, Emoji: "💧"},
	{ID: "flowing_steady", Name: "Flowing Steady", Description: "3-day hydration streak", MinStreak: 3, Emoji: "🚿"},
	{ID: "hydro_hero", Name: "Hydro Hero", Description: "5-day hydration streak, you're killing it!", MinStreak: 5, Emoji: "💦"},
	{ID: "fountain_will", Name: "Fountain of Will", Description: "7-day hydration streak, one full week!", MinStreak: 7, Emoji: "⛲"},
	{ID: "aqua_ace", Name: "Aqua Ace", Description: "10-day hydration dominance", MinStreak: 10, Emoji: "🧊"},
	{ID: "liquid_legend", Name: "Liquid Legend", Description: "2-week streak, you're unstoppable", MinStreak: 14, Emoji: "🌊"},
	{ID: "streak_machine", Name: "Streak Machine", Description: "30-day streak, elite badge status", MinStreak: 30, Emoji: "🏆"},
}

// WaterStreakBadges returns a copy of the badge table.
func WaterStreakBadges() []Badge {
	out := make([]Badge, len(waterStreakBadges))
	copy(out, waterStreakBadges)
	return out
}

// UnlockedBadges returns the badges whose threshold streak meets.
func UnlockedBadges(streak int) []Badge {
	out := []Badge{}
	for _, b := range waterStreakBadges {
		if streak >= b.MinStreak {
			out = append(out, b)
		}
	}
	return out
}

// NextBadge returns the first badge still locked at streak, or nil when every
// badge is unlocked.
func NextBadge(streak int) *Badge {
	for _, b := range waterStreakBadges {
		if streak < b.MinStreak {
			next := b
			return &next
		}
	}
	return nil
}

// NewlyUnlocked returns the badges crossed when a streak moves from before to
// after. A shrinking streak unlocks nothing.
func NewlyUnlocked(before, after int) []Badge {
	out := []Badge{}
	for _, b := range waterStreakBadges {
		if before < b.MinStreak && after >= b.MinStreak {
			out = append(out, b)
		}
	}
	return out
}
