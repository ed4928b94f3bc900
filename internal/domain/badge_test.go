package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mybites/internal/domain"
)

func badgeIDs(bs []domain.Badge) []string {
	ids := make([]string, 0, len(bs))
	for _, b := range bs {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestWaterStreakBadges_OrderedAndCopied(t *testing.T) {
	bs := domain.WaterStreakBadges()
	require.Len(t, bs, 7)
	for i := 1; i < len(bs); i++ {
		assert.Less(t, bs[i-1].MinStreak, bs[i].MinStreak)
	}

	bs[0].Name = "mutated"
	assert.Equal(t, "First Sip", domain.WaterStreakBadges()[0].Name)
}

func TestUnlockedBadges(t *testing.T) {
	assert.Empty(t, domain.UnlockedBadges(0))
	assert.NotNil(t, domain.UnlockedBadges(0))
	assert.Equal(t, []string{"first_sip"}, badgeIDs(domain.UnlockedBadges(2)))
	assert.Equal(t, []string{"first_sip", "flowing_steady", "hydro_hero", "fountain_will"},
		badgeIDs(domain.UnlockedBadges(7)))
	assert.Len(t, domain.UnlockedBadges(365), 7)
}

func TestNextBadge(t *testing.T) {
	next := domain.NextBadge(0)
	require.NotNil(t, next)
	assert.Equal(t, "first_sip", next.ID)

	next = domain.NextBadge(10)
	require.NotNil(t, next)
	assert.Equal(t, "liquid_legend", next.ID)

	assert.Nil(t, domain.NextBadge(30))
}

func TestNewlyUnlocked(t *testing.T) {
	assert.Equal(t, []string{"flowing_steady"}, badgeIDs(domain.NewlyUnlocked(2, 3)))
	assert.Equal(t, []string{"first_sip", "flowing_steady", "hydro_hero"}, badgeIDs(domain.NewlyUnlocked(0, 5)))
	assert.Empty(t, domain.NewlyUnlocked(3, 3))
	assert.NotNil(t, domain.NewlyUnlocked(3, 3), "encodes as [] rather than null")
	assert.Empty(t, domain.NewlyUnlocked(7, 0))
}
