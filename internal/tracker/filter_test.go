package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalorieAndTimeBands(t *testing.T) {
	assert.Equal(t, CalorieLow, CalorieBand(299))
	assert.Equal(t, CalorieMedium, CalorieBand(300))
	assert.Equal(t, CalorieMedium, CalorieBand(500))
	assert.Equal(t, CalorieHigh, CalorieBand(501))

	assert.Equal(t, TimeMorning, TimeBand("11:59"))
	assert.Equal(t, TimeAfternoon, TimeBand("12:00"))
	assert.Equal(t, TimeAfternoon, TimeBand("16:59"))
	assert.Equal(t, TimeEvening, TimeBand("17:00"))
}

func TestLeaderboardQuery(t *testing.T) {
	s, _ := newTestStore(t, SeedState(testNow))

	page := s.Leaderboard(LeaderboardQuery{SortBy: SortPoints, Desc: true})
	require.Len(t, page.Entries, 5)
	assert.Equal(t, "CyberSmith", page.Entries[0].User)
	assert.Equal(t, 1, page.Entries[0].Rank)
	assert.Equal(t, 1, page.TotalPages)

	page = s.Leaderboard(LeaderboardQuery{SortBy: SortStreak})
	assert.Equal(t, "PulseViper", page.Entries[0].User)

	page = s.Leaderboard(LeaderboardQuery{SortBy: SortCompletedChallenges, Desc: true, Search: "o"})
	for _, e := range page.Entries {
		assert.Contains(t, []string{"You", "NeonBlaze"}, e.User)
	}
	assert.Equal(t, 2, page.Total)

	page = s.Leaderboard(LeaderboardQuery{PageSize: 2, Page: 3})
	assert.Len(t, page.Entries, 1)
	assert.Equal(t, 3, page.TotalPages)
}

func TestRankFollowsPoints(t *testing.T) {
	s, _ := newTestStore(t, SeedState(testNow))
	require.NoError(t, s.Award("You", 1000))

	e, ok := s.Entry("You")
	require.True(t, ok)
	assert.Equal(t, 1, e.Rank)
	assert.Equal(t, 1800, e.Points)
}
