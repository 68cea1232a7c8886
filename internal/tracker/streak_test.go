package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNextAnchor(t *testing.T) {
	tests := []struct {
		name  string
		prev  Anchor
		ok    bool
		today string
		want  Anchor
	}{
		{"first activity", Anchor{}, false, "2024-03-11", Anchor{"2024-03-11", 1}},
		{"same day", Anchor{"2024-03-11", 4}, true, "2024-03-11", Anchor{"2024-03-11", 4}},
		{"yesterday", Anchor{"2024-03-10", 4}, true, "2024-03-11", Anchor{"2024-03-11", 5}},
		{"across month", Anchor{"2024-02-29", 2}, true, "2024-03-01", Anchor{"2024-03-01", 3}},
		{"gap resets", Anchor{"2024-03-06", 9}, true, "2024-03-11", Anchor{"2024-03-11", 1}},
		{"future anchor resets", Anchor{"2024-03-12", 3}, true, "2024-03-11", Anchor{"2024-03-11", 1}},
		{"garbage anchor", Anchor{"yesterday", 3}, true, "2024-03-11", Anchor{"2024-03-11", 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextAnchor(tt.prev, tt.ok, tt.today))
		})
	}
}

func TestStreakTrackerConsecutiveDays(t *testing.T) {
	anchors := memAnchors{}
	tr := NewStreakTracker(DomainNutrition, anchors, nil)
	day := testNow

	assert.Equal(t, 1, tr.Evaluate(day))
	assert.Equal(t, 1, tr.Evaluate(day.Add(3*time.Hour)))
	assert.Equal(t, 2, tr.Evaluate(day.AddDate(0, 0, 1)))
	assert.Equal(t, 3, tr.Evaluate(day.AddDate(0, 0, 2)))
	assert.Equal(t, Anchor{"2024-03-13", 3}, anchors[DomainNutrition])

	again := NewStreakTracker(DomainNutrition, anchors, nil)
	assert.Equal(t, 3, again.Current())
	assert.Equal(t, 1, again.Evaluate(day.AddDate(0, 0, 7)))
}

func TestStreakTrackerResumesFromYesterday(t *testing.T) {
	anchors := memAnchors{DomainChallenges: {Date: DateKey(testNow.AddDate(0, 0, -1)), Streak: 6}}
	tr := NewStreakTracker(DomainChallenges, anchors, nil)
	assert.Equal(t, 7, tr.Evaluate(testNow))

	stale := memAnchors{DomainChallenges: {Date: DateKey(testNow.AddDate(0, 0, -5)), Streak: 6}}
	assert.Equal(t, 1, NewStreakTracker(DomainChallenges, stale, nil).Evaluate(testNow))
}

type brokenAnchors struct {
	loadErr, saveErr error
	saves            int
}

func (b *brokenAnchors) LoadAnchor(Domain) (Anchor, bool, error) {
	return Anchor{}, false, b.loadErr
}

func (b *brokenAnchors) SaveAnchor(Domain, Anchor) error {
	b.saves++
	return b.saveErr
}

func TestStreakTrackerDegradesToMemory(t *testing.T) {
	store := &brokenAnchors{saveErr: errors.New("disk full")}
	tr := NewStreakTracker(DomainChallenges, store, zap.NewNop())

	require.Equal(t, 1, tr.Evaluate(testNow))
	assert.True(t, tr.Volatile())
	assert.Equal(t, 2, tr.Evaluate(testNow.AddDate(0, 0, 1)))
	assert.Equal(t, 1, store.saves)

	unreadable := NewStreakTracker(DomainNutrition, &brokenAnchors{loadErr: errors.New("locked")}, nil)
	assert.Equal(t, 1, unreadable.Evaluate(testNow))
	assert.True(t, unreadable.Volatile())
}

func TestStoreStreakFeedsLeaderboard(t *testing.T) {
	s, clk := newTestStore(t, SeedState(testNow))

	_, err := s.JoinChallenge("2")
	require.NoError(t, err)
	clk.advance(1)
	_, err = s.CompleteTask("2")
	require.NoError(t, err)

	e, ok := s.Entry("You")
	require.True(t, ok)
	assert.Equal(t, 2, e.Streak)
	assert.Equal(t, 0, s.Streak(DomainNutrition))
}
