package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saadjs/fitquest/internal/model"
)

func TestEngineGrantsInRuleOrderOnce(t *testing.T) {
	e := NewEngine(DefaultRules(DefaultThresholds())...)
	snap := Snapshot{
		MealCount: 12,
		Points:    2500,
		Streaks:   map[Domain]int{DomainChallenges: 7, DomainNutrition: 3},
	}

	got := e.Evaluate(snap, nil)
	assert.Equal(t, []string{BadgeSevenDayFire, BadgePointLegend, BadgeTenMeals, BadgeThreeDayStreak}, got)
	assert.Empty(t, e.Evaluate(snap, got))
}

func TestEngineCustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.ChallengeMaster = 1
	e := NewEngine(DefaultRules(th)...)

	snap := Snapshot{Challenges: []model.Challenge{{Status: model.StatusCompleted}, {Status: model.StatusActive}}}
	assert.Equal(t, []string{BadgeChallengeMaster}, e.Evaluate(snap, nil))
}

func TestBadgesAreNeverRevoked(t *testing.T) {
	s, _ := newTestStore(t, State{})
	require.NoError(t, s.Award("You", 2000))
	assert.Equal(t, []string{BadgePointLegend}, s.Badges())

	for i := 0; i < 5; i++ {
		_, err := s.AddMeal(mealInput("Snack", 50, model.Monday))
		require.NoError(t, err)
	}
	for _, m := range s.AllMeals() {
		s.RemoveMeal(m.ID)
	}
	s.EvaluateStreaks()

	badges := s.Badges()
	assert.Contains(t, badges, BadgePointLegend)
	seen := map[string]bool{}
	for _, b := range badges {
		assert.False(t, seen[b], "duplicate badge %s", b)
		seen[b] = true
	}
	e, _ := s.Entry("You")
	assert.Equal(t, []string{BadgePointLegend}, e.Badges)
}

func TestAwardRejectsNegativePoints(t *testing.T) {
	s, _ := newTestStore(t, State{})
	var verr *ValidationError
	assert.ErrorAs(t, s.Award("You", -5), &verr)
	require.NoError(t, s.Award("Newcomer", 40))
	e, ok := s.Entry("Newcomer")
	require.True(t, ok)
	assert.Equal(t, 40, e.Points)
}
