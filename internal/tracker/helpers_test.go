package tracker

import (
	"fmt"
	"testing"
	"time"

	"github.com/saadjs/fitquest/internal/model"
)

var testNow = time.Date(2024, 3, 11, 9, 30, 0, 0, time.Local)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) advance(days int) { c.now = c.now.AddDate(0, 0, days) }

type memAnchors map[Domain]Anchor

func (m memAnchors) LoadAnchor(d Domain) (Anchor, bool, error) {
	a, ok := m[d]
	return a, ok, nil
}

func (m memAnchors) SaveAnchor(d Domain, a Anchor) error {
	m[d] = a
	return nil
}

func newTestStore(t *testing.T, st State) (*Store, *clock) {
	t.Helper()
	clk := &clock{now: testNow}
	seq := 0
	s := New(Options{
		Anchors: memAnchors{},
		Now:     clk.Now,
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	}, st)
	return s, clk
}

func userPoints(t *testing.T, s *Store) int {
	t.Helper()
	e, ok := s.Entry(s.User())
	if !ok {
		t.Fatalf("no leaderboard entry for %s", s.User())
	}
	return e.Points
}

func mealInput(name string, calories int, day model.Weekday) MealInput {
	return MealInput{
		Name:     name,
		MealType: model.MealLunch,
		Calories: calories,
		Macros:   model.Macros{Protein: 20, Carbs: 30, Fat: 10},
		Day:      day,
		Time:     "12:30",
	}
}
