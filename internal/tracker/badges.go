package tracker

import "github.com/saadjs/fitquest/internal/model"

const (
	BadgeChallengeMaster = "Challenge Master"
	BadgeSevenDayFire    = "7-Day Fire"
	BadgePointLegend     = "Point Legend"
	BadgeTenMeals        = "10 Meals"
	BadgeThreeDayStreak  = "3-Day Streak"
)

// Snapshot is the read-only view badge rules are evaluated against.
type Snapshot struct {
	Challenges []model.Challenge
	MealCount  int
	Points     int
	Streaks    map[Domain]int
}

func (s Snapshot) CompletedChallenges() int {
	n := 0
	for _, c := range s.Challenges {
		if c.Status == model.StatusCompleted {
			n++
		}
	}
	return n
}

type Rule struct {
	Name      string
	Domain    string
	Predicate func(Snapshot) bool
}

type Thresholds struct {
	ChallengeMaster int
	SevenDayFire    int
	PointLegend     int
	TenMeals        int
	LoggingStreak   int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ChallengeMaster: 5,
		SevenDayFire:    7,
		PointLegend:     2000,
		TenMeals:        10,
		LoggingStreak:   3,
	}
}

func DefaultRules(th Thresholds) []Rule {
	return []Rule{
		{
			Name:      BadgeChallengeMaster,
			Domain:    "challenges",
			Predicate: func(s Snapshot) bool { return s.CompletedChallenges() >= th.ChallengeMaster },
		},
		{
			Name:      BadgeSevenDayFire,
			Domain:    "streak",
			Predicate: func(s Snapshot) bool { return s.Streaks[DomainChallenges] >= th.SevenDayFire },
		},
		{
			Name:      BadgePointLegend,
			Domain:    "leaderboard",
			Predicate: func(s Snapshot) bool { return s.Points >= th.PointLegend },
		},
		{
			Name:      BadgeTenMeals,
			Domain:    "nutrition",
			Predicate: func(s Snapshot) bool { return s.MealCount >= th.TenMeals },
		},
		{
			Name:      BadgeThreeDayStreak,
			Domain:    "nutrition",
			Predicate: func(s Snapshot) bool { return s.Streaks[DomainNutrition] >= th.LoggingStreak },
		},
	}
}

type Engine struct {
	rules []Rule
}

func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// Evaluate returns the badges newly earned by s, in rule order. Badges
// already in current are never returned again.
func (e *Engine) Evaluate(s Snapshot, current []string) []string {
	owned := make(map[string]bool, len(current))
	for _, b := range current {
		owned[b] = true
	}
	var granted []string
	for _, r := range e.rules {
		if owned[r.Name] || r.Predicate == nil {
			continue
		}
		if r.Predicate(s) {
			granted = append(granted, r.Name)
			owned[r.Name] = true
		}
	}
	return granted
}

// Notifier receives advisory events. Nothing in the store depends on them.
type Notifier interface {
	BadgeUnlocked(badge string)
}

type NotifierFunc func(badge string)

func (f NotifierFunc) BadgeUnlocked(badge string) { f(badge) }

type multiNotifier []Notifier

func (m multiNotifier) BadgeUnlocked(badge string) {
	for _, n := range m {
		n.BadgeUnlocked(badge)
	}
}

// Notifiers fans events out to every non-nil notifier.
func Notifiers(ns ...Notifier) Notifier {
	out := make(multiNotifier, 0, len(ns))
	for _, n := range ns {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
