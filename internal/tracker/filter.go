package tracker

import (
	"sort"
	"strings"

	"github.com/saadjs/fitquest/internal/model"
)

// All matches every value of a filter field.
const All = "All"

func matches(filter, value string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || strings.EqualFold(filter, All) || strings.EqualFold(filter, value)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

type ChallengeFilter struct {
	Type       string
	Difficulty string
	Status     string
	Search     string
}

func (f ChallengeFilter) Match(c model.Challenge) bool {
	return matches(f.Type, string(c.Type)) &&
		matches(f.Difficulty, string(c.Difficulty)) &&
		matches(f.Status, string(c.Status)) &&
		containsFold(c.Name, f.Search)
}

const (
	CalorieLow    = "Low"
	CalorieMedium = "Medium"
	CalorieHigh   = "High"

	TimeMorning   = "Morning"
	TimeAfternoon = "Afternoon"
	TimeEvening   = "Evening"
)

// CalorieBand buckets a meal: Low below 300 kcal, High above 500.
func CalorieBand(calories int) string {
	switch {
	case calories < 300:
		return CalorieLow
	case calories <= 500:
		return CalorieMedium
	default:
		return CalorieHigh
	}
}

// TimeBand buckets an HH:MM time. Zero-padded times compare correctly as strings.
func TimeBand(hhmm string) string {
	switch {
	case hhmm < "12:00":
		return TimeMorning
	case hhmm < "17:00":
		return TimeAfternoon
	default:
		return TimeEvening
	}
}

type MealFilter struct {
	MealType string
	Dietary  string
	Calories string
	Time     string
	Search   string
}

func (f MealFilter) Match(m model.Meal) bool {
	return matches(f.MealType, string(m.MealType)) &&
		matches(f.Dietary, string(m.Dietary)) &&
		matches(f.Calories, CalorieBand(m.Calories)) &&
		matches(f.Time, TimeBand(m.Time)) &&
		containsFold(m.Name, f.Search)
}

const (
	SortPoints              = "points"
	SortCompletedChallenges = "completedChallenges"
	SortStreak              = "streak"
)

type LeaderboardQuery struct {
	SortBy   string
	Desc     bool
	Search   string
	Page     int
	PageSize int
}

type LeaderboardPage struct {
	Entries    []model.LeaderboardEntry `json:"entries"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
	Total      int                      `json:"total"`
}

func sortKey(e model.LeaderboardEntry, by string) int {
	switch by {
	case SortCompletedChallenges:
		return e.CompletedChallenges
	case SortStreak:
		return e.Streak
	default:
		return e.Points
	}
}

// RankEntries assigns 1-based ranks by points, highest first, on a copy.
func RankEntries(entries []model.LeaderboardEntry) []model.LeaderboardEntry {
	out := cloneEntries(entries)
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return out[order[a]].Points > out[order[b]].Points })
	for rank, idx := range order {
		out[idx].Rank = rank + 1
	}
	return out
}

// QueryLeaderboard sorts, filters by user name and paginates. Pages are 1-based;
// a page past the end yields no entries.
func QueryLeaderboard(entries []model.LeaderboardEntry, q LeaderboardQuery) LeaderboardPage {
	ranked := RankEntries(entries)
	sort.SliceStable(ranked, func(a, b int) bool {
		ka, kb := sortKey(ranked[a], q.SortBy), sortKey(ranked[b], q.SortBy)
		if q.Desc {
			return ka > kb
		}
		return ka < kb
	})
	filtered := make([]model.LeaderboardEntry, 0, len(ranked))
	for _, e := range ranked {
		if containsFold(e.User, q.Search) {
			filtered = append(filtered, e)
		}
	}
	if q.PageSize <= 0 {
		q.PageSize = 5
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	page := LeaderboardPage{
		Page:       q.Page,
		PageSize:   q.PageSize,
		Total:      len(filtered),
		TotalPages: (len(filtered) + q.PageSize - 1) / q.PageSize,
		Entries:    []model.LeaderboardEntry{},
	}
	start := (q.Page - 1) * q.PageSize
	if start >= len(filtered) {
		return page
	}
	end := start + q.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	page.Entries = filtered[start:end]
	return page
}
