package tracker

import (
	"strings"

	"github.com/saadjs/fitquest/internal/model"
)

// Reorder removes the element at src and reinserts it at dst. Elements
// between the two positions shift by one; everything else keeps its place.
// The input slice is never modified. An out-of-range index yields an
// unchanged copy and false.
func Reorder[T any](list []T, src, dst int) ([]T, bool) {
	out := make([]T, len(list))
	copy(out, list)
	if src < 0 || src >= len(list) || dst < 0 || dst >= len(list) {
		return out, false
	}
	if src == dst {
		return out, true
	}
	moved := out[src]
	if src < dst {
		copy(out[src:dst], out[src+1:dst+1])
	} else {
		copy(out[dst+1:src+1], out[dst:src])
	}
	out[dst] = moved
	return out, true
}

// MoveAcross moves from[src] into to at position dst (0..len(to)). rekey
// runs on the element before insertion so its partition field matches to.
func MoveAcross[T any](from, to []T, src, dst int, rekey func(*T)) ([]T, []T, bool) {
	nextFrom := make([]T, len(from))
	copy(nextFrom, from)
	nextTo := make([]T, len(to))
	copy(nextTo, to)
	if src < 0 || src >= len(from) || dst < 0 || dst > len(to) {
		return nextFrom, nextTo, false
	}
	moved := nextFrom[src]
	nextFrom = append(nextFrom[:src], nextFrom[src+1:]...)
	if rekey != nil {
		rekey(&moved)
	}
	nextTo = append(nextTo, moved)
	copy(nextTo[dst+1:], nextTo[dst:len(nextTo)-1])
	nextTo[dst] = moved
	return nextFrom, nextTo, true
}

const (
	ListChallenges = "challenges"
	ListWorkouts   = "workouts"
	mealListPrefix = "meals:"
)

// MealList names the meal partition of day for use in a DropLocation.
func MealList(day model.Weekday) string {
	return mealListPrefix + string(day)
}

// DropLocation addresses a position in one of the reorderable lists:
// "challenges" (the active partition), "workouts" or "meals:<Day>".
type DropLocation struct {
	List  string `json:"list"`
	Index int    `json:"index"`
}

func mealDay(list string) (model.Weekday, bool) {
	day := model.Weekday(strings.TrimPrefix(list, mealListPrefix))
	for _, d := range model.Weekdays {
		if d == day {
			return day, true
		}
	}
	return "", false
}

// Reorder applies a drag from src to dst. A nil dst (dropped outside any
// list) or an out-of-range index leaves everything as it was and reports
// false. Only meals may move between lists.
func (s *Store) Reorder(src DropLocation, dst *DropLocation) (bool, error) {
	if dst == nil {
		return false, nil
	}
	if src.List != dst.List {
		from, okFrom := mealDay(src.List)
		to, okTo := mealDay(dst.List)
		if !okFrom || !okTo {
			return false, invalid("list", "cannot move from %q to %q", src.List, dst.List)
		}
		next, moved, ok := MoveAcross(s.meals[from], s.meals[to], src.Index, dst.Index, func(m *model.Meal) { m.Day = to })
		if ok {
			s.meals[from], s.meals[to] = next, moved
		}
		return ok, nil
	}

	switch src.List {
	case ListChallenges:
		var active, rest []model.Challenge
		for _, c := range s.challenges {
			if c.Status == model.StatusActive {
				active = append(active, c)
			} else {
				rest = append(rest, c)
			}
		}
		next, ok := Reorder(active, src.Index, dst.Index)
		if ok {
			s.challenges = append(rest, next...)
		}
		return ok, nil
	case ListWorkouts:
		next, ok := Reorder(s.workouts, src.Index, dst.Index)
		if ok {
			s.workouts = next
		}
		return ok, nil
	}
	day, found := mealDay(src.List)
	if !found {
		return false, invalid("list", "%q is not reorderable", src.List)
	}
	next, ok := Reorder(s.meals[day], src.Index, dst.Index)
	if ok {
		s.meals[day] = next
	}
	return ok, nil
}
