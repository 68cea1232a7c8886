package tracker

import (
	"fmt"
	"strings"

	"github.com/saadjs/fitquest/internal/model"
)

type WorkoutInput struct {
	Title     string
	Day       model.Weekday
	Time      string
	Duration  string
	Type      model.WorkoutType
	Intensity model.Intensity
}

func (in *WorkoutInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return invalid("title", "is required")
	}
	if err := oneOf("day", in.Day, model.Weekdays); err != nil {
		return err
	}
	if !validClock(in.Time) {
		return invalid("time", "%q is not HH:MM", in.Time)
	}
	in.Duration = strings.TrimSpace(in.Duration)
	if in.Duration == "" {
		return invalid("duration", "is required")
	}
	if err := oneOf("type", in.Type, model.WorkoutTypes); err != nil {
		return err
	}
	return oneOf("intensity", in.Intensity, model.Intensities)
}

func (s *Store) AddWorkout(in WorkoutInput) (model.Workout, error) {
	if err := in.normalize(); err != nil {
		return model.Workout{}, err
	}
	w := model.Workout{
		ID:        s.newID(),
		Title:     in.Title,
		Day:       in.Day,
		Time:      in.Time,
		Duration:  in.Duration,
		Type:      in.Type,
		Intensity: in.Intensity,
	}
	s.workouts = append(s.workouts, w)
	return w, nil
}

// AddWorkoutSuggestion schedules a catalog workout on day at hhmm.
func (s *Store) AddWorkoutSuggestion(id string, day model.Weekday, hhmm string) (model.Workout, error) {
	sg, ok := WorkoutSuggestion(id)
	if !ok {
		return model.Workout{}, notFound("workout suggestion", id)
	}
	return s.AddWorkout(WorkoutInput{
		Title:     sg.Name,
		Day:       day,
		Time:      hhmm,
		Duration:  sg.Duration,
		Type:      sg.Workout,
		Intensity: sg.Intensity,
	})
}

func (s *Store) workoutIndex(id string) int {
	for i := range s.workouts {
		if s.workouts[i].ID == id {
			return i
		}
	}
	return -1
}

// CompleteWorkout moves an active workout to the history, stamped with
// today's date.
func (s *Store) CompleteWorkout(id string) (model.Workout, error) {
	idx := s.workoutIndex(id)
	if idx < 0 {
		for _, w := range s.completedWorkouts {
			if w.ID == id {
				return w, nil
			}
		}
		return model.Workout{}, notFound("workout", id)
	}
	w := s.workouts[idx]
	w.CompletedDate = DateKey(s.today())
	s.workouts = append(s.workouts[:idx], s.workouts[idx+1:]...)
	s.completedWorkouts = append(s.completedWorkouts, w)
	s.PushFeed(fmt.Sprintf("%s finished %s", s.user, w.Title))
	return w, nil
}

// RemoveWorkout deletes an active workout. Unknown ids are ignored.
func (s *Store) RemoveWorkout(id string) bool {
	idx := s.workoutIndex(id)
	if idx < 0 {
		return false
	}
	s.workouts = append(s.workouts[:idx], s.workouts[idx+1:]...)
	return true
}

// Workouts lists active workouts of the given type ("" or All for every type).
func (s *Store) Workouts(typ string) []model.Workout {
	out := make([]model.Workout, 0, len(s.workouts))
	for _, w := range s.workouts {
		if matches(typ, string(w.Type)) {
			out = append(out, w)
		}
	}
	return out
}

// History lists completed workouts, optionally only those finished on date.
func (s *Store) History(date string) []model.Workout {
	out := make([]model.Workout, 0, len(s.completedWorkouts))
	for _, w := range s.completedWorkouts {
		if date == "" || w.CompletedDate == date {
			out = append(out, w)
		}
	}
	return out
}

func (s *Store) WorkoutProgress() WorkoutProgress {
	return ComputeWorkoutProgress(len(s.workouts), len(s.completedWorkouts))
}
