package tracker

import (
	"strings"
	"time"

	"github.com/saadjs/fitquest/internal/model"
)

type MealInput struct {
	Name       string
	MealType   model.MealType
	Calories   int
	Macros     model.Macros
	Dietary    model.Dietary
	Day        model.Weekday
	Time       string
	LoggedDate string
}

func validClock(hhmm string) bool {
	_, err := time.Parse("15:04", hhmm)
	return err == nil && len(hhmm) == 5
}

func (in *MealInput) normalize(today time.Time) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("name", "is required")
	}
	if strings.ContainsAny(in.Name, ",\"\r\n") {
		return invalid("name", "must not contain commas, quotes or line breaks")
	}
	if err := oneOf("meal_type", in.MealType, model.MealTypes); err != nil {
		return err
	}
	if in.Calories < 0 {
		return invalid("calories", "must be >= 0")
	}
	if in.Macros.Protein < 0 || in.Macros.Carbs < 0 || in.Macros.Fat < 0 {
		return invalid("macros", "must be >= 0")
	}
	if in.Dietary == "" {
		in.Dietary = model.DietaryNone
	}
	if err := oneOf("dietary", in.Dietary, model.DietaryTags); err != nil {
		return err
	}
	if in.Day == "" {
		in.Day = model.WeekdayOf(today)
	}
	if err := oneOf("day", in.Day, model.Weekdays); err != nil {
		return err
	}
	if !validClock(in.Time) {
		return invalid("time", "%q is not HH:MM", in.Time)
	}
	if in.LoggedDate == "" {
		in.LoggedDate = DateKey(today)
	}
	if _, err := time.Parse(dateLayout, in.LoggedDate); err != nil {
		return invalid("logged_date", "%q is not YYYY-MM-DD", in.LoggedDate)
	}
	return nil
}

// AddMeal logs a meal on its day and counts as nutrition activity for today.
func (s *Store) AddMeal(in MealInput) (model.Meal, error) {
	if err := in.normalize(s.today()); err != nil {
		return model.Meal{}, err
	}
	m := model.Meal{
		ID:         s.newID(),
		Name:       in.Name,
		MealType:   in.MealType,
		Calories:   in.Calories,
		Macros:     in.Macros,
		Dietary:    in.Dietary,
		Day:        in.Day,
		Time:       in.Time,
		LoggedDate: in.LoggedDate,
	}
	s.meals[m.Day] = append(s.meals[m.Day], m)
	s.touch(DomainNutrition)
	s.refresh()
	return m, nil
}

// AddSuggestion logs a catalog recipe as a noon meal on day.
func (s *Store) AddSuggestion(id string, day model.Weekday) (model.Meal, error) {
	r, ok := Recipe(id)
	if !ok {
		return model.Meal{}, notFound("recipe", id)
	}
	return s.AddMeal(MealInput{
		Name:     r.Name,
		MealType: r.MealType,
		Calories: r.Calories,
		Macros:   r.Macros,
		Dietary:  r.Dietary,
		Day:      day,
		Time:     "12:00",
	})
}

func (s *Store) mealIndex(id string) (model.Weekday, int) {
	for _, day := range model.Weekdays {
		for i := range s.meals[day] {
			if s.meals[day][i].ID == id {
				return day, i
			}
		}
	}
	return "", -1
}

func (s *Store) Meal(id string) (model.Meal, error) {
	day, idx := s.mealIndex(id)
	if idx < 0 {
		return model.Meal{}, notFound("meal", id)
	}
	return s.meals[day][idx], nil
}

// RemoveMeal deletes a meal from whichever day holds it. Unknown ids are ignored.
func (s *Store) RemoveMeal(id string) bool {
	day, idx := s.mealIndex(id)
	if idx < 0 {
		return false
	}
	s.meals[day] = append(s.meals[day][:idx], s.meals[day][idx+1:]...)
	return true
}

// MoveMeal relocates a meal to position index of day to. The meal's Day
// follows its new partition.
func (s *Store) MoveMeal(id string, to model.Weekday, index int) (model.Meal, error) {
	if err := oneOf("day", to, model.Weekdays); err != nil {
		return model.Meal{}, err
	}
	from, idx := s.mealIndex(id)
	if idx < 0 {
		return model.Meal{}, notFound("meal", id)
	}
	if from == to {
		next, ok := Reorder(s.meals[from], idx, index)
		if !ok {
			return model.Meal{}, invalid("index", "%d is out of range", index)
		}
		s.meals[from] = next
		return s.Meal(id)
	}
	src, dst, ok := MoveAcross(s.meals[from], s.meals[to], idx, index, func(m *model.Meal) { m.Day = to })
	if !ok {
		return model.Meal{}, invalid("index", "%d is out of range", index)
	}
	s.meals[from], s.meals[to] = src, dst
	return s.Meal(id)
}

// Meals returns the meals of one day that match f, in display order.
func (s *Store) Meals(day model.Weekday, f MealFilter) []model.Meal {
	out := make([]model.Meal, 0, len(s.meals[day]))
	for _, m := range s.meals[day] {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// AllMeals returns every meal, Monday first.
func (s *Store) AllMeals() []model.Meal {
	out := make([]model.Meal, 0, s.mealCount())
	for _, day := range model.Weekdays {
		out = append(out, s.meals[day]...)
	}
	return out
}

func (s *Store) mealCount() int {
	n := 0
	for _, meals := range s.meals {
		n += len(meals)
	}
	return n
}

// Nutrition summarizes one day, or the whole week when day is empty.
func (s *Store) Nutrition(day model.Weekday) NutritionSummary {
	if day == "" {
		return Summarize(s.AllMeals(), s.goals)
	}
	return Summarize(s.meals[day], s.goals)
}

// ExportLog renders every meal in the meal-log CSV layout.
func (s *Store) ExportLog() string {
	return ExportMealLog(s.AllMeals())
}

// ImportMeals validates every meal before adding any of them.
func (s *Store) ImportMeals(meals []model.Meal) ([]model.Meal, error) {
	inputs := make([]MealInput, len(meals))
	for i, m := range meals {
		in := MealInput{
			Name:       m.Name,
			MealType:   m.MealType,
			Calories:   m.Calories,
			Macros:     m.Macros,
			Dietary:    m.Dietary,
			Day:        m.Day,
			Time:       m.Time,
			LoggedDate: m.LoggedDate,
		}
		if err := in.normalize(s.today()); err != nil {
			return nil, err
		}
		inputs[i] = in
	}
	added := make([]model.Meal, 0, len(inputs))
	for _, in := range inputs {
		m, err := s.AddMeal(in)
		if err != nil {
			return added, err
		}
		added = append(added, m)
	}
	return added, nil
}

// AddWater adds ml to today's intake, capped at the daily goal.
func (s *Store) AddWater(ml int) (int, error) {
	if ml <= 0 {
		return s.waterMl, invalid("ml", "must be > 0")
	}
	s.waterMl += ml
	if s.goals.WaterMl > 0 && s.waterMl > s.goals.WaterMl {
		s.waterMl = s.goals.WaterMl
	}
	return s.waterMl, nil
}

func (s *Store) Water() int { return s.waterMl }

func (s *Store) WaterProgressPercent() float64 {
	return percent(float64(s.waterMl), float64(s.goals.WaterMl))
}

// ResetWater starts a new day of water tracking.
func (s *Store) ResetWater() {
	s.waterMl = 0
}
