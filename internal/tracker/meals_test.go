package tracker

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saadjs/fitquest/internal/model"
)

func TestAddMealDefaultsAndValidation(t *testing.T) {
	s, _ := newTestStore(t, State{})

	m, err := s.AddMeal(MealInput{Name: "Oats", MealType: model.MealBreakfast, Calories: 300, Time: "08:00"})
	require.NoError(t, err)
	assert.Equal(t, model.Monday, m.Day)
	assert.Equal(t, "2024-03-11", m.LoggedDate)
	assert.Equal(t, model.DietaryNone, m.Dietary)
	assert.Equal(t, 1, s.Streak(DomainNutrition))

	bad := []MealInput{
		{Name: "", MealType: model.MealLunch, Time: "12:00"},
		{Name: "Rice, beans", MealType: model.MealLunch, Time: "12:00"},
		{Name: "Soup", MealType: "Brunch", Time: "12:00"},
		{Name: "Soup", MealType: model.MealLunch, Calories: -1, Time: "12:00"},
		{Name: "Soup", MealType: model.MealLunch, Macros: model.Macros{Fat: -2}, Time: "12:00"},
		{Name: "Soup", MealType: model.MealLunch, Time: "noon"},
		{Name: "Soup", MealType: model.MealLunch, Time: "12:00", Day: "Someday"},
	}
	for _, in := range bad {
		_, err := s.AddMeal(in)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), "input %+v: got %v", in, err)
	}
	assert.Len(t, s.AllMeals(), 1)
}

func TestNutritionSummaryAgainstGoal(t *testing.T) {
	s, _ := newTestStore(t, State{})
	_, err := s.AddMeal(mealInput("Salad", 300, model.Tuesday))
	require.NoError(t, err)
	_, err = s.AddMeal(mealInput("Pasta", 450, model.Tuesday))
	require.NoError(t, err)

	sum := s.Nutrition(model.Tuesday)
	assert.Equal(t, 750, sum.TotalCalories)
	assert.InDelta(t, 37.5, sum.CalorieProgressPercent, 1e-9)
	assert.Equal(t, model.Macros{Protein: 40, Carbs: 60, Fat: 20}, sum.TotalMacros)
	assert.Equal(t, []string{InsightLowProtein}, sum.Insights)

	assert.Equal(t, 0, s.Nutrition(model.Friday).TotalCalories)
}

func TestInsightsOrder(t *testing.T) {
	goals := DefaultNutritionGoals()
	got := Insights(2500, model.Macros{Protein: 10, Carbs: 300}, goals)
	assert.Equal(t, []string{InsightLowProtein, InsightHighCarbs, InsightOverGoal}, got)
	assert.Empty(t, Insights(1800, model.Macros{Protein: 90, Carbs: 200}, goals))
}

func TestPercentGuardsZero(t *testing.T) {
	sum := Summarize(nil, NutritionGoals{})
	assert.Zero(t, sum.CalorieProgressPercent)
	assert.Zero(t, ProgressPercent(model.Challenge{}))
	assert.Zero(t, ComputeWorkoutProgress(0, 0).Percent)
}

func TestMoveMealAcrossDays(t *testing.T) {
	s, _ := newTestStore(t, State{})
	a, err := s.AddMeal(mealInput("A", 100, model.Monday))
	require.NoError(t, err)
	_, err = s.AddMeal(mealInput("B", 100, model.Wednesday))
	require.NoError(t, err)

	moved, err := s.MoveMeal(a.ID, model.Wednesday, 0)
	require.NoError(t, err)
	assert.Equal(t, model.Wednesday, moved.Day)
	assert.Empty(t, s.Meals(model.Monday, MealFilter{}))
	wed := s.Meals(model.Wednesday, MealFilter{})
	require.Len(t, wed, 2)
	assert.Equal(t, "A", wed[0].Name)

	_, err = s.MoveMeal(a.ID, model.Friday, 5)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, s.Meals(model.Wednesday, MealFilter{}), 2)
}

func TestMealFilterBands(t *testing.T) {
	s, _ := newTestStore(t, State{})
	for _, in := range []MealInput{
		{Name: "Toast", MealType: model.MealBreakfast, Calories: 250, Day: model.Monday, Time: "07:30"},
		{Name: "Burrito", MealType: model.MealLunch, Calories: 500, Day: model.Monday, Time: "12:00", Dietary: model.DietaryVegan},
		{Name: "Steak", MealType: model.MealDinner, Calories: 800, Day: model.Monday, Time: "19:15", Dietary: model.DietaryKeto},
	} {
		_, err := s.AddMeal(in)
		require.NoError(t, err)
	}

	names := func(f MealFilter) []string {
		var out []string
		for _, m := range s.Meals(model.Monday, f) {
			out = append(out, m.Name)
		}
		return out
	}
	assert.Equal(t, []string{"Toast"}, names(MealFilter{Calories: CalorieLow}))
	assert.Equal(t, []string{"Burrito"}, names(MealFilter{Calories: CalorieMedium, Time: TimeAfternoon}))
	assert.Equal(t, []string{"Steak"}, names(MealFilter{Dietary: "keto", Time: TimeEvening}))
	assert.Equal(t, []string{"Toast", "Burrito", "Steak"}, names(MealFilter{MealType: All}))
}

func TestExportLogRoundTrip(t *testing.T) {
	s, _ := newTestStore(t, State{})
	_, err := s.AddMeal(mealInput("Soup", 200, model.Friday))
	require.NoError(t, err)
	_, err = s.AddMeal(MealInput{Name: "Eggs", MealType: model.MealBreakfast, Calories: 310, Macros: model.Macros{Protein: 25, Fat: 20}, Dietary: model.DietaryVegetarian, Day: model.Monday, Time: "08:05"})
	require.NoError(t, err)

	out := s.ExportLog()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, MealLogHeader, lines[0])
	assert.Equal(t, "Eggs,Breakfast,310,25,0,20,Vegetarian,08:05,Monday,2024-03-11", lines[1])
	assert.False(t, strings.HasSuffix(out, "\n"))

	parsed, err := ParseMealLog(strings.NewReader(out))
	require.NoError(t, err)
	want := s.AllMeals()
	require.Len(t, parsed, len(want))
	for i := range want {
		want[i].ID = ""
		assert.Equal(t, want[i], parsed[i])
	}
}

func TestParseMealLogRejectsBadInput(t *testing.T) {
	_, err := ParseMealLog(strings.NewReader(""))
	assert.Error(t, err)
	_, err = ParseMealLog(strings.NewReader("Name,Calories\nx,1"))
	assert.Error(t, err)
	_, err = ParseMealLog(strings.NewReader(MealLogHeader + "\nSoup,Lunch,abc,1,1,1,None,12:00,Monday,2024-03-11"))
	assert.Error(t, err)
}

func TestImportMealsIsAllOrNothing(t *testing.T) {
	s, _ := newTestStore(t, State{})
	_, err := s.ImportMeals([]model.Meal{
		{Name: "Ok", MealType: model.MealSnack, Day: model.Monday, Time: "10:00"},
		{Name: "Bad", MealType: model.MealSnack, Day: model.Monday, Time: "25:00"},
	})
	require.Error(t, err)
	assert.Empty(t, s.AllMeals())
}

func TestAddSuggestion(t *testing.T) {
	s, _ := newTestStore(t, State{})
	m, err := s.AddSuggestion("r2", model.Sunday)
	require.NoError(t, err)
	assert.Equal(t, "Vegan Buddha Bowl", m.Name)
	assert.Equal(t, "12:00", m.Time)
	assert.Equal(t, model.Sunday, m.Day)

	_, err = s.AddSuggestion("nope", model.Sunday)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, Recipes("Keto"), 1)
}

func TestWaterIsCappedAtGoal(t *testing.T) {
	s, _ := newTestStore(t, State{})
	ml, err := s.AddWater(1500)
	require.NoError(t, err)
	assert.Equal(t, 1500, ml)
	assert.InDelta(t, 75.0, s.WaterProgressPercent(), 1e-9)

	ml, err = s.AddWater(1500)
	require.NoError(t, err)
	assert.Equal(t, 2000, ml)

	_, err = s.AddWater(0)
	assert.Error(t, err)
}

func TestTenMealsBadge(t *testing.T) {
	var unlocked []string
	s := New(Options{Notifier: NotifierFunc(func(b string) { unlocked = append(unlocked, b) })}, State{})
	for i := 0; i < 10; i++ {
		_, err := s.AddMeal(mealInput("Meal", 100, model.Monday))
		require.NoError(t, err)
	}
	assert.Contains(t, s.Badges(), BadgeTenMeals)
	assert.Equal(t, []string{BadgeTenMeals}, unlocked)
	assert.Equal(t, "You unlocked the 10 Meals badge!", s.Feed()[0])
}
