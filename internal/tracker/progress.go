package tracker

import (
	"math"
	"time"

	"github.com/saadjs/fitquest/internal/model"
)

const (
	InsightLowProtein = "Increase protein intake with foods like chicken or tofu."
	InsightHighCarbs  = "Consider reducing carbs for better balance."
	InsightOverGoal   = "Calorie intake exceeds goal; opt for lower-calorie meals."
)

type NutritionGoals struct {
	Calories int          `json:"calories"`
	Macros   model.Macros `json:"macros"`
	WaterMl  int          `json:"water_ml"`
}

func DefaultNutritionGoals() NutritionGoals {
	return NutritionGoals{
		Calories: 2000,
		Macros:   model.Macros{Protein: 100, Carbs: 200, Fat: 70},
		WaterMl:  2000,
	}
}

type MacroProgress struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

type NutritionSummary struct {
	MealCount              int            `json:"meal_count"`
	TotalCalories          int            `json:"total_calories"`
	TotalMacros            model.Macros   `json:"total_macros"`
	Goals                  NutritionGoals `json:"goals"`
	CalorieProgressPercent float64        `json:"calorie_progress_percent"`
	MacroProgressPercent   MacroProgress  `json:"macro_progress_percent"`
	Insights               []string       `json:"insights"`
}

type WorkoutProgress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

func ProgressPercent(c model.Challenge) float64 {
	return percent(float64(c.CompletedTasks), float64(c.TotalTasks))
}

// TimeLeftDays returns whole days until the challenge ends, floored at 0.
// ok is false when the challenge has no end date.
func TimeLeftDays(c model.Challenge, now time.Time) (days int, ok bool) {
	if c.EndDate == nil {
		return 0, false
	}
	left := c.EndDate.Sub(now)
	if left <= 0 {
		return 0, true
	}
	return int(math.Floor(left.Hours() / 24)), true
}

func Summarize(meals []model.Meal, goals NutritionGoals) NutritionSummary {
	out := NutritionSummary{MealCount: len(meals), Goals: goals, Insights: []string{}}
	for _, m := range meals {
		out.TotalCalories += m.Calories
		out.TotalMacros = out.TotalMacros.Add(m.Macros)
	}
	out.CalorieProgressPercent = percent(float64(out.TotalCalories), float64(goals.Calories))
	out.MacroProgressPercent = MacroProgress{
		Protein: percent(float64(out.TotalMacros.Protein), float64(goals.Macros.Protein)),
		Carbs:   percent(float64(out.TotalMacros.Carbs), float64(goals.Macros.Carbs)),
		Fat:     percent(float64(out.TotalMacros.Fat), float64(goals.Macros.Fat)),
	}
	out.Insights = Insights(out.TotalCalories, out.TotalMacros, goals)
	return out
}

// Insights compares totals against goals. Order is fixed: protein, carbs, calories.
func Insights(calories int, macros model.Macros, goals NutritionGoals) []string {
	insights := []string{}
	if goals.Macros.Protein > 0 && float64(macros.Protein)/float64(goals.Macros.Protein) < 0.8 {
		insights = append(insights, InsightLowProtein)
	}
	if goals.Macros.Carbs > 0 && float64(macros.Carbs)/float64(goals.Macros.Carbs) > 1.2 {
		insights = append(insights, InsightHighCarbs)
	}
	if calories > goals.Calories {
		insights = append(insights, InsightOverGoal)
	}
	return insights
}

func ComputeWorkoutProgress(active, completed int) WorkoutProgress {
	total := active + completed
	return WorkoutProgress{Completed: completed, Total: total, Percent: percent(float64(completed), float64(total))}
}
