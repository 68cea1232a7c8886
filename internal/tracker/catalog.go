package tracker

import (
	"time"

	"github.com/saadjs/fitquest/internal/model"
)

var recipes = []model.Suggestion{
	{ID: "r1", Name: "Keto Avocado Bowl", MealType: model.MealLunch, Calories: 400, Macros: model.Macros{Protein: 15, Carbs: 10, Fat: 30}, Dietary: model.DietaryKeto},
	{ID: "r2", Name: "Vegan Buddha Bowl", MealType: model.MealDinner, Calories: 350, Macros: model.Macros{Protein: 12, Carbs: 45, Fat: 10}, Dietary: model.DietaryVegan},
	{ID: "r3", Name: "Protein Smoothie", MealType: model.MealSnack, Calories: 250, Macros: model.Macros{Protein: 20, Carbs: 30, Fat: 5}, Dietary: model.DietaryVegetarian},
}

var workoutSuggestions = []model.Suggestion{
	{ID: "s1", Name: "HIIT Sprint", Workout: model.WorkoutCardio, Intensity: model.IntensityHigh, Duration: "20 min"},
	{ID: "s2", Name: "Core Blast", Workout: model.WorkoutStrength, Intensity: model.IntensityMedium, Duration: "30 min"},
	{ID: "s3", Name: "Stretching", Workout: model.WorkoutFlexibility, Intensity: model.IntensityLow, Duration: "15 min"},
}

// Quotes rotate on the nutrition screen.
var Quotes = []string{
	"Fuel your body, feed your soul!",
	"Eat well, live well!",
	"Nutrition is the foundation of fitness.",
	"Your body deserves the best fuel.",
}

var DailyQuests = []string{
	"Sprint 1km in 4 minutes!",
	"Complete 75 burpees in 6 minutes!",
	"Hold a plank for 4 minutes!",
	"Do 50 pull-ups in 10 minutes!",
}

// ArenaUpdates is the pool the live feed simulation draws from.
var ArenaUpdates = []string{
	"CyberSmith climbed to #1!",
	"NeonBlaze earned 200 points!",
	"You gained a new badge!",
	"QuantumRiser completed a challenge!",
	"PulseViper joined the arena!",
}

func Recipes(dietary string) []model.Suggestion {
	out := make([]model.Suggestion, 0, len(recipes))
	for _, r := range recipes {
		if matches(dietary, string(r.Dietary)) {
			out = append(out, r)
		}
	}
	return out
}

func Recipe(id string) (model.Suggestion, bool) {
	for _, r := range recipes {
		if r.ID == id {
			return r, true
		}
	}
	return model.Suggestion{}, false
}

func WorkoutSuggestions() []model.Suggestion {
	return append([]model.Suggestion(nil), workoutSuggestions...)
}

func WorkoutSuggestion(id string) (model.Suggestion, bool) {
	for _, s := range workoutSuggestions {
		if s.ID == id {
			return s, true
		}
	}
	return model.Suggestion{}, false
}

// SeedState is the content of a freshly initialized tracker.
func SeedState(now time.Time) State {
	week := now.AddDate(0, 0, 7)
	month := now.AddDate(0, 0, 30)
	return State{
		Challenges: []model.Challenge{
			{
				ID: "1", Name: "100 Push-Up Blitz", Type: model.ChallengeStrength, Difficulty: model.DifficultyHard,
				Tier: model.TierGold, TotalTasks: 100, CompletedTasks: 50, Status: model.StatusActive,
				EndDate: &week, Creator: "System", Reward: RewardFor(model.TierGold, 100),
			},
			{
				ID: "2", Name: "Marathon Endurance", Type: model.ChallengeEndurance, Difficulty: model.DifficultyExtreme,
				Tier: model.TierPlatinum, TotalTasks: 42, Status: model.StatusAvailable,
				EndDate: &month, Creator: "System", Reward: RewardFor(model.TierPlatinum, 42),
			},
		},
		Meals: map[model.Weekday][]model.Meal{},
		Workouts: []model.Workout{
			{ID: "1", Title: "Leg Day", Day: model.Monday, Time: "10:00", Duration: "45 min", Type: model.WorkoutStrength, Intensity: model.IntensityHigh},
			{ID: "2", Title: "Upper Body", Day: model.Tuesday, Time: "15:00", Duration: "60 min", Type: model.WorkoutStrength, Intensity: model.IntensityMedium},
			{ID: "3", Title: "Cardio Blast", Day: model.Wednesday, Time: "07:00", Duration: "30 min", Type: model.WorkoutCardio, Intensity: model.IntensityHigh},
			{ID: "4", Title: "Yoga Flow", Day: model.Thursday, Time: "18:00", Duration: "40 min", Type: model.WorkoutFlexibility, Intensity: model.IntensityLow},
		},
		Leaderboard: []model.LeaderboardEntry{
			{ID: "l1", User: "CyberSmith", Points: 1500, Badges: []string{BadgeChallengeMaster, BadgeSevenDayFire}, CompletedChallenges: 10, Streak: 12},
			{ID: "l2", User: "NeonBlaze", Points: 1200, Badges: []string{BadgePointLegend}, CompletedChallenges: 8, Streak: 5},
			{ID: "l3", User: "You", Points: 800, Badges: []string{BadgeChallengeMaster}, CompletedChallenges: 3, Streak: 2},
			{ID: "l4", User: "QuantumRiser", Points: 600, Badges: []string{BadgeSevenDayFire}, CompletedChallenges: 5, Streak: 3},
			{ID: "l5", User: "PulseViper", Points: 400, CompletedChallenges: 2, Streak: 1},
		},
		Feed: append([]string(nil), ArenaUpdates...),
		Heatmap: [][]int{
			{4, 6, 3, 9, 1, 5, 7},
			{2, 7, 5, 4, 8, 3, 6},
			{9, 3, 6, 2, 5, 7, 4},
		},
	}
}

// EmptyHeatmap returns weeks rows of seven zeroed days.
func EmptyHeatmap(weeks int) [][]int {
	grid := make([][]int, weeks)
	for i := range grid {
		grid[i] = make([]int, 7)
	}
	return grid
}
