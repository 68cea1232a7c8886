package model

import "time"

type ChallengeType string

const (
	ChallengeStrength    ChallengeType = "Strength"
	ChallengeEndurance   ChallengeType = "Endurance"
	ChallengeFlexibility ChallengeType = "Flexibility"
	ChallengeHybrid      ChallengeType = "Hybrid"
)

var ChallengeTypes = []ChallengeType{ChallengeStrength, ChallengeEndurance, ChallengeFlexibility, ChallengeHybrid}

type Difficulty string

const (
	DifficultyEasy    Difficulty = "Easy"
	DifficultyMedium  Difficulty = "Medium"
	DifficultyHard    Difficulty = "Hard"
	DifficultyExtreme Difficulty = "Extreme"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExtreme}

type Tier string

const (
	TierBronze   Tier = "Bronze"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

var Tiers = []Tier{TierBronze, TierSilver, TierGold, TierPlatinum}

type ChallengeStatus string

const (
	StatusAvailable ChallengeStatus = "available"
	StatusActive    ChallengeStatus = "active"
	StatusCompleted ChallengeStatus = "completed"
)

// Rank orders statuses along the only allowed direction of travel.
func (s ChallengeStatus) Rank() int {
	switch s {
	case StatusAvailable:
		return 0
	case StatusActive:
		return 1
	case StatusCompleted:
		return 2
	default:
		return -1
	}
}

type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

type Dietary string

const (
	DietaryNone       Dietary = "None"
	DietaryVegetarian Dietary = "Vegetarian"
	DietaryVegan      Dietary = "Vegan"
	DietaryKeto       Dietary = "Keto"
	DietaryGlutenFree Dietary = "Gluten-Free"
)

var DietaryTags = []Dietary{DietaryNone, DietaryVegetarian, DietaryVegan, DietaryKeto, DietaryGlutenFree}

type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists days in the order meal logs are rendered and exported.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

type WorkoutType string

const (
	WorkoutCardio      WorkoutType = "Cardio"
	WorkoutStrength    WorkoutType = "Strength"
	WorkoutFlexibility WorkoutType = "Flexibility"
)

var WorkoutTypes = []WorkoutType{WorkoutCardio, WorkoutStrength, WorkoutFlexibility}

type Intensity string

const (
	IntensityLow    Intensity = "Low"
	IntensityMedium Intensity = "Medium"
	IntensityHigh   Intensity = "High"
)

var Intensities = []Intensity{IntensityLow, IntensityMedium, IntensityHigh}

type Challenge struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           ChallengeType   `json:"type"`
	Difficulty     Difficulty      `json:"difficulty"`
	Tier           Tier            `json:"tier"`
	TotalTasks     int             `json:"total_tasks"`
	CompletedTasks int             `json:"completed_tasks"`
	Status         ChallengeStatus `json:"status"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	Creator        string          `json:"creator"`
	Reward         string          `json:"reward"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
}

type Macros struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

func (m Macros) Add(o Macros) Macros {
	return Macros{Protein: m.Protein + o.Protein, Carbs: m.Carbs + o.Carbs, Fat: m.Fat + o.Fat}
}

type Meal struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	MealType   MealType `json:"meal_type"`
	Calories   int      `json:"calories"`
	Macros     Macros   `json:"macros"`
	Dietary    Dietary  `json:"dietary"`
	Day        Weekday  `json:"day"`
	Time       string   `json:"time"`
	LoggedDate string   `json:"logged_date"`
}

type Workout struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Day           Weekday     `json:"day"`
	Time          string      `json:"time"`
	Duration      string      `json:"duration"`
	Type          WorkoutType `json:"type"`
	Intensity     Intensity   `json:"intensity"`
	CompletedDate string      `json:"completed_date,omitempty"`
}

type LeaderboardEntry struct {
	ID                  string   `json:"id"`
	User                string   `json:"user"`
	Points              int      `json:"points"`
	Badges              []string `json:"badges,omitempty"`
	CompletedChallenges int      `json:"completed_challenges"`
	Streak              int      `json:"streak"`
	Rank                int      `json:"rank"`
}

// Suggestion is a catalog item that can be turned into a meal or a workout.
type Suggestion struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	MealType  MealType    `json:"meal_type,omitempty"`
	Calories  int         `json:"calories,omitempty"`
	Macros    Macros      `json:"macros"`
	Dietary   Dietary     `json:"dietary,omitempty"`
	Workout   WorkoutType `json:"workout_type,omitempty"`
	Intensity Intensity   `json:"intensity,omitempty"`
	Duration  string      `json:"duration,omitempty"`
}
