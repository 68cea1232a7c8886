package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saadjs/fitquest/internal/model"
	"github.com/saadjs/fitquest/internal/tracker"
)

type challengeRequest struct {
	Name         string              `json:"name"`
	Type         model.ChallengeType `json:"type"`
	Difficulty   model.Difficulty    `json:"difficulty"`
	Tier         model.Tier          `json:"tier"`
	TotalTasks   int                 `json:"total_tasks"`
	DurationDays int                 `json:"duration_days"`
}

type mealRequest struct {
	Name       string         `json:"name"`
	MealType   model.MealType `json:"meal_type"`
	Calories   int            `json:"calories"`
	Macros     model.Macros   `json:"macros"`
	Dietary    model.Dietary  `json:"dietary"`
	Day        model.Weekday  `json:"day"`
	Time       string         `json:"time"`
	LoggedDate string         `json:"logged_date"`
	RecipeID   string         `json:"recipe_id"`
}

type workoutRequest struct {
	Title        string            `json:"title"`
	Day          model.Weekday     `json:"day"`
	Time         string            `json:"time"`
	Duration     string            `json:"duration"`
	Type         model.WorkoutType `json:"type"`
	Intensity    model.Intensity   `json:"intensity"`
	SuggestionID string            `json:"suggestion_id"`
}

type reorderRequest struct {
	Source      tracker.DropLocation  `json:"source"`
	Destination *tracker.DropLocation `json:"destination"`
}

type dashboard struct {
	Points          int                      `json:"points"`
	Rank            int                      `json:"rank"`
	Streaks         map[tracker.Domain]int   `json:"streaks"`
	Badges          []string                 `json:"badges"`
	ActiveChallenge []model.Challenge        `json:"active_challenges"`
	Nutrition       tracker.NutritionSummary `json:"nutrition"`
	Workouts        tracker.WorkoutProgress  `json:"workouts"`
	WaterMl         int                      `json:"water_ml"`
	Heatmap         [][]int                  `json:"heatmap"`
	Quote           string                   `json:"quote,omitempty"`
}

func (s *Server) listChallenges(c *gin.Context) {
	f := tracker.ChallengeFilter{
		Type:       c.Query("type"),
		Difficulty: c.Query("difficulty"),
		Status:     c.Query("status"),
		Search:     c.Query("search"),
	}
	s.read(c, func(st *tracker.Store) any { return st.Challenges(f) })
}

func (s *Server) getChallenge(c *gin.Context) {
	id := c.Param("id")
	var out model.Challenge
	err := s.Loop.Do(c.Request.Context(), func(st *tracker.Store) error {
		var err error
		out, err = st.Challenge(id)
		return err
	})
	if err != nil {
		Fail(c, s.logger(), err)
		return
	}
	Success(c, out)
}

func (s *Server) createChallenge(c *gin.Context) {
	var req challengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	s.mutate(c, "create_challenge", http.StatusCreated, func(st *tracker.Store) (any, error) {
		return st.CreateChallenge(tracker.ChallengeInput{
			Name:         req.Name,
			Type:         req.Type,
			Difficulty:   req.Difficulty,
			Tier:         req.Tier,
			TotalTasks:   req.TotalTasks,
			DurationDays: req.DurationDays,
		})
	})
}

func (s *Server) joinChallenge(c *gin.Context) {
	id := c.Param("id")
	s.mutate(c, "join_challenge", http.StatusOK, func(st *tracker.Store) (any, error) {
		return st.JoinChallenge(id)
	})
}

func (s *Server) completeTask(c *gin.Context) {
	id := c.Param("id")
	s.mutate(c, "complete_task", http.StatusOK, func(st *tracker.Store) (any, error) {
		return st.CompleteTask(id)
	})
}

func (s *Server) removeChallenge(c *gin.Context) {
	id := c.Param("id")
	s.mutate(c, "remove_challenge", http.StatusOK, func(st *tracker.Store) (any, error) {
		return gin.H{"removed": st.RemoveChallenge(id)}, nil
	})
}

func mealFilter(c *gin.Context) tracker.MealFilter {
	return tracker.MealFilter{
		MealType: c.Query("meal_type"),
		Dietary:  c.Query("dietary"),
		Calories: c.Query("calories"),
		Time:     c.Query("time"),
		Search:   c.Query("search"),
	}
}

func (s *Server) listMeals(c *gin.Context) {
	f := mealFilter(c)
	day := model.Weekday(c.Query("day"))
	s.read(c, func(st *tracker.Store) any {
		if day != "" {
			return st.Meals(day, f)
		}
		out := map[model.Weekday][]model.Meal{}
		for _, d := range model.Weekdays {
			out[d] = st.Meals(d, f)
		}
		return out
	})
}

func (s *Server) addMeal(c *gin.Context) {
	var req mealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	s.mutate(c, "add_meal", http.StatusCreated, func(st *tracker.Store) (any, error) {
		if req.RecipeID != "" {
			return st.AddSuggestion(req.RecipeID, req.Day)
		}
		return st.AddMeal(tracker.MealInput{
			Name:       req.Name,
			MealType:   req.MealType,
			Calories:   req.Calories,
			Macros:     req.Macros,
			Dietary:    req.Dietary,
			Day:        req.Day,
			Time:       req.Time,
			LoggedDate: req.LoggedDate,
		})
	})
}

func (s *Server) removeMeal(c *gin.Context) {
	id := c.Param("id")
	s.mutate(c, "remove_meal", http.StatusOK, func(st *tracker.Store) (any, error) {
		return gin.H{"removed": st.RemoveMeal(id)}, nil
	})
}

func (s *Server) exportMeals(c *gin.Context) {
	var out string
	err := s.Loop.Do(c.Request.Context(), func(st *tracker.Store) error {
		out = st.ExportLog()
		return nil
	})
	if err != nil {
		Fail(c, s.logger(), err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="meal-log.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
}

func (s *Server) nutrition(c *gin.Context) {
	day := model.Weekday(c.Query("day"))
	s.read(c, func(st *tracker.Store) any {
		return gin.H{
			"summary":       st.Nutrition(day),
			"water_ml":      st.Water(),
			"water_percent": st.WaterProgressPercent(),
			"streak":        st.Streak(tracker.DomainNutrition),
		}
	})
}

func (s *Server) addWater(c *gin.Context) {
	var req struct {
		Ml int `json:"ml"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	s.mutate(c, "add_water", http.StatusOK, func(st *tracker.Store) (any, error) {
		ml, err := st.AddWater(req.Ml)
		return gin.H{"water_ml": ml, "water_percent": st.WaterProgressPercent()}, err
	})
}

func (s *Server) listRecipes(c *gin.Context) {
	Success(c, tracker.Recipes(c.Query("dietary")))
}

func (s *Server) listWorkouts(c *gin.Context) {
	typ := c.Query("type")
	s.read(c, func(st *tracker.Store) any {
		return gin.H{"workouts": st.Workouts(typ), "progress": st.WorkoutProgress()}
	})
}

func (s *Server) addWorkout(c *gin.Context) {
	var req workoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	s.mutate(c, "add_workout", http.StatusCreated, func(st *tracker.Store) (any, error) {
		if req.SuggestionID != "" {
			return st.AddWorkoutSuggestion(req.SuggestionID, req.Day, req.Time)
		}
		return st.AddWorkout(tracker.WorkoutInput{
			Title:     req.Title,
			Day:       req.Day,
			Time:      req.Time,
			Duration:  req.Duration,
			Type:      req.Type,
			Intensity: req.Intensity,
		})
	})
}

func (s *Server) completeWorkout(c *gin.Context) {
	id := c.Param("id")
	s.mutate(c, "complete_workout", http.StatusOK, func(st *tracker.Store) (any, error) {
		return st.CompleteWorkout(id)
	})
}

func (s *Server) workoutHistory(c *gin.Context) {
	date := c.Query("date")
	s.read(c, func(st *tracker.Store) any { return st.History(date) })
}

func (s *Server) reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	s.mutate(c, "reorder", http.StatusOK, func(st *tracker.Store) (any, error) {
		moved, err := st.Reorder(req.Source, req.Destination)
		return gin.H{"moved": moved}, err
	})
}

func (s *Server) leaderboard(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	q := tracker.LeaderboardQuery{
		SortBy:   c.DefaultQuery("sort", tracker.SortPoints),
		Desc:     !strings.EqualFold(c.Query("order"), "asc"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: s.PageSize,
	}
	s.read(c, func(st *tracker.Store) any { return st.Leaderboard(q) })
}

func (s *Server) badges(c *gin.Context) {
	s.read(c, func(st *tracker.Store) any { return st.Badges() })
}

func (s *Server) feed(c *gin.Context) {
	s.read(c, func(st *tracker.Store) any { return st.Feed() })
}

func (s *Server) dashboard(c *gin.Context) {
	quote := ""
	if s.Quotes != nil {
		quote = s.Quotes.Current()
	}
	s.read(c, func(st *tracker.Store) any {
		entry, _ := st.Entry(st.User())
		return dashboard{
			Points: entry.Points,
			Rank:   entry.Rank,
			Streaks: map[tracker.Domain]int{
				tracker.DomainChallenges: st.Streak(tracker.DomainChallenges),
				tracker.DomainNutrition:  st.Streak(tracker.DomainNutrition),
			},
			Badges:          st.Badges(),
			ActiveChallenge: st.ActiveChallenges(),
			Nutrition:       st.Nutrition(""),
			Workouts:        st.WorkoutProgress(),
			WaterMl:         st.Water(),
			Heatmap:         st.Heatmap(),
			Quote:           quote,
		}
	})
}
