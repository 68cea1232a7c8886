package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saadjs/fitquest/internal/metrics"
	"github.com/saadjs/fitquest/internal/model"
	"github.com/saadjs/fitquest/internal/service"
	"github.com/saadjs/fitquest/internal/tracker"
)

var testNow = time.Date(2024, 3, 11, 9, 30, 0, 0, time.Local)

func init() { gin.SetMode(gin.TestMode) }

type fixture struct {
	router   *gin.Engine
	persists int
	syncs    int
	// persistErr is returned by every save when set.
	persistErr error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	seq := 0
	store := tracker.New(tracker.Options{
		Now: func() time.Time { return testNow },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	}, tracker.SeedState(testNow))

	loop := tracker.NewLoop(store)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	f := &fixture{}
	srv := &Server{
		Loop:    loop,
		Metrics: metrics.New(),
		Sync: func(*tracker.Store) error {
			f.syncs++
			return nil
		},
		Persist: func(*tracker.Store) error {
			f.persists++
			return f.persistErr
		},
	}
	f.router = srv.Router()
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var resp Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

// decode re-marshals the envelope data into out.
func decode(t *testing.T, resp Response, out any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec, resp := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Message)
}

func TestJoinAndCompleteChallenge(t *testing.T) {
	f := newFixture(t)

	rec, resp := f.do(t, http.MethodPost, "/api/challenges/2/join", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var c model.Challenge
	decode(t, resp, &c)
	assert.Equal(t, model.StatusActive, c.Status)

	rec, resp = f.do(t, http.MethodPost, "/api/challenges/2/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, resp, &c)
	assert.Equal(t, 1, c.CompletedTasks)
	assert.Equal(t, 2, f.persists)

	_, resp = f.do(t, http.MethodGet, "/api/challenges?status=active", nil)
	var active []model.Challenge
	decode(t, resp, &active)
	assert.Len(t, active, 2)
}

func TestChallengeErrors(t *testing.T) {
	f := newFixture(t)

	rec, resp := f.do(t, http.MethodPost, "/api/challenges/nope/join", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/challenges", map[string]any{"name": "", "total_tasks": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.persists)

	rec, resp = f.do(t, http.MethodPost, "/api/challenges", map[string]any{
		"name": "Plank Week", "type": "Endurance", "difficulty": "Easy",
		"tier": "Bronze", "total_tasks": 7, "duration_days": 7,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var c model.Challenge
	decode(t, resp, &c)
	assert.Equal(t, "id-1", c.ID)
	assert.Equal(t, "Bronze Badge + 350 Points", c.Reward)
}

func TestMealsNutritionAndExport(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/api/meals", map[string]any{
		"name": "Oats", "meal_type": "Breakfast", "calories": 300,
		"macros": map[string]int{"protein": 10, "carbs": 50, "fat": 5},
		"day":    "Monday", "time": "08:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = f.do(t, http.MethodPost, "/api/meals", map[string]any{"recipe_id": "r3", "day": "Tuesday"})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, resp := f.do(t, http.MethodGet, "/api/meals?day=Tuesday", nil)
	var meals []model.Meal
	decode(t, resp, &meals)
	require.Len(t, meals, 1)
	assert.Equal(t, "Protein Smoothie", meals[0].Name)

	_, resp = f.do(t, http.MethodGet, "/api/nutrition", nil)
	var got struct {
		Summary tracker.NutritionSummary `json:"summary"`
	}
	decode(t, resp, &got)
	assert.Equal(t, 550, got.Summary.TotalCalories)

	rec, _ = f.do(t, http.MethodGet, "/api/meals/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), tracker.MealLogHeader))
	assert.Contains(t, rec.Body.String(), "Oats")
}

func TestWaterIsCapped(t *testing.T) {
	f := newFixture(t)
	rec, resp := f.do(t, http.MethodPost, "/api/water", map[string]int{"ml": 5000})
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		WaterMl int `json:"water_ml"`
	}
	decode(t, resp, &got)
	assert.Equal(t, 2000, got.WaterMl)

	rec, _ = f.do(t, http.MethodPost, "/api/water", map[string]int{"ml": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkoutLifecycle(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/api/workouts/1/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, resp := f.do(t, http.MethodGet, "/api/workouts/history?date=2024-03-11", nil)
	var history []model.Workout
	decode(t, resp, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "Leg Day", history[0].Title)

	rec, _ = f.do(t, http.MethodPost, "/api/workouts", map[string]any{"suggestion_id": "s1", "day": "Friday", "time": "06:30"})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, resp = f.do(t, http.MethodGet, "/api/workouts?type=Cardio", nil)
	var list struct {
		Workouts []model.Workout         `json:"workouts"`
		Progress tracker.WorkoutProgress `json:"progress"`
	}
	decode(t, resp, &list)
	assert.Len(t, list.Workouts, 2)
}

func TestReorderAndLeaderboard(t *testing.T) {
	f := newFixture(t)

	rec, resp := f.do(t, http.MethodPost, "/api/reorder", map[string]any{
		"source":      map[string]any{"list": "workouts", "index": 0},
		"destination": map[string]any{"list": "workouts", "index": 3},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var moved struct {
		Moved bool `json:"moved"`
	}
	decode(t, resp, &moved)
	assert.True(t, moved.Moved)

	rec, _ = f.do(t, http.MethodPost, "/api/reorder", map[string]any{
		"source":      map[string]any{"list": "workouts", "index": 0},
		"destination": map[string]any{"list": "challenges", "index": 0},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, resp = f.do(t, http.MethodGet, "/api/leaderboard?page=1", nil)
	var page tracker.LeaderboardPage
	decode(t, resp, &page)
	require.NotEmpty(t, page.Entries)
	assert.Equal(t, "CyberSmith", page.Entries[0].User)
	assert.Equal(t, 5, page.Total)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/challenges/2/join", nil)

	rec, _ := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fitquest_commands_total")
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimiter(1, 2), func(c *gin.Context) { Success(c, nil) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func (f *fixture) points(t *testing.T) int {
	t.Helper()
	_, resp := f.do(t, http.MethodGet, "/api/dashboard", nil)
	var d dashboard
	decode(t, resp, &d)
	return d.Points
}

func (f *fixture) challengeNames(t *testing.T) []string {
	t.Helper()
	_, resp := f.do(t, http.MethodGet, "/api/challenges", nil)
	var list []model.Challenge
	decode(t, resp, &list)
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	return names
}

func TestFailedSaveUndoesMutation(t *testing.T) {
	f := newFixture(t)
	f.persistErr = errors.New("disk full")
	body := map[string]any{
		"name": "Plank", "type": "Endurance", "difficulty": "Easy",
		"tier": "Bronze", "total_tasks": 3, "duration_days": 3,
	}

	for i := 0; i < 2; i++ {
		rec, _ := f.do(t, http.MethodPost, "/api/challenges", body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	}
	assert.Equal(t, 2, f.persists)
	assert.Equal(t, 800, f.points(t))
	assert.NotContains(t, f.challengeNames(t), "Plank")

	rec, _ := f.do(t, http.MethodPost, "/api/meals", map[string]any{
		"name": "Oats", "meal_type": "Breakfast", "calories": 300, "day": "Monday", "time": "08:00",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	_, resp := f.do(t, http.MethodGet, "/api/meals?day=Monday", nil)
	var meals []model.Meal
	decode(t, resp, &meals)
	assert.Empty(t, meals)

	f.persistErr = nil
	rec, _ = f.do(t, http.MethodPost, "/api/challenges", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1000, f.points(t))
	assert.Contains(t, f.challengeNames(t), "Plank")
}

func TestStaleSaveIsConflict(t *testing.T) {
	f := newFixture(t)
	f.persistErr = fmt.Errorf("save: %w", service.ErrStaleSnapshot)

	rec, resp := f.do(t, http.MethodPost, "/api/challenges/2/join", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, 800, f.points(t))

	_, resp = f.do(t, http.MethodGet, "/api/challenges?status=active", nil)
	var active []model.Challenge
	decode(t, resp, &active)
	assert.Len(t, active, 1)
}

func TestEveryRequestSyncsFirst(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/api/feed", nil)
	f.do(t, http.MethodPost, "/api/water", map[string]any{"ml": 250})
	assert.Equal(t, 2, f.syncs)
}
