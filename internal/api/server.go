// Package api serves the tracker over HTTP as JSON. Every request runs on
// the tracker loop, so handlers never race with simulation drivers.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saadjs/fitquest/internal/metrics"
	"github.com/saadjs/fitquest/internal/simulate"
	"github.com/saadjs/fitquest/internal/tracker"
)

type Server struct {
	Loop    *tracker.Loop
	Metrics *metrics.Metrics
	Log     *zap.Logger
	// Sync runs on the loop before every request and may reload the store
	// from disk. Persist runs after every successful mutation; when it
	// fails, Rollback puts the state captured before the mutation back.
	// Without a Rollback the store is restored directly.
	Sync     func(*tracker.Store) error
	Persist  func(*tracker.Store) error
	Rollback func(*tracker.Store, tracker.State)
	// Quotes is optional; when set /api/dashboard reports its current line.
	Quotes *simulate.Quotes

	RateLimit float64
	Burst     int
	PageSize  int
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware())
		r.GET("/metrics", s.Metrics.Handler())
	}
	r.GET("/healthz", func(c *gin.Context) { Success(c, gin.H{"status": "ok"}) })

	api := r.Group("/api", RateLimiter(s.RateLimit, s.Burst))
	{
		api.GET("/challenges", s.listChallenges)
		api.POST("/challenges", s.createChallenge)
		api.GET("/challenges/:id", s.getChallenge)
		api.DELETE("/challenges/:id", s.removeChallenge)
		api.POST("/challenges/:id/join", s.joinChallenge)
		api.POST("/challenges/:id/complete", s.completeTask)

		api.GET("/meals", s.listMeals)
		api.POST("/meals", s.addMeal)
		api.GET("/meals/export", s.exportMeals)
		api.DELETE("/meals/:id", s.removeMeal)
		api.GET("/nutrition", s.nutrition)
		api.POST("/water", s.addWater)
		api.GET("/recipes", s.listRecipes)

		api.GET("/workouts", s.listWorkouts)
		api.POST("/workouts", s.addWorkout)
		api.GET("/workouts/history", s.workoutHistory)
		api.POST("/workouts/:id/complete", s.completeWorkout)

		api.POST("/reorder", s.reorder)
		api.GET("/leaderboard", s.leaderboard)
		api.GET("/badges", s.badges)
		api.GET("/feed", s.feed)
		api.GET("/dashboard", s.dashboard)
	}
	return r
}

// read runs fn on the loop without persisting. A failed sync is logged and
// the request is answered from memory.
func (s *Server) read(c *gin.Context, fn func(*tracker.Store) any) {
	var out any
	err := s.Loop.Do(c.Request.Context(), func(st *tracker.Store) error {
		if err := s.sync(st); err != nil {
			s.logger().Warn("sync before read failed", zap.String("path", c.FullPath()), zap.Error(err))
		}
		out = fn(st)
		return nil
	})
	if err != nil {
		Fail(c, s.logger(), err)
		return
	}
	Success(c, out)
}

// mutate runs fn on the loop and persists the store when it succeeds. A
// mutation that cannot be persisted is undone before the error is reported.
func (s *Server) mutate(c *gin.Context, command string, status int, fn func(*tracker.Store) (any, error)) {
	var out any
	err := s.Loop.Do(c.Request.Context(), func(st *tracker.Store) error {
		if err := s.sync(st); err != nil {
			return err
		}
		before := st.State()
		var err error
		out, err = fn(st)
		if err == nil && s.Persist != nil {
			if err = s.Persist(st); err != nil {
				s.rollback(st, before)
			}
		}
		if s.Metrics != nil {
			s.Metrics.ObserveCommand(command, err)
			if err == nil {
				s.Metrics.ObserveStreaks(st)
			}
		}
		return err
	})
	if err != nil {
		Fail(c, s.logger(), err)
		return
	}
	if status == http.StatusCreated {
		Created(c, out)
		return
	}
	Success(c, out)
}

func (s *Server) sync(st *tracker.Store) error {
	if s.Sync == nil {
		return nil
	}
	return s.Sync(st)
}

func (s *Server) rollback(st *tracker.Store, before tracker.State) {
	if s.Rollback != nil {
		s.Rollback(st, before)
		return
	}
	st.Restore(before)
}

// Serve listens on addr until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger().Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger().Info("http server stopped")
		return nil
	}
}
