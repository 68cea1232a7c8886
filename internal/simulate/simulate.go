// Package simulate drives the arena between user actions: rival scores
// drift, the live feed scrolls and the activity heatmap refreshes. Drivers
// never touch a Store directly; every step is submitted to a tracker.Loop.
package simulate

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/saadjs/fitquest/internal/tracker"
)

type Driver interface {
	Name() string
	Interval() time.Duration
	Step(s *tracker.Store, rng *rand.Rand)
}

// LeaderboardDrift adds [0, MaxGain) points to every rival. The current user
// only gains points through their own actions.
type LeaderboardDrift struct {
	Every   time.Duration
	MaxGain int
	Log     *zap.Logger
}

func (d LeaderboardDrift) Name() string            { return "leaderboard" }
func (d LeaderboardDrift) Interval() time.Duration { return d.Every }

func (d LeaderboardDrift) Step(s *tracker.Store, rng *rand.Rand) {
	gain := d.MaxGain
	if gain <= 0 {
		gain = 15
	}
	for _, user := range s.Users() {
		if user == s.User() {
			continue
		}
		if err := s.Award(user, rng.Intn(gain)); err != nil && d.Log != nil {
			d.Log.Debug("leaderboard drift skipped user", zap.String("user", user), zap.Error(err))
		}
	}
}

// LiveFeed pushes a random line from Lines onto the feed.
type LiveFeed struct {
	Every time.Duration
	Lines []string
}

func (d LiveFeed) Name() string            { return "feed" }
func (d LiveFeed) Interval() time.Duration { return d.Every }

func (d LiveFeed) Step(s *tracker.Store, rng *rand.Rand) {
	lines := d.Lines
	if len(lines) == 0 {
		lines = tracker.ArenaUpdates
	}
	s.PushFeed(lines[rng.Intn(len(lines))])
}

// Heatmap redraws every cell with an intensity in [0, 10).
type Heatmap struct {
	Every time.Duration
	Weeks int
}

func (d Heatmap) Name() string            { return "heatmap" }
func (d Heatmap) Interval() time.Duration { return d.Every }

func (d Heatmap) Step(s *tracker.Store, rng *rand.Rand) {
	grid := s.Heatmap()
	if len(grid) == 0 {
		weeks := d.Weeks
		if weeks <= 0 {
			weeks = 3
		}
		grid = tracker.EmptyHeatmap(weeks)
	}
	for _, week := range grid {
		for i := range week {
			week[i] = rng.Intn(10)
		}
	}
	s.SetHeatmap(grid)
}

// Quotes rotates a motivational line. It keeps its own state because quotes
// are not part of the tracker.
type Quotes struct {
	Every time.Duration
	Lines []string

	mu      sync.RWMutex
	current string
}

func (d *Quotes) Name() string            { return "quotes" }
func (d *Quotes) Interval() time.Duration { return d.Every }

func (d *Quotes) Step(_ *tracker.Store, rng *rand.Rand) {
	lines := d.Lines
	if len(lines) == 0 {
		lines = tracker.Quotes
	}
	d.mu.Lock()
	d.current = lines[rng.Intn(len(lines))]
	d.mu.Unlock()
}

func (d *Quotes) Current() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// Runner ticks drivers against a loop until the context ends.
type Runner struct {
	Loop    *tracker.Loop
	Drivers []Driver
	Seed    int64
	Log     *zap.Logger
	// AfterStep runs on the loop goroutine after every step, e.g. to persist.
	AfterStep func(s *tracker.Store, driver string)
}

// Run blocks until ctx is cancelled and every driver has stopped.
func (r *Runner) Run(ctx context.Context) error {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	for _, d := range r.Drivers {
		if d.Interval() <= 0 {
			return errors.New("simulate: driver " + d.Name() + " has no interval")
		}
	}
	g, ctx := errgroup.WithContext(ctx)
	for i, d := range r.Drivers {
		d := d
		rng := rand.New(rand.NewSource(r.Seed + int64(i)))
		g.Go(func() error {
			ticker := time.NewTicker(d.Interval())
			defer ticker.Stop()
			log.Debug("simulation driver started", zap.String("driver", d.Name()), zap.Duration("interval", d.Interval()))
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					err := r.Loop.Submit(ctx, func(s *tracker.Store) {
						d.Step(s, rng)
						if r.AfterStep != nil {
							r.AfterStep(s, d.Name())
						}
					})
					if errors.Is(err, tracker.ErrLoopStopped) {
						return nil
					}
				}
			}
		})
	}
	return g.Wait()
}
