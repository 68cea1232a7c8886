package fitquest

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/saadjs/fitquest/internal/config"
	"github.com/saadjs/fitquest/internal/simulate"
	"github.com/saadjs/fitquest/internal/tracker"
)

const quoteInterval = 5 * time.Second

var (
	simDuration time.Duration
	simSeed     int64
)

func simulationDrivers(cfg *config.Config, quotes *simulate.Quotes, log *zap.Logger) []simulate.Driver {
	drivers := []simulate.Driver{
		simulate.LeaderboardDrift{Every: cfg.Simulate.LeaderboardInterval, Log: log},
		simulate.LiveFeed{Every: cfg.Simulate.FeedInterval},
		simulate.Heatmap{Every: cfg.Simulate.HeatmapInterval},
	}
	if quotes != nil {
		drivers = append(drivers, quotes)
	}
	return drivers
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

// runLoop runs the tracker loop next to fn and stops the loop once fn
// returns.
func runLoop(ctx context.Context, loop *tracker.Loop, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error {
		defer cancel()
		return fn(gctx)
	})
	return g.Wait()
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the arena simulation for a while and save the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simDuration <= 0 {
			return fmt.Errorf("--duration must be > 0")
		}
		return withEnv(cmd, func(e *env) error {
			sess, err := openSession(cmd, e)
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, simDuration)
			defer cancel()

			out := cmd.OutOrStdout()
			loop := tracker.NewLoop(sess.Store)
			runner := &simulate.Runner{
				Loop:    loop,
				Drivers: simulationDrivers(e.Config, nil, e.Log),
				Seed:    simSeed,
				Log:     e.Log,
				AfterStep: func(s *tracker.Store, driver string) {
					switch driver {
					case "feed":
						if feed := s.Feed(); len(feed) > 0 {
							fmt.Fprintf(out, "[feed] %s\n", feed[0])
						}
					case "leaderboard":
						page := s.Leaderboard(tracker.LeaderboardQuery{SortBy: tracker.SortPoints, Desc: true, PageSize: 1})
						if len(page.Entries) > 0 {
							fmt.Fprintf(out, "[leaderboard] #1 %s with %d points\n", page.Entries[0].User, page.Entries[0].Points)
						}
					}
				},
			}
			if simSeed == 0 {
				runner.Seed = now().UnixNano()
			}

			e.Log.Info("simulation started", zap.Duration("duration", simDuration))
			if err := runLoop(ctx, loop, runner.Run); err != nil {
				return err
			}
			if err := sess.Commit(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Simulation finished")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().DurationVar(&simDuration, "duration", 30*time.Second, "How long to run")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed (default time based)")
}
