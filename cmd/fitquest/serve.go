package fitquest

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/saadjs/fitquest/internal/api"
	"github.com/saadjs/fitquest/internal/metrics"
	"github.com/saadjs/fitquest/internal/service"
	"github.com/saadjs/fitquest/internal/simulate"
	"github.com/saadjs/fitquest/internal/tracker"
)

var (
	serveAddr     string
	serveSimulate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tracker as a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			m := metrics.New()
			sess, err := openSession(cmd, e, m)
			if err != nil {
				return err
			}
			sess.Store.EvaluateStreaks()
			m.ObserveStreaks(sess.Store)
			if err := sess.Commit(); err != nil {
				return err
			}

			gin.SetMode(e.Config.Server.Mode)
			addr := e.Config.Server.Addr
			if serveAddr != "" {
				addr = serveAddr
			}

			loop := tracker.NewLoop(sess.Store)
			// CLI commands may commit to the same file while serving. Every
			// request first adopts a newer snapshot, and a save that lost the
			// race is undone rather than written over the other commit.
			syncStore := func(*tracker.Store) error {
				_, err := sess.Sync()
				return err
			}
			persist := func(*tracker.Store) error { return sess.Commit() }
			quotes := &simulate.Quotes{Every: quoteInterval}
			srv := &api.Server{
				Loop:      loop,
				Metrics:   m,
				Log:       e.Log,
				Sync:      syncStore,
				Persist:   persist,
				Rollback:  func(_ *tracker.Store, st tracker.State) { sess.Rollback(st) },
				Quotes:    quotes,
				RateLimit: e.Config.Server.RateLimit,
				Burst:     e.Config.Server.Burst,
				PageSize:  e.Config.Leaderboard.PageSize,
			}

			ctx, stop := signalContext(cmd)
			defer stop()
			return runLoop(ctx, loop, func(ctx context.Context) error {
				g, ctx := errgroup.WithContext(ctx)
				g.Go(func() error { return srv.Serve(ctx, addr) })
				if serveSimulate {
					runner := &simulate.Runner{
						Loop:    loop,
						Drivers: simulationDrivers(e.Config, quotes, e.Log),
						Seed:    now().UnixNano(),
						Log:     e.Log,
						AfterStep: func(s *tracker.Store, driver string) {
							err := persist(s)
							if errors.Is(err, service.ErrStaleSnapshot) {
								// Simulated steps are disposable; adopt the newer snapshot.
								_, err = sess.Sync()
							}
							if err != nil {
								e.Log.Warn("save simulated state", zap.String("driver", driver), zap.Error(err))
							}
						},
					}
					g.Go(func() error { return runner.Run(ctx) })
				}
				return g.Wait()
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default server.addr)")
	serveCmd.Flags().BoolVar(&serveSimulate, "simulate", true, "Run the arena simulation while serving")
}
