package fitquest

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "fitquest",
	Short: "fitquest tracks challenges, meals and workouts from your terminal",
	Long: "fitquest is a local-first fitness tracker with challenges, points, badges, streaks, " +
		"a meal planner, a workout schedule and a simulated leaderboard.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")
}
