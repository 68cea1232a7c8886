package fitquest

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/fitquest/internal/tracker"
)

// streakCmd opens the app for the day. It is the only command that ticks
// every streak without other activity.
var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Check in and show current streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *tracker.Store) error {
			streaks := s.EvaluateStreaks()
			fmt.Fprintf(cmd.OutOrStdout(), "Challenge streak: %d day(s)\n", streaks[tracker.DomainChallenges])
			fmt.Fprintf(cmd.OutOrStdout(), "Logging streak: %d day(s)\n", streaks[tracker.DomainNutrition])
			return nil
		})
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summarize points, streaks, progress and the daily quest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *tracker.Store, _ *env) error {
			w := cmd.OutOrStdout()
			entry, _ := s.Entry(s.User())
			fmt.Fprintf(w, "%s | rank #%d | %d points\n", s.User(), entry.Rank, entry.Points)
			fmt.Fprintf(w, "Streaks: challenges %d | logging %d\n", s.Streak(tracker.DomainChallenges), s.Streak(tracker.DomainNutrition))
			if badges := s.Badges(); len(badges) > 0 {
				fmt.Fprintf(w, "Badges: %s\n", strings.Join(badges, ", "))
			}

			fmt.Fprintln(w, "Active challenges:")
			for _, c := range s.ActiveChallenges() {
				fmt.Fprintf(w, "  %s %d/%d (%.0f%%)\n", c.Name, c.CompletedTasks, c.TotalTasks, tracker.ProgressPercent(c))
			}

			n := s.Nutrition("")
			fmt.Fprintf(w, "Nutrition: %d/%d kcal (%.1f%%) | P %d C %d F %d\n",
				n.TotalCalories, n.Goals.Calories, n.CalorieProgressPercent, n.TotalMacros.Protein, n.TotalMacros.Carbs, n.TotalMacros.Fat)
			for _, insight := range n.Insights {
				fmt.Fprintf(w, "  %s\n", insight)
			}
			fmt.Fprintf(w, "Water: %d/%d ml\n", s.Water(), s.Goals().WaterMl)

			p := s.WorkoutProgress()
			fmt.Fprintf(w, "Workouts: %d/%d completed (%.0f%%)\n", p.Completed, p.Total, p.Percent)

			fmt.Fprintln(w, "Activity:")
			for _, row := range s.Heatmap() {
				cells := make([]string, len(row))
				for i, v := range row {
					cells[i] = fmt.Sprint(v)
				}
				fmt.Fprintf(w, "  %s\n", strings.Join(cells, " "))
			}
			fmt.Fprintf(w, "Daily quest: %s\n", tracker.DailyQuests[rand.Intn(len(tracker.DailyQuests))])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(streakCmd, dashboardCmd)
}
