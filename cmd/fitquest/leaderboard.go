package fitquest

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/fitquest/internal/tracker"
)

var (
	lbSort   string
	lbAsc    bool
	lbSearch string
	lbPage   int
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the arena leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch lbSort {
		case tracker.SortPoints, tracker.SortCompletedChallenges, tracker.SortStreak:
		default:
			return fmt.Errorf("invalid --sort %q (use points, completedChallenges or streak)", lbSort)
		}
		return withStore(cmd, func(s *tracker.Store, e *env) error {
			page := s.Leaderboard(tracker.LeaderboardQuery{
				SortBy:   lbSort,
				Desc:     !lbAsc,
				Search:   lbSearch,
				Page:     lbPage,
				PageSize: e.Config.Leaderboard.PageSize,
			})
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "RANK\tUSER\tPOINTS\tCHALLENGES\tSTREAK\tBADGES")
			for _, entry := range page.Entries {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\n", entry.Rank, entry.User, entry.Points, entry.CompletedChallenges, entry.Streak, strings.Join(entry.Badges, ", "))
			}
			fmt.Fprintf(w, "Page %d/%d (%d users)\n", page.Page, page.TotalPages, page.Total)
			return nil
		})
	},
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List unlocked badges",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *tracker.Store, _ *env) error {
			badges := s.Badges()
			if len(badges) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No badges yet")
				return nil
			}
			for _, b := range badges {
				fmt.Fprintln(cmd.OutOrStdout(), b)
			}
			return nil
		})
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show recent arena updates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *tracker.Store, _ *env) error {
			for _, line := range s.Feed() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(leaderboardCmd, badgesCmd, feedCmd)
	leaderboardCmd.Flags().StringVar(&lbSort, "sort", tracker.SortPoints, "points, completedChallenges or streak")
	leaderboardCmd.Flags().BoolVar(&lbAsc, "asc", false, "Sort ascending")
	leaderboardCmd.Flags().StringVar(&lbSearch, "search", "", "Filter by user name")
	leaderboardCmd.Flags().IntVar(&lbPage, "page", 1, "Page number")
}
