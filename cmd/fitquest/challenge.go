package fitquest

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/fitquest/internal/model"
	"github.com/saadjs/fitquest/internal/tracker"
)

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Create, join and complete challenges",
}

var (
	chName       string
	chType       string
	chDifficulty string
	chTier       string
	chTasks      int
	chDays       int
	chEndDate    string

	chListType       string
	chListDifficulty string
	chListStatus     string
	chListSearch     string
)

func printChallenge(w io.Writer, c model.Challenge) {
	fmt.Fprintf(w, "ID: %s\n", c.ID)
	fmt.Fprintf(w, "Name: %s\n", c.Name)
	fmt.Fprintf(w, "Type: %s | Difficulty: %s | Tier: %s\n", c.Type, c.Difficulty, c.Tier)
	fmt.Fprintf(w, "Progress: %d/%d (%.0f%%)\n", c.CompletedTasks, c.TotalTasks, tracker.ProgressPercent(c))
	fmt.Fprintf(w, "Status: %s\n", c.Status)
	if days, ok := tracker.TimeLeftDays(c, now()); ok {
		fmt.Fprintf(w, "Ends: %s (%d days left)\n", formatDate(c.EndDate), days)
	}
	fmt.Fprintf(w, "Creator: %s\n", c.Creator)
	fmt.Fprintf(w, "Reward: %s\n", c.Reward)
}

var challengeCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a challenge",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *tracker.Store) error {
			c, err := s.CreateChallenge(tracker.ChallengeInput{
				Name:         chName,
				Type:         model.ChallengeType(chType),
				Difficulty:   model.Difficulty(chDifficulty),
				Tier:         model.Tier(chTier),
				TotalTasks:   chTasks,
				DurationDays: chDays,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created challenge %s (%s)\n", c.ID, c.Reward)
			return nil
		})
	},
}

var challengeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List challenges",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := tracker.ChallengeFilter{
			Type:       chListType,
			Difficulty: chListDifficulty,
			Status:     chListStatus,
			Search:     chListSearch,
		}
		return withStore(cmd, func(s *tracker.Store, _ *env) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tDIFFICULTY\tTIER\tPROGRESS\tSTATUS\tENDS")
			for _, c := range s.Challenges(f) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d/%d\t%s\t%s\n", c.ID, c.Name, c.Type, c.Difficulty, c.Tier, c.CompletedTasks, c.TotalTasks, c.Status, formatDate(c.EndDate))
			}
			return nil
		})
	},
}

var challengeShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *tracker.Store, _ *env) error {
			c, err := s.Challenge(args[0])
			if err != nil {
				return err
			}
			printChallenge(cmd.OutOrStdout(), c)
			return nil
		})
	},
}

var challengeJoinCmd = &cobra.Command{
	Use:   "join <id>",
	Short: "Join an available challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *tracker.Store) error {
			c, err := s.JoinChallenge(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Joined %s (status %s)\n", c.Name, c.Status)
			return nil
		})
	},
}

var challengeCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Record one completed task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *tracker.Store) error {
			c, err := s.CompleteTask(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d tasks (%s)\n", c.Name, c.CompletedTasks, c.TotalTasks, c.Status)
			return nil
		})
	},
}

var challengeUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename, resize or reschedule a challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch tracker.ChallengePatch
		if cmd.Flags().Changed("name") {
			patch.Name = &chName
		}
		if cmd.Flags().Changed("tasks") {
			patch.TotalTasks = &chTasks
		}
		if cmd.Flags().Changed("end-date") {
			end, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(chEndDate), time.Local)
			if err != nil {
				return fmt.Errorf("invalid --end-date %q (expected YYYY-MM-DD)", chEndDate)
			}
			patch.EndDate = &end
		}
		if patch == (tracker.ChallengePatch{}) {
			return fmt.Errorf("set at least one of --name, --tasks, --end-date")
		}
		return withSession(cmd, func(s *tracker.Store) error {
			c, err := s.UpdateChallenge(args[0], patch)
			if err != nil {
				return err
			}
			printChallenge(cmd.OutOrStdout(), c)
			return nil
		})
	},
}

var challengeReorderCmd = &cobra.Command{
	Use:   "reorder <from> <to>",
	Short: "Move an active challenge to a new position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseIndexArg("from", args[0])
		if err != nil {
			return err
		}
		to, err := parseIndexArg("to", args[1])
		if err != nil {
			return err
		}
		return withSession(cmd, func(s *tracker.Store) error {
			moved, err := s.Reorder(
				tracker.DropLocation{List: tracker.ListChallenges, Index: from},
				&tracker.DropLocation{List: tracker.ListChallenges, Index: to},
			)
			if err != nil {
				return err
			}
			if !moved {
				return fmt.Errorf("no active challenge at position %d or %d", from, to)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reordered active challenges")
			return nil
		})
	},
}

var challengeRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *tracker.Store) error {
			if s.RemoveChallenge(args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed challenge %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No challenge %s\n", args[0])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(challengeCmd)
	challengeCmd.AddCommand(challengeCreateCmd, challengeListCmd, challengeShowCmd, challengeJoinCmd,
		challengeCompleteCmd, challengeUpdateCmd, challengeReorderCmd, challengeRemoveCmd)

	challengeCreateCmd.Flags().StringVar(&chName, "name", "", "Challenge name")
	challengeCreateCmd.Flags().StringVar(&chType, "type", string(model.ChallengeStrength), "Strength, Endurance, Flexibility or Hybrid")
	challengeCreateCmd.Flags().StringVar(&chDifficulty, "difficulty", string(model.DifficultyMedium), "Easy, Medium, Hard or Extreme")
	challengeCreateCmd.Flags().StringVar(&chTier, "tier", string(model.TierBronze), "Bronze, Silver, Gold or Platinum")
	challengeCreateCmd.Flags().IntVar(&chTasks, "tasks", 0, "Number of tasks")
	challengeCreateCmd.Flags().IntVar(&chDays, "days", 7, "Days until the challenge ends")
	_ = challengeCreateCmd.MarkFlagRequired("name")
	_ = challengeCreateCmd.MarkFlagRequired("tasks")

	challengeListCmd.Flags().StringVar(&chListType, "type", tracker.All, "Filter by type")
	challengeListCmd.Flags().StringVar(&chListDifficulty, "difficulty", tracker.All, "Filter by difficulty")
	challengeListCmd.Flags().StringVar(&chListStatus, "status", tracker.All, "Filter by status")
	challengeListCmd.Flags().StringVar(&chListSearch, "search", "", "Filter by name")

	challengeUpdateCmd.Flags().StringVar(&chName, "name", "", "New name")
	challengeUpdateCmd.Flags().IntVar(&chTasks, "tasks", 0, "New task count")
	challengeUpdateCmd.Flags().StringVar(&chEndDate, "end-date", "", "New end date YYYY-MM-DD")
}
