package fitquest

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/fitquest/internal/model"
	"github.com/saadjs/fitquest/internal/tracker"
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Schedule and complete workouts",
}

var (
	woTitle      string
	woDay        string
	woTime       string
	woDuration   string
	woType       string
	woIntensity  string
	woSuggestion string

	woListType    string
	woHistoryDate string
)

var workoutAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Schedule a workout",
	RunE: func(cmd *cobra.Command, args []string) error {
		if woSuggestion == "" && woTitle == "" {
			return fmt.Errorf("set --title or --suggestion")
		}
		return withSession(cmd, func(s *tracker.Store) error {
			var (
				w   model.Workout
				err error
			)
			if woSuggestion != "" {
				w, err = s.AddWorkoutSuggestion(woSuggestion, model.Weekday(woDay), woTime)
			} else {
				w, err = s.AddWorkout(tracker.WorkoutInput{
					Title:     woTitle,
					Day:       model.Weekday(woDay),
					Time:      woTime,
					Duration:  woDuration,
					Type:      model.WorkoutType(woType),
					Intensity: model.Intensity(woIntensity),
				})
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s (%s) on %s at %s\n", w.Title, w.ID, w.Day, w.Time)
			return nil
		})
	},
}

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *tracker.Store, _ *env) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "ID\tDAY\tTIME\tTITLE\tDURATION\tTYPE\tINTENSITY")
			for _, wo := range s.Workouts(woListType) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", wo.ID, wo.Day, wo.Time, wo.Title, wo.Duration, wo.Type, wo.Intensity)
			}
			p := s.WorkoutProgress()
			fmt.Fprintf(w, "Completed %d/%d (%.0f%%)\n", p.Completed, p.Total, p.Percent)
			return nil
		})
	},
}

var workoutCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a workout as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *tracker.Store) error {
			w, err := s.CompleteWorkout(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s on %s\n", w.Title, w.CompletedDate)
			return nil
		})
	},
}

var workoutHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateFlag("date", woHistoryDate)
		if err != nil {
			return err
		}
		return withStore(cmd, func(s *tracker.Store, _ *env) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "ID\tCOMPLETED\tTITLE\tDURATION\tTYPE")
			for _, wo := range s.History(date) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", wo.ID, wo.CompletedDate, wo.Title, wo.Duration, wo.Type)
			}
			return nil
		})
	},
}

var workoutSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "List workout suggestions",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "ID\tNAME\tDURATION\tTYPE\tINTENSITY")
		for _, s := range tracker.WorkoutSuggestions() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Duration, s.Workout, s.Intensity)
		}
		return nil
	},
}

var workoutReorderCmd = &cobra.Command{
	Use:   "reorder <from> <to>",
	Short: "Move a scheduled workout to a new position",
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
				tracker.DropLocation{List: tracker.ListWorkouts, Index: from},
				&tracker.DropLocation{List: tracker.ListWorkouts, Index: to},
			)
			if err != nil {
				return err
			}
			if !moved {
				return fmt.Errorf("no workout at position %d or %d", from, to)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reordered workouts")
			return nil
		})
	},
}

var workoutRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a scheduled workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *tracker.Store) error {
			if s.RemoveWorkout(args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed workout %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No workout %s\n", args[0])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(workoutCmd)
	workoutCmd.AddCommand(workoutAddCmd, workoutListCmd, workoutCompleteCmd, workoutHistoryCmd,
		workoutSuggestCmd, workoutReorderCmd, workoutRemoveCmd)

	workoutAddCmd.Flags().StringVar(&woTitle, "title", "", "Workout title")
	workoutAddCmd.Flags().StringVar(&woDay, "day", string(model.Monday), "Day of the week")
	workoutAddCmd.Flags().StringVar(&woTime, "time", "07:00", "Time HH:MM")
	workoutAddCmd.Flags().StringVar(&woDuration, "duration", "30 min", "Duration label")
	workoutAddCmd.Flags().StringVar(&woType, "type", string(model.WorkoutCardio), "Cardio, Strength or Flexibility")
	workoutAddCmd.Flags().StringVar(&woIntensity, "intensity", string(model.IntensityMedium), "Low, Medium or High")
	workoutAddCmd.Flags().StringVar(&woSuggestion, "suggestion", "", "Schedule a suggested workout by id")

	workoutListCmd.Flags().StringVar(&woListType, "type", tracker.All, "Filter by type")
	workoutHistoryCmd.Flags().StringVar(&woHistoryDate, "date", "", "Only workouts completed on YYYY-MM-DD")
}
