package fitquest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/fitquest/internal/tracker"
)

var waterCmd = &cobra.Command{
	Use:   "water",
	Short: "Track today's water intake",
}

var waterAddCmd = &cobra.Command{
	Use:   "add <ml>",
	Short: "Add water in millilitres",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ml, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return fmt.Errorf("invalid ml %q", args[0])
		}
		return withSession(cmd, func(s *tracker.Store) error {
			total, err := s.AddWater(ml)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Water: %d/%d ml (%.0f%%)\n", total, s.Goals().WaterMl, s.WaterProgressPercent())
			return nil
		})
	},
}

var waterResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset today's water intake",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *tracker.Store) error {
			s.ResetWater()
			fmt.Fprintln(cmd.OutOrStdout(), "Water reset")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(waterCmd)
	waterCmd.AddCommand(waterAddCmd, waterResetCmd)
}
