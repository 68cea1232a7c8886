package fitquest

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/fitquest/internal/db"
	"github.com/saadjs/fitquest/internal/service"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the local fitquest database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			seeded, err := service.SeedIfEmpty(sqldb, now())
			if err != nil {
				return err
			}
			version, err := db.SchemaVersion(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized fitquest database at %s (schema v%d)\n", path, version)
			if seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "Loaded starter challenges, workouts and leaderboard")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
