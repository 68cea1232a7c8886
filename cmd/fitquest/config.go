package fitquest

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/saadjs/fitquest/internal/service"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fitquest settings stored in the database",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting override",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := service.ValidateSetting(args[0], args[1]); err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetConfig(sqldb, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show effective configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			if len(args) == 1 {
				value, ok := e.Config.Get(args[0])
				if !ok {
					stored, found, err := service.GetConfig(e.DB, args[0])
					if err != nil {
						return err
					}
					if !found {
						return fmt.Errorf("unknown config key %q", args[0])
					}
					value = stored
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}

			stored, err := service.ListConfig(e.DB)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(stored))
			for k := range stored {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE")
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, stored[k])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd)
}
