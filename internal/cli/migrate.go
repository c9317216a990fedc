package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the self-hosted database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer func() {
			_ = database.Close()
		}()

		fmt.Fprintf(cmd.OutOrStdout(), "Database schema is up to date (%s)\n", cfg.Backend)
		return nil
	},
}
