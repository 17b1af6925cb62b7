package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pandenic/media-review-board/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every embedded migration that is not yet recorded in
schema_migrations, in order, each in its own transaction.

Examples:
  yamdbctl migrate
  yamdbctl migrate --db postgres://localhost:5432/yamdb`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := loadConfig()
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, 1)
		if err != nil {
			return err
		}
		defer pool.Close()

		applied, err := db.RunMigrations(ctx, pool)
		for _, name := range applied {
			fmt.Fprintln(cmd.OutOrStdout(), "applied", name)
		}
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to apply")
		}
		return nil
	},
}
