package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pandenic/media-review-board/internal/app"
	"github.com/pandenic/media-review-board/internal/config"
	"github.com/pandenic/media-review-board/internal/logger"
)

var (
	// Global flags
	dbURL   string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "yamdbctl",
	Short: "Administration tool for the media review board",
	Long: `yamdbctl manages the media review board database outside the API:
schema migrations and bootstrap accounts.

Configuration is read from the same environment variables as the server;
--db overrides DATABASE_URL.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (defaults to DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(migrateCmd, createSuperuserCmd)
}

func loadConfig() config.Config {
	cfg := config.Load()
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	cfg.Storage = app.StoragePostgres
	return cfg
}

func newLogger(cfg config.Config) *slog.Logger {
	if verbose {
		return logger.NewTo(os.Stderr, cfg.Env)
	}
	return logger.NewTo(os.Stderr, "prod")
}

// openApp connects to Postgres with the services wired.
func openApp(ctx context.Context, migrate bool) (*app.App, error) {
	cfg := loadConfig()
	cfg.Migrate = migrate
	return app.Open(ctx, cfg, newLogger(cfg))
}
