package main

import (
	"os"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/config"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/db"
	"github.com/HARSHITRANA2447/fashion-lookbook/internal/logger"

	"github.com/spf13/cobra"
)

var (
	loadConfig    = config.Load
	migrateUpFn   = db.MigrateUp
	migrateDownFn = db.MigrateDown
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Run database migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitFromConfig(loadConfig())
		},
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := migrateUpFn(loadConfig().PostgresURL); err != nil {
				logger.Error("migrate up failed", "error", err)
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := migrateDownFn(loadConfig().PostgresURL, steps); err != nil {
				logger.Error("migrate down failed", "error", err, "steps", steps)
				return err
			}
			logger.Info("migrations rolled back", "steps", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back, 0 for all")

	root.AddCommand(up, down)
	return root
}
