package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/bookkeeping_app/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(logger)
			if err != nil {
				return err
			}
			direction := database.MigrationDirection(args[0])
			logger.Info("Running database migrations...", slog.String("direction", string(direction)))
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction); err != nil {
				return fmt.Errorf("migrate %s: %w", direction, err)
			}
			return nil
		},
	}
}
