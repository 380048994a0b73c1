package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/family_bank/internal/platform/config"
	"github.com/SscSPs/family_bank/pkg/database"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or revert database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(database.MigrateUp)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert every migration (drops all ledger data)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(database.MigrateDown)
	},
}

func runMigrate(direction string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.StorageDriver != config.StoragePostgres {
		return fmt.Errorf("migrations need STORAGE_DRIVER=%s, got %q", config.StoragePostgres, cfg.StorageDriver)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("PGSQL_URL is required to run migrations")
	}
	return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, direction, logger)
}
