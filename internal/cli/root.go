// Package cli holds the family_bank command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SscSPs/family_bank/internal/platform/config"
)

var rootCmd = &cobra.Command{
	Use:   "family_bank",
	Short: "Family bank ledger service",
	Long: `family_bank runs the double-entry ledger behind the family bank app:
bucket accounts, journal postings, deposit allocation, provider webhooks
and reconciliation.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the process logger. Production logs are JSON; local runs
// use the text handler at debug level.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadConfig loads config and installs the default logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
