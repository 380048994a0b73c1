package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/family_bank/internal/core/domain"
)

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().StringP("type", "t", "all", "Pass to run: internal, external_provider or all")
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run reconciliation once and exit",
	Long: `Run one reconciliation pass against the configured storage and print
the outcome. Exits non-zero when a run fails or leaves discrepancies for review.`,
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	passType, _ := cmd.Flags().GetString("type")
	switch passType {
	case "all", string(domain.ReconciliationInternal), string(domain.ReconciliationExternalProvider):
	default:
		return fmt.Errorf("unknown reconciliation type %q", passType)
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	svc := a.services.Reconciliation
	var runs []*domain.ReconciliationRun
	if passType != string(domain.ReconciliationExternalProvider) {
		run, err := svc.RunInternal(cmd.Context())
		if err != nil {
			return err
		}
		runs = append(runs, run)
	}
	if passType != string(domain.ReconciliationInternal) {
		run, err := svc.RunExternal(cmd.Context())
		if err != nil {
			return err
		}
		runs = append(runs, run)
	}

	unhealthy := 0
	out := cmd.OutOrStdout()
	for _, run := range runs {
		fmt.Fprintf(out, "%s run %s: %s (%d checked, %d discrepancies, %d unresolved)\n",
			run.Type, run.RunID, run.Status, run.AccountsChecked, len(run.Discrepancies), run.UnresolvedCount())
		for _, d := range run.Discrepancies {
			fmt.Fprintf(out, "  %s [%s] cached=%d computed=%d diff=%d auto_resolved=%t\n",
				d.AccountID, d.Source, d.CachedBalance, d.ComputedBalance, d.Difference, d.AutoResolved)
		}
		if run.Status != domain.ReconciliationPassed {
			unhealthy++
		}
	}

	if unhealthy > 0 {
		logger.Warn("Reconciliation needs review", slog.Int("runs", unhealthy))
		return fmt.Errorf("%d reconciliation run(s) did not pass", unhealthy)
	}
	return nil
}
