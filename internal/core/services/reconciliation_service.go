package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/platform/metrics"
)

// DefaultAutoHealThreshold is the largest drift, in cents, corrected without review.
const DefaultAutoHealThreshold int64 = 1

type reconciliationService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	runRepo     portsrepo.ReconciliationRunRepository
	linkRepo    portsrepo.FinancialAccountLinkRepository
	journal     portssvc.JournalCalculatorSvc
	treasury    portssvc.TreasuryProvider
	threshold   int64
}

// ReconciliationOption configures the reconciliation service.
type ReconciliationOption func(*reconciliationService)

// WithTreasuryProvider enables the provider balance comparison in the external pass.
func WithTreasuryProvider(p portssvc.TreasuryProvider) ReconciliationOption {
	return func(s *reconciliationService) {
		s.treasury = p
	}
}

// WithAutoHealThreshold overrides DefaultAutoHealThreshold. Negative values are ignored.
func WithAutoHealThreshold(cents int64) ReconciliationOption {
	return func(s *reconciliationService) {
		if cents >= 0 {
			s.threshold = cents
		}
	}
}

// NewReconciliationService creates the reconciliation service.
func NewReconciliationService(
	accountRepo portsrepo.AccountRepositoryFacade,
	runRepo portsrepo.ReconciliationRunRepository,
	linkRepo portsrepo.FinancialAccountLinkRepository,
	journal portssvc.JournalCalculatorSvc,
	options ...ReconciliationOption,
) portssvc.ReconciliationSvcFacade {
	svc := &reconciliationService{
		accountRepo: accountRepo,
		runRepo:     runRepo,
		linkRepo:    linkRepo,
		journal:     journal,
		threshold:   DefaultAutoHealThreshold,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// RunInternal checks every active account against its journal history. Drift
// within the threshold is corrected in place; anything larger is recorded and
// left alone.
func (s *reconciliationService) RunInternal(ctx context.Context) (*domain.ReconciliationRun, error) {
	return s.execute(ctx, domain.ReconciliationInternal, s.internalPass)
}

// RunExternal compares per-user bucket totals with the journal and, when a
// provider is configured, each linked bucket with the provider's balance.
// Nothing is corrected by this pass.
func (s *reconciliationService) RunExternal(ctx context.Context) (*domain.ReconciliationRun, error) {
	return s.execute(ctx, domain.ReconciliationExternalProvider, s.externalPass)
}

func (s *reconciliationService) GetRun(ctx context.Context, runID string) (*domain.ReconciliationRun, error) {
	run, err := s.runRepo.FindRunByID(ctx, runID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: reconciliation run %s", apperrors.ErrNotFound, runID)
		}
		return nil, fmt.Errorf("failed to get reconciliation run %s: %w", runID, err)
	}
	return run, nil
}

func (s *reconciliationService) ListRuns(ctx context.Context, limit int) ([]domain.ReconciliationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	runs, err := s.runRepo.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliation runs: %w", err)
	}
	return runs, nil
}

type reconciliationPass func(ctx context.Context, run *domain.ReconciliationRun, logger *slog.Logger) error

func (s *reconciliationService) execute(ctx context.Context, runType domain.ReconciliationType, pass reconciliationPass) (*domain.ReconciliationRun, error) {
	started := s.Now()
	run := &domain.ReconciliationRun{
		RunID:         uuid.NewString(),
		Type:          runType,
		Status:        domain.ReconciliationRunning,
		StartedAt:     started,
		Discrepancies: []domain.Discrepancy{},
	}
	logger := s.GetLogger(ctx).With(slog.String("run_id", run.RunID), slog.String("run_type", string(runType)))

	if err := s.runRepo.CreateRun(ctx, *run); err != nil {
		s.LogError(ctx, err, "Failed to create reconciliation run", slog.String("run_id", run.RunID))
		return nil, fmt.Errorf("failed to create reconciliation run: %w", err)
	}
	logger.Info("Reconciliation run started")

	passErr := pass(ctx, run, logger)

	completed := s.Now()
	run.CompletedAt = &completed
	switch {
	case passErr != nil:
		run.Status = domain.ReconciliationFailed
		run.ErrorMessage = passErr.Error()
	case run.UnresolvedCount() > 0:
		run.Status = domain.ReconciliationDiscrepancyFound
	default:
		run.Status = domain.ReconciliationPassed
	}

	if err := s.runRepo.UpdateRun(ctx, *run); err != nil {
		logger.Error("Failed to finalize reconciliation run", slog.String("error", err.Error()))
		if passErr == nil {
			passErr = fmt.Errorf("failed to finalize reconciliation run: %w", err)
		}
	}

	metrics.ReconciliationRuns.WithLabelValues(string(runType), string(run.Status)).Inc()
	metrics.ReconciliationDuration.WithLabelValues(string(runType)).Observe(completed.Sub(started).Seconds())
	for _, d := range run.Discrepancies {
		metrics.ReconciliationDiscrepancies.WithLabelValues(string(runType), strconv.FormatBool(d.AutoResolved)).Inc()
	}

	logger.Info("Reconciliation run finished",
		slog.String("status", string(run.Status)),
		slog.Int("accounts_checked", run.AccountsChecked),
		slog.Int("discrepancies", len(run.Discrepancies)),
		slog.Int("unresolved", run.UnresolvedCount()))
	return run, passErr
}

func (s *reconciliationService) internalPass(ctx context.Context, run *domain.ReconciliationRun, logger *slog.Logger) error {
	accounts, err := s.accountRepo.ListActiveAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active accounts: %w", err)
	}

	for _, acc := range accounts {
		if err := ctx.Err(); err != nil {
			return err
		}
		computed, err := s.journal.ComputeBalance(ctx, acc.AccountID)
		if err != nil {
			return fmt.Errorf("failed to compute balance for %s: %w", acc.Code, err)
		}
		run.AccountsChecked++
		now := s.Now()

		diff := acc.CachedBalance - computed
		if diff == 0 {
			if err := s.accountRepo.MarkReconciled(ctx, acc.AccountID, now); err != nil {
				return fmt.Errorf("failed to mark %s reconciled: %w", acc.Code, err)
			}
			continue
		}

		d := domain.Discrepancy{
			AccountID:       acc.AccountID,
			UserID:          acc.UserID,
			Source:          domain.DiscrepancySourceJournal,
			CachedBalance:   acc.CachedBalance,
			ComputedBalance: computed,
			Difference:      diff,
		}
		accLogger := logger.With(
			slog.String("account_id", acc.AccountID),
			slog.String("code", acc.Code),
			slog.Int64("cached", acc.CachedBalance),
			slog.Int64("computed", computed))

		if abs(diff) <= s.threshold {
			healed, err := s.accountRepo.CorrectCachedBalance(ctx, acc.AccountID, acc.CachedBalance, computed, now)
			if err != nil {
				return fmt.Errorf("failed to correct balance for %s: %w", acc.Code, err)
			}
			if !healed {
				// A posting landed between the read and the correction.
				accLogger.Info("Cached balance moved during reconciliation, skipping correction")
				continue
			}
			d.AutoResolved = true
			accLogger.Warn("Cached balance drift auto-corrected")
		} else {
			accLogger.Error("Cached balance drift exceeds auto-heal threshold", slog.Int64("threshold", s.threshold))
		}
		run.Discrepancies = append(run.Discrepancies, d)
	}
	return nil
}

func (s *reconciliationService) externalPass(ctx context.Context, run *domain.ReconciliationRun, logger *slog.Logger) error {
	links, err := s.linkRepo.ListLinks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list financial account links: %w", err)
	}

	seen := make(map[string]bool, len(links))
	for _, link := range links {
		if seen[link.UserID] {
			continue
		}
		seen[link.UserID] = true
		if err := ctx.Err(); err != nil {
			return err
		}

		accounts, err := s.accountRepo.ListAccountsByUser(ctx, link.UserID)
		if err != nil {
			return fmt.Errorf("failed to list accounts for user %s: %w", link.UserID, err)
		}
		var cached, computed int64
		for _, acc := range accounts {
			if acc.Category != domain.CategoryUserBucket {
				continue
			}
			c, err := s.journal.ComputeBalance(ctx, acc.AccountID)
			if err != nil {
				return fmt.Errorf("failed to compute balance for %s: %w", acc.Code, err)
			}
			cached += acc.CachedBalance
			computed += c
			run.AccountsChecked++
		}
		if cached != computed {
			logger.Error("User bucket total disagrees with journal",
				slog.String("user_id", link.UserID),
				slog.Int64("cached", cached),
				slog.Int64("computed", computed))
			run.Discrepancies = append(run.Discrepancies, domain.Discrepancy{
				UserID:          link.UserID,
				Source:          domain.DiscrepancySourceJournal,
				CachedBalance:   cached,
				ComputedBalance: computed,
				Difference:      cached - computed,
			})
		}
	}

	if s.treasury == nil {
		return nil
	}
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return err
		}
		linkLogger := logger.With(
			slog.String("financial_account_id", link.FinancialAccountID),
			slog.String("user_id", link.UserID))

		bucket, err := s.accountRepo.FindAccountByCode(ctx, domain.BucketAccountCode(link.UserID, link.BucketType))
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				linkLogger.Warn("Linked bucket account does not exist")
				continue
			}
			return fmt.Errorf("failed to load linked bucket for %s: %w", link.FinancialAccountID, err)
		}
		providerBalance, err := s.treasury.GetFinancialAccountBalance(ctx, link.FinancialAccountID)
		if err != nil {
			linkLogger.Warn("Provider balance unavailable, skipping", slog.String("error", err.Error()))
			continue
		}
		if providerBalance != bucket.CachedBalance {
			linkLogger.Error("Provider balance disagrees with ledger",
				slog.Int64("ledger", bucket.CachedBalance),
				slog.Int64("provider", providerBalance))
			run.Discrepancies = append(run.Discrepancies, domain.Discrepancy{
				AccountID:       link.FinancialAccountID,
				UserID:          link.UserID,
				Source:          domain.DiscrepancySourceProvider,
				CachedBalance:   bucket.CachedBalance,
				ComputedBalance: providerBalance,
				Difference:      bucket.CachedBalance - providerBalance,
			})
		}
	}
	return nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
