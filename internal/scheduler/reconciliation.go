// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
)

// ReconciliationScheduler runs the internal and then the external
// reconciliation pass on a fixed interval.
type ReconciliationScheduler struct {
	svc      portssvc.ReconciliationSvcFacade
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewReconciliationScheduler(svc portssvc.ReconciliationSvcFacade, interval time.Duration, logger *slog.Logger) *ReconciliationScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconciliationScheduler{svc: svc, interval: interval, logger: logger.With(slog.String("component", "reconciliation_scheduler"))}
}

// Start launches the loop. The first pass runs immediately. Calling Start on
// a running scheduler does nothing.
func (s *ReconciliationScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	if s.interval <= 0 {
		s.logger.Info("Reconciliation interval not set, scheduler disabled")
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.run(runCtx)

	s.logger.Info("Reconciliation scheduler started", slog.Duration("interval", s.interval))
}

// Stop cancels the loop and waits for an in-flight pass to finish.
func (s *ReconciliationScheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("Reconciliation scheduler stopped")
}

func (s *ReconciliationScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs one internal pass followed by one external pass. Errors
// are logged; the runs themselves record their failure.
func (s *ReconciliationScheduler) RunOnce(ctx context.Context) {
	internal, err := s.svc.RunInternal(ctx)
	if err != nil {
		s.logger.Error("Internal reconciliation failed", slog.String("error", err.Error()))
	} else {
		s.logger.Info("Internal reconciliation finished",
			slog.String("run_id", internal.RunID),
			slog.String("status", string(internal.Status)),
			slog.Int("accounts_checked", internal.AccountsChecked))
	}

	if ctx.Err() != nil {
		return
	}

	external, err := s.svc.RunExternal(ctx)
	if err != nil {
		s.logger.Error("External reconciliation failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("External reconciliation finished",
		slog.String("run_id", external.RunID),
		slog.String("status", string(external.Status)),
		slog.Int("accounts_checked", external.AccountsChecked))
}
