package repositories

import (
	"context"

	"github.com/SscSPs/family_bank/internal/core/domain"
)

// ReconciliationRunRepository stores reconciliation run records.
type ReconciliationRunRepository interface {
	CreateRun(ctx context.Context, run domain.ReconciliationRun) error
	UpdateRun(ctx context.Context, run domain.ReconciliationRun) error
	FindRunByID(ctx context.Context, runID string) (*domain.ReconciliationRun, error)
	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]domain.ReconciliationRun, error)
}
