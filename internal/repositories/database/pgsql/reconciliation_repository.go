package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
	"github.com/SscSPs/family_bank/internal/models"
	"github.com/SscSPs/family_bank/internal/utils/mapping"
)

const runColumns = `run_id, run_type, status, started_at, completed_at, accounts_checked, discrepancies, error_message`

type PgxReconciliationRepository struct {
	pool *pgxpool.Pool
}

func newPgxReconciliationRepository(pool *pgxpool.Pool) *PgxReconciliationRepository {
	return &PgxReconciliationRepository{pool: pool}
}

var _ portsrepo.ReconciliationRunRepository = (*PgxReconciliationRepository)(nil)

func scanRun(row pgx.Row) (*domain.ReconciliationRun, error) {
	var m models.ReconciliationRun
	err := row.Scan(&m.RunID, &m.RunType, &m.Status, &m.StartedAt, &m.CompletedAt, &m.AccountsChecked, &m.Discrepancies, &m.ErrorMessage)
	if err != nil {
		return nil, err
	}
	run, err := mapping.ToDomainReconciliationRun(m)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *PgxReconciliationRepository) CreateRun(ctx context.Context, run domain.ReconciliationRun) error {
	m, err := mapping.ToModelReconciliationRun(run)
	if err != nil {
		return err
	}
	query := `INSERT INTO reconciliation_runs (` + runColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	_, err = r.pool.Exec(ctx, query, m.RunID, m.RunType, m.Status, m.StartedAt, m.CompletedAt, m.AccountsChecked, m.Discrepancies, m.ErrorMessage)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: reconciliation run %s", apperrors.ErrDuplicate, m.RunID)
		}
		return fmt.Errorf("failed to create reconciliation run %s: %w", m.RunID, err)
	}
	return nil
}

func (r *PgxReconciliationRepository) UpdateRun(ctx context.Context, run domain.ReconciliationRun) error {
	m, err := mapping.ToModelReconciliationRun(run)
	if err != nil {
		return err
	}
	query := `
		UPDATE reconciliation_runs
		SET status = $2, completed_at = $3, accounts_checked = $4, discrepancies = $5, error_message = $6
		WHERE run_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, m.RunID, m.Status, m.CompletedAt, m.AccountsChecked, m.Discrepancies, m.ErrorMessage)
	if err != nil {
		return fmt.Errorf("failed to update reconciliation run %s: %w", m.RunID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxReconciliationRepository) FindRunByID(ctx context.Context, runID string) (*domain.ReconciliationRun, error) {
	run, err := scanRun(r.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM reconciliation_runs WHERE run_id = $1;`, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation run %s: %w", runID, err)
	}
	return run, nil
}

func (r *PgxReconciliationRepository) ListRuns(ctx context.Context, limit int) ([]domain.ReconciliationRun, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+runColumns+` FROM reconciliation_runs ORDER BY started_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliation runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.ReconciliationRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation runs: %w", err)
	}
	return runs, nil
}
