package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
	"github.com/SscSPs/family_bank/internal/models"
	"github.com/SscSPs/family_bank/internal/utils/mapping"
)

const accountColumns = `account_id, code, name, account_type, category, user_id, family_id, bucket_type,
	cached_balance, is_active, last_reconciled_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for ledger account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*domain.LedgerAccount, error) {
	var m models.LedgerAccount
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Category,
		&m.UserID,
		&m.FamilyID,
		&m.BucketType,
		&m.CachedBalance,
		&m.IsActive,
		&m.LastReconciledAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	acc := mapping.ToDomainLedgerAccount(m)
	return &acc, nil
}

func collectAccounts(rows pgx.Rows) ([]domain.LedgerAccount, error) {
	defer rows.Close()
	accounts := []domain.LedgerAccount{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM ledger_accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return acc, nil
}

// FindAccountByCode retrieves an account by its unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.LedgerAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM ledger_accounts WHERE code = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return acc, nil
}

func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.LedgerAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM ledger_accounts WHERE user_id = $1 ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}
	return collectAccounts(rows)
}

func (r *PgxAccountRepository) ListActiveAccounts(ctx context.Context) ([]domain.LedgerAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM ledger_accounts WHERE is_active ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active accounts: %w", err)
	}
	return collectAccounts(rows)
}

func (r *PgxAccountRepository) FamilyHasMembers(ctx context.Context, familyID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ledger_accounts WHERE family_id = $1 AND category = $2);`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, familyID, string(domain.CategoryUserBucket)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check members of family %s: %w", familyID, err)
	}
	return exists, nil
}

// SaveAccount inserts the account unless its code is taken, then returns the
// stored row for that code.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.LedgerAccount) (*domain.LedgerAccount, error) {
	m := mapping.ToModelLedgerAccount(account)
	query := `
		INSERT INTO ledger_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (code) DO NOTHING;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Category,
		m.UserID,
		m.FamilyID,
		m.BucketType,
		m.CachedBalance,
		m.IsActive,
		m.LastReconciledAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return nil, fmt.Errorf("failed to save account %s: %w", m.Code, err)
	}
	return r.FindAccountByCode(ctx, m.Code)
}

func (r *PgxAccountRepository) MarkReconciled(ctx context.Context, accountID string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE ledger_accounts SET last_reconciled_at = $2 WHERE account_id = $1;`, accountID, at)
	if err != nil {
		return fmt.Errorf("failed to mark account %s reconciled: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CorrectCachedBalance is a compare-and-set on cached_balance.
func (r *PgxAccountRepository) CorrectCachedBalance(ctx context.Context, accountID string, expected, corrected int64, at time.Time) (bool, error) {
	query := `
		UPDATE ledger_accounts
		SET cached_balance = $3, last_reconciled_at = $4, last_updated_at = $4, last_updated_by = $5
		WHERE account_id = $1 AND cached_balance = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, accountID, expected, corrected, at, domain.SystemActor)
	if err != nil {
		return false, fmt.Errorf("failed to correct balance of account %s: %w", accountID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// FindAccountsByIDsForUpdate retrieves accounts by IDs and locks the rows for update.
// Rows are locked in account_id order so concurrent postings cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.LedgerAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM ledger_accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.LedgerAccount, len(accounts))
	for _, acc := range accounts {
		byID[acc.AccountID] = acc
	}
	for _, id := range accountIDs {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, id)
		}
	}
	return byID, nil
}

// SetAccountBalancesInTx writes new cached balances within a given transaction.
func (r *PgxAccountRepository) SetAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balances map[string]int64, now time.Time) error {
	batch := &pgx.Batch{}
	query := `UPDATE ledger_accounts SET cached_balance = $2, last_updated_at = $3 WHERE account_id = $1;`
	for id, balance := range balances {
		batch.Queue(query, id, balance, now)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range balances {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to update account balance: %w", err)
		}
	}
	return nil
}
