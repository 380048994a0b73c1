package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for ledger account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error)

	// FindAccountByCode retrieves an account by its unique code.
	FindAccountByCode(ctx context.Context, code string) (*domain.LedgerAccount, error)

	// ListAccountsByUser returns every account owned by a user, active or not.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.LedgerAccount, error)

	// ListActiveAccounts returns every active account ordered by code.
	ListActiveAccounts(ctx context.Context) ([]domain.LedgerAccount, error)

	// FamilyHasMembers reports whether any user bucket belongs to the family.
	FamilyHasMembers(ctx context.Context, familyID string) (bool, error)
}

// AccountWriter defines write operations for ledger account data
type AccountWriter interface {
	// SaveAccount inserts the account unless one with the same code exists,
	// and returns whichever account is stored under that code.
	SaveAccount(ctx context.Context, account domain.LedgerAccount) (*domain.LedgerAccount, error)

	// MarkReconciled stamps the account's last successful reconciliation.
	MarkReconciled(ctx context.Context, accountID string, at time.Time) error

	// CorrectCachedBalance sets the cached balance to corrected only if it
	// still equals expected. It reports whether the row was changed.
	CorrectCachedBalance(ctx context.Context, accountID string, expected, corrected int64, at time.Time) (bool, error)
}

// AccountTransactionSupport defines operations used by posting transactions
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them for update within a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.LedgerAccount, error)

	// SetAccountBalancesInTx writes new cached balances within a given transaction.
	SetAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balances map[string]int64, now time.Time) error
}

// AccountRepositoryFacade combines the account operations services use
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	AccountTransactionSupport
	TransactionManager
}
