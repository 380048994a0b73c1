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
	"github.com/SscSPs/family_bank/internal/utils/accounting"
	"github.com/SscSPs/family_bank/internal/utils/mapping"
)

const entryColumns = `entry_id, sequence, debit_account_id, credit_account_id, amount, description, category,
	source_type, source_id, group_id, actor_id, chore_id, loan_id, external_transaction_id,
	is_reversal, reverses_entry_id, reversed_by_entry_id, created_at`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryWithTx
}

// newPgxJournalRepository creates a new repository for journal entries.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryWithTx) *PgxJournalRepository {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.Sequence,
		&m.DebitAccountID,
		&m.CreditAccountID,
		&m.Amount,
		&m.Description,
		&m.Category,
		&m.SourceType,
		&m.SourceID,
		&m.GroupID,
		&m.ActorID,
		&m.ChoreID,
		&m.LoanID,
		&m.ExternalTransactionID,
		&m.IsReversal,
		&m.ReversesEntryID,
		&m.ReversedByEntryID,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e := mapping.ToDomainJournalEntry(m)
	return &e, nil
}

func collectEntries(rows pgx.Rows) ([]domain.JournalEntry, error) {
	defer rows.Close()
	entries := []domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return entries, nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	e, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return e, nil
}

func (r *PgxJournalRepository) ListEntriesByGroup(ctx context.Context, groupID string) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE group_id = $1 ORDER BY sequence;`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for group %s: %w", groupID, err)
	}
	return collectEntries(rows)
}

func (r *PgxJournalRepository) ListEntriesByAccount(ctx context.Context, accountID string, afterSequence int64, limit int) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE (debit_account_id = $1 OR credit_account_id = $1) AND sequence > $2
		ORDER BY sequence
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, afterSequence, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for account %s: %w", accountID, err)
	}
	return collectEntries(rows)
}

func (r *PgxJournalRepository) SumAccountActivity(ctx context.Context, accountID string) (domain.AccountActivity, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE debit_account_id = $1), 0),
			COALESCE(SUM(amount) FILTER (WHERE credit_account_id = $1), 0),
			COUNT(*)
		FROM journal_entries
		WHERE debit_account_id = $1 OR credit_account_id = $1;
	`
	activity := domain.AccountActivity{AccountID: accountID}
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(&activity.DebitTotal, &activity.CreditTotal, &activity.EntryCount)
	if err != nil {
		return domain.AccountActivity{}, fmt.Errorf("failed to sum activity for account %s: %w", accountID, err)
	}
	return activity, nil
}

// PostEntry locks both accounts, applies the posting and writes the entry
// and new balances in one transaction.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		return r.applyInTx(ctx, tx, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// PostReversal posts the reversal and links the original to it. The original
// row is locked first so two concurrent reversals cannot both succeed.
func (r *PgxJournalRepository) PostReversal(ctx context.Context, reversal domain.JournalEntry) (*domain.JournalEntry, error) {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var reversedBy *string
		err := tx.QueryRow(ctx,
			`SELECT reversed_by_entry_id FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`,
			reversal.ReversesEntryID).Scan(&reversedBy)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, reversal.ReversesEntryID)
			}
			return fmt.Errorf("failed to lock journal entry %s: %w", reversal.ReversesEntryID, err)
		}
		if reversedBy != nil {
			return fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyReversed, reversal.ReversesEntryID)
		}

		if err := r.applyInTx(ctx, tx, &reversal); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE journal_entries SET reversed_by_entry_id = $2 WHERE entry_id = $1;`,
			reversal.ReversesEntryID, reversal.EntryID)
		if err != nil {
			return fmt.Errorf("failed to link reversal of %s: %w", reversal.ReversesEntryID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reversal, nil
}

// applyInTx draws the entry's sequence only once both account rows are
// locked, so two postings on the same account commit in sequence order.
func (r *PgxJournalRepository) applyInTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry) error {
	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{entry.DebitAccountID, entry.CreditAccountID})
	if err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, `SELECT nextval('journal_entry_seq');`).Scan(&entry.Sequence); err != nil {
		return fmt.Errorf("failed to draw journal sequence: %w", err)
	}
	debit := locked[entry.DebitAccountID]
	credit := locked[entry.CreditAccountID]

	newDebit, newCredit, err := accounting.ApplyEntry(&debit, &credit, entry.Amount)
	if err != nil {
		return err
	}

	m := mapping.ToModelJournalEntry(*entry)
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, query,
		m.EntryID,
		m.Sequence,
		m.DebitAccountID,
		m.CreditAccountID,
		m.Amount,
		m.Description,
		m.Category,
		m.SourceType,
		m.SourceID,
		m.GroupID,
		m.ActorID,
		m.ChoreID,
		m.LoanID,
		m.ExternalTransactionID,
		m.IsReversal,
		m.ReversesEntryID,
		m.ReversedByEntryID,
		m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, m.EntryID)
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryID, err)
	}

	return r.accountRepo.SetAccountBalancesInTx(ctx, tx, map[string]int64{
		debit.AccountID:  newDebit,
		credit.AccountID: newCredit,
	}, entry.CreatedAt)
}
