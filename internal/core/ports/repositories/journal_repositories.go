package repositories

import (
	"context"

	"github.com/SscSPs/family_bank/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID retrieves a journal entry by its ID.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntriesByGroup returns the entries sharing a group id, ordered by sequence.
	ListEntriesByGroup(ctx context.Context, groupID string) ([]domain.JournalEntry, error)

	// ListEntriesByAccount returns up to limit entries touching the account
	// with a sequence greater than afterSequence, ordered by sequence.
	ListEntriesByAccount(ctx context.Context, accountID string, afterSequence int64, limit int) ([]domain.JournalEntry, error)

	// SumAccountActivity totals every entry touching the account, by side.
	SumAccountActivity(ctx context.Context, accountID string) (domain.AccountActivity, error)
}

// JournalWriter defines the posting operations. Each call is one atomic unit:
// the entry row and both accounts' cached balances change together or not at all.
type JournalWriter interface {
	// PostEntry locks both accounts, assigns the next journal sequence,
	// applies the posting rules, inserts the entry and writes the new
	// balances. The sequence is drawn after the locks are held, so sequence
	// order matches the order postings touched each account. A rejected
	// posting can leave a gap.
	PostEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error)

	// PostReversal does what PostEntry does and, in the same unit, links the
	// original entry to the reversal. It fails with ErrAlreadyReversed if the
	// original already has a reversal.
	PostReversal(ctx context.Context, reversal domain.JournalEntry) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
