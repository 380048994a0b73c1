package services

import (
	"context"

	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/SscSPs/family_bank/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntryByID retrieves a specific journal entry by its ID.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntriesByGroup returns every entry of one logical multi-posting transaction.
	ListEntriesByGroup(ctx context.Context, groupID string) ([]domain.JournalEntry, error)

	// ListAccountEntries pages through an account's entries in sequence order.
	ListAccountEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// JournalWriterSvc defines the posting operations. These are the only
// operations in the system that change a cached balance.
type JournalWriterSvc interface {
	// CreateEntry posts one debit/credit pair.
	CreateEntry(ctx context.Context, debitAccountID string, creditAccountID string, amount int64, metadata domain.EntryMetadata) (*domain.JournalEntry, error)

	// CreateEntryGroup posts each posting in order under one shared group id.
	// A failure partway returns the already-posted entries together with an
	// error matching apperrors.ErrPartialGroup.
	CreateEntryGroup(ctx context.Context, postings []domain.Posting) ([]domain.JournalEntry, error)

	// ReverseEntry posts the mirror image of an entry and links both ways.
	ReverseEntry(ctx context.Context, entryID string, reason string, actorID string) (*domain.JournalEntry, error)
}

// JournalCalculatorSvc defines calculation operations related to journals
type JournalCalculatorSvc interface {
	// ComputeBalance recomputes an account balance from its full journal history.
	ComputeBalance(ctx context.Context, accountID string) (int64, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalCalculatorSvc
}
