package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/dto"
	"github.com/SscSPs/family_bank/internal/platform/metrics"
	"github.com/SscSPs/family_bank/internal/utils/accounting"
	"github.com/SscSPs/family_bank/internal/utils/pagination"
)

var (
	ErrSameAccount   = fmt.Errorf("%w: debit and credit accounts must differ", apperrors.ErrValidation)
	ErrEmptyGroup    = fmt.Errorf("%w: entry group has no postings", apperrors.ErrValidation)
	ErrMissingReason = fmt.Errorf("%w: a reversal reason is required", apperrors.ErrValidation)
)

// journalService is the Journal Engine, the single point of balance mutation.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateEntry posts a single entry under a fresh group id.
func (s *journalService) CreateEntry(ctx context.Context, debitAccountID string, creditAccountID string, amount int64, metadata domain.EntryMetadata) (*domain.JournalEntry, error) {
	return s.post(ctx, domain.Posting{
		DebitAccountID:  debitAccountID,
		CreditAccountID: creditAccountID,
		Amount:          amount,
		Metadata:        metadata,
	}, uuid.NewString())
}

// CreateEntryGroup posts each posting in order. Every posting is atomic on its
// own; the group as a whole is not, and nothing is rolled back on failure.
func (s *journalService) CreateEntryGroup(ctx context.Context, postings []domain.Posting) ([]domain.JournalEntry, error) {
	if len(postings) == 0 {
		return nil, ErrEmptyGroup
	}

	groupID := uuid.NewString()
	logger := s.GetLogger(ctx).With(slog.String("group_id", groupID))
	posted := make([]domain.JournalEntry, 0, len(postings))

	for i, p := range postings {
		entry, err := s.post(ctx, p, groupID)
		if err != nil {
			if len(posted) == 0 {
				return nil, err
			}
			ids := make([]string, len(posted))
			for j := range posted {
				ids[j] = posted[j].EntryID
			}
			metrics.PartialGroups.Inc()
			logger.Error("Entry group partially posted; manual review required",
				slog.Int("failed_index", i),
				slog.Any("posted_entry_ids", ids),
				slog.String("error", err.Error()))
			return posted, &apperrors.PartialGroupError{
				GroupID:        groupID,
				PostedEntryIDs: ids,
				FailedIndex:    i,
				Err:            err,
			}
		}
		posted = append(posted, *entry)
	}

	logger.Info("Entry group posted", slog.Int("entries", len(posted)))
	return posted, nil
}

// ReverseEntry posts the mirror image of an entry and links the two.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, reason string, actorID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(slog.String("original_entry_id", entryID))
	if reason == "" {
		return nil, ErrMissingReason
	}

	original, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original.ReversedByEntryID != "" {
		return nil, fmt.Errorf("%w: entry %s reversed by %s", apperrors.ErrAlreadyReversed, entryID, original.ReversedByEntryID)
	}

	reversal := domain.JournalEntry{
		EntryID:               uuid.NewString(),
		DebitAccountID:        original.CreditAccountID,
		CreditAccountID:       original.DebitAccountID,
		Amount:                original.Amount,
		Description:           fmt.Sprintf("Reversal of %s: %s", original.EntryID, reason),
		Category:              domain.EntryReversal,
		SourceType:            original.SourceType,
		SourceID:              original.SourceID,
		GroupID:               uuid.NewString(),
		ActorID:               actorID,
		ChoreID:               original.ChoreID,
		LoanID:                original.LoanID,
		ExternalTransactionID: original.ExternalTransactionID,
		IsReversal:            true,
		ReversesEntryID:       original.EntryID,
		CreatedAt:             s.Now(),
	}

	posted, err := s.journalRepo.PostReversal(ctx, reversal)
	if err != nil {
		metrics.PostingFailures.WithLabelValues(failureReason(err)).Inc()
		logger.Warn("Reversal rejected", slog.String("error", err.Error()))
		return nil, err
	}

	metrics.EntriesPosted.WithLabelValues(string(domain.EntryReversal)).Inc()
	logger.Info("Entry reversed", slog.String("reversal_entry_id", posted.EntryID))
	return posted, nil
}

// ComputeBalance recomputes a balance from journal history. It scans the
// account's full history and is not meant for request paths.
func (s *journalService) ComputeBalance(ctx context.Context, accountID string) (int64, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
		}
		return 0, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}
	activity, err := s.journalRepo.SumAccountActivity(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum activity for account %s: %w", accountID, err)
	}
	return accounting.BalanceFromActivity(account.AccountType, activity), nil
}

func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to get journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

func (s *journalService) ListEntriesByGroup(ctx context.Context, groupID string) ([]domain.JournalEntry, error) {
	entries, err := s.journalRepo.ListEntriesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for group %s: %w", groupID, err)
	}
	return entries, nil
}

func (s *journalService) ListAccountEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to load account %s: %w", accountID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	var after int64
	if params.NextToken != "" {
		seq, err := pagination.DecodeSequenceToken(params.NextToken, accountID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		after = seq
	}

	entries, err := s.journalRepo.ListEntriesByAccount(ctx, accountID, after, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for account %s: %w", accountID, err)
	}

	resp := &dto.ListEntriesResponse{}
	if len(entries) > limit {
		entries = entries[:limit]
		resp.NextToken = pagination.EncodeSequenceToken(accountID, entries[limit-1].Sequence)
	}
	resp.Entries = dto.ToEntryListResponse(entries)
	return resp, nil
}

func (s *journalService) post(ctx context.Context, p domain.Posting, groupID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("debit_account_id", p.DebitAccountID),
		slog.String("credit_account_id", p.CreditAccountID),
		slog.Int64("amount", p.Amount),
	)

	if p.Amount <= 0 {
		metrics.PostingFailures.WithLabelValues("validation").Inc()
		return nil, fmt.Errorf("%w: amount must be a positive number of cents, got %d", apperrors.ErrValidation, p.Amount)
	}
	if p.DebitAccountID == "" || p.CreditAccountID == "" {
		metrics.PostingFailures.WithLabelValues("validation").Inc()
		return nil, fmt.Errorf("%w: both debit and credit accounts are required", apperrors.ErrValidation)
	}
	if p.DebitAccountID == p.CreditAccountID {
		metrics.PostingFailures.WithLabelValues("validation").Inc()
		return nil, ErrSameAccount
	}

	m := p.Metadata
	entry := domain.JournalEntry{
		EntryID:               uuid.NewString(),
		DebitAccountID:        p.DebitAccountID,
		CreditAccountID:       p.CreditAccountID,
		Amount:                p.Amount,
		Description:           m.Description,
		Category:              m.Category,
		SourceType:            m.SourceType,
		SourceID:              m.SourceID,
		GroupID:               groupID,
		ActorID:               m.ActorID,
		ChoreID:               m.ChoreID,
		LoanID:                m.LoanID,
		ExternalTransactionID: m.ExternalTransactionID,
		CreatedAt:             s.Now(),
	}

	posted, err := s.journalRepo.PostEntry(ctx, entry)
	if err != nil {
		metrics.PostingFailures.WithLabelValues(failureReason(err)).Inc()
		logger.Warn("Posting rejected", slog.String("error", err.Error()))
		return nil, err
	}

	metrics.EntriesPosted.WithLabelValues(string(posted.Category)).Inc()
	logger.Info("Journal entry posted",
		slog.String("entry_id", posted.EntryID),
		slog.Int64("sequence", posted.Sequence),
		slog.String("category", string(posted.Category)))
	return posted, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, apperrors.ErrInactiveAccount):
		return "inactive_account"
	case errors.Is(err, apperrors.ErrAlreadyReversed):
		return "already_reversed"
	case errors.Is(err, apperrors.ErrNotFound):
		return "account_not_found"
	case errors.Is(err, apperrors.ErrValidation):
		return "validation"
	}
	return "error"
}
