package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/SscSPs/family_bank/internal/utils/accounting"
)

func (s *Store) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *Store) ListEntriesByGroup(_ context.Context, groupID string) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.JournalEntry{}
	for _, id := range s.entryOrder {
		if e := s.entries[id]; e.GroupID == groupID {
			out = append(out, *e)
		}
	}
	sortBySequence(out)
	return out, nil
}

func (s *Store) ListEntriesByAccount(_ context.Context, accountID string, afterSequence int64, limit int) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.JournalEntry{}
	for _, id := range s.entryOrder {
		e := s.entries[id]
		if e.Sequence <= afterSequence {
			continue
		}
		if e.DebitAccountID == accountID || e.CreditAccountID == accountID {
			out = append(out, *e)
		}
	}
	sortBySequence(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SumAccountActivity(_ context.Context, accountID string) (domain.AccountActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	activity := domain.AccountActivity{AccountID: accountID}
	for _, e := range s.entries {
		if e.DebitAccountID == accountID {
			activity.DebitTotal += e.Amount
			activity.EntryCount++
		}
		if e.CreditAccountID == accountID {
			activity.CreditTotal += e.Amount
			activity.EntryCount++
		}
	}
	return activity, nil
}

func (s *Store) PostEntry(_ context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.applyLocked(&entry); err != nil {
		return nil, err
	}
	cp := entry
	return &cp, nil
}

func (s *Store) PostReversal(_ context.Context, reversal domain.JournalEntry) (*domain.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	original, ok := s.entries[reversal.ReversesEntryID]
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, reversal.ReversesEntryID)
	}
	if original.ReversedByEntryID != "" {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyReversed, original.EntryID)
	}
	if err := s.applyLocked(&reversal); err != nil {
		return nil, err
	}
	original.ReversedByEntryID = reversal.EntryID
	cp := reversal
	return &cp, nil
}

// applyLocked validates the posting, assigns its sequence and applies it.
// Callers hold the write lock. A rejected posting still consumes a sequence
// number, as a Postgres sequence would.
func (s *Store) applyLocked(entry *domain.JournalEntry) error {
	s.sequence++
	entry.Sequence = s.sequence
	if _, dup := s.entries[entry.EntryID]; dup {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	debit, ok := s.accounts[entry.DebitAccountID]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, entry.DebitAccountID)
	}
	credit, ok := s.accounts[entry.CreditAccountID]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, entry.CreditAccountID)
	}
	newDebit, newCredit, err := accounting.ApplyEntry(debit, credit, entry.Amount)
	if err != nil {
		return err
	}

	debit.CachedBalance = newDebit
	debit.LastUpdatedAt = entry.CreatedAt
	credit.CachedBalance = newCredit
	credit.LastUpdatedAt = entry.CreatedAt

	stored := *entry
	s.entries[stored.EntryID] = &stored
	s.entryOrder = append(s.entryOrder, stored.EntryID)
	return nil
}

func sortBySequence(entries []domain.JournalEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Sequence < entries[j].Sequence })
}
