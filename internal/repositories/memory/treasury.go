package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
)

func (s *Store) MarkEventProcessed(_ context.Context, event domain.ProcessedEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processed[event.EventID]; ok {
		return false, nil
	}
	s.processed[event.EventID] = event
	return true, nil
}

func (s *Store) IsEventProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.processed[eventID]
	return ok, nil
}

func (s *Store) SaveLink(_ context.Context, link domain.FinancialAccountLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[link.FinancialAccountID]; ok {
		return fmt.Errorf("%w: financial account %s", apperrors.ErrDuplicate, link.FinancialAccountID)
	}
	s.links[link.FinancialAccountID] = link
	return nil
}

func (s *Store) FindLinkByFinancialAccount(_ context.Context, financialAccountID string) (*domain.FinancialAccountLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[financialAccountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &link, nil
}

func (s *Store) ListLinks(_ context.Context) ([]domain.FinancialAccountLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.FinancialAccountLink, 0, len(s.links))
	for _, link := range s.links {
		out = append(out, link)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FinancialAccountID < out[j].FinancialAccountID })
	return out, nil
}

func (s *Store) SaveCard(_ context.Context, card domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[card.CardID]; ok {
		return fmt.Errorf("%w: card %s", apperrors.ErrDuplicate, card.CardID)
	}
	s.cards[card.CardID] = card
	return nil
}

func (s *Store) FindCardByID(_ context.Context, cardID string) (*domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	card, ok := s.cards[cardID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &card, nil
}

func (s *Store) AddCardSpend(_ context.Context, cardID string, month string, delta int64) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[cardID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if card.SpendMonth != month {
		card.SpendMonth = month
		card.MonthToDateSpend = 0
	}
	card.MonthToDateSpend += delta
	if card.MonthToDateSpend < 0 {
		card.MonthToDateSpend = 0
	}
	s.cards[cardID] = card
	return &card, nil
}

func (s *Store) SaveTransfer(_ context.Context, transfer domain.ExternalTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[transfer.TransferID]; ok {
		return fmt.Errorf("%w: transfer %s", apperrors.ErrDuplicate, transfer.TransferID)
	}
	s.transfers[transfer.TransferID] = transfer
	return nil
}

func (s *Store) FindTransferByID(_ context.Context, transferID string) (*domain.ExternalTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transfers[transferID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (s *Store) UpdateTransferStatus(_ context.Context, transferID string, status domain.TransferStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transfers[transferID]
	if !ok {
		return apperrors.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = at
	s.transfers[transferID] = t
	return nil
}

func (s *Store) FindAllocationSplit(_ context.Context, familyID string) (*domain.AllocationSplit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	split, ok := s.splits[familyID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &split, nil
}

func (s *Store) SaveAllocationSplit(_ context.Context, familyID string, split domain.AllocationSplit, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.splits[familyID] = split
	return nil
}

func (s *Store) CreateRun(_ context.Context, run domain.ReconciliationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.RunID]; ok {
		return fmt.Errorf("%w: run %s", apperrors.ErrDuplicate, run.RunID)
	}
	s.runs[run.RunID] = cloneRun(run)
	s.runOrder = append(s.runOrder, run.RunID)
	return nil
}

func (s *Store) UpdateRun(_ context.Context, run domain.ReconciliationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.RunID]; !ok {
		return apperrors.ErrNotFound
	}
	s.runs[run.RunID] = cloneRun(run)
	return nil
}

func (s *Store) FindRunByID(_ context.Context, runID string) (*domain.ReconciliationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := cloneRun(run)
	return &cp, nil
}

func (s *Store) ListRuns(_ context.Context, limit int) ([]domain.ReconciliationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.ReconciliationRun{}
	for i := len(s.runOrder) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, cloneRun(s.runs[s.runOrder[i]]))
	}
	return out, nil
}

func cloneRun(run domain.ReconciliationRun) domain.ReconciliationRun {
	d := make([]domain.Discrepancy, len(run.Discrepancies))
	copy(d, run.Discrepancies)
	run.Discrepancies = d
	if run.CompletedAt != nil {
		t := *run.CompletedAt
		run.CompletedAt = &t
	}
	return run
}
