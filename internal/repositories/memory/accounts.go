package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
)

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.LedgerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (s *Store) FindAccountByCode(_ context.Context, code string) (*domain.LedgerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.accountsByCode[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *s.accounts[id]
	return &cp, nil
}

func (s *Store) ListAccountsByUser(_ context.Context, userID string) ([]domain.LedgerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.LedgerAccount{}
	for _, acc := range s.accounts {
		if acc.UserID == userID {
			out = append(out, *acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) ListActiveAccounts(_ context.Context) ([]domain.LedgerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.LedgerAccount{}
	for _, acc := range s.accounts {
		if acc.IsActive {
			out = append(out, *acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) FamilyHasMembers(_ context.Context, familyID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if acc.Category == domain.CategoryUserBucket && acc.FamilyID == familyID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SaveAccount(_ context.Context, account domain.LedgerAccount) (*domain.LedgerAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.accountsByCode[account.Code]; ok {
		cp := *s.accounts[id]
		return &cp, nil
	}
	if _, ok := s.accounts[account.AccountID]; ok {
		return nil, fmt.Errorf("%w: account id %s", apperrors.ErrDuplicate, account.AccountID)
	}
	stored := account
	s.accounts[stored.AccountID] = &stored
	s.accountsByCode[stored.Code] = stored.AccountID
	cp := stored
	return &cp, nil
}

func (s *Store) MarkReconciled(_ context.Context, accountID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	t := at
	acc.LastReconciledAt = &t
	return nil
}

func (s *Store) CorrectCachedBalance(_ context.Context, accountID string, expected, corrected int64, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return false, apperrors.ErrNotFound
	}
	if acc.CachedBalance != expected {
		return false, nil
	}
	t := at
	acc.CachedBalance = corrected
	acc.LastReconciledAt = &t
	acc.LastUpdatedAt = at
	return true, nil
}

// SetCachedBalance overwrites a balance without a journal entry. It exists so
// tests can simulate drift; nothing in the application calls it.
func (s *Store) SetCachedBalance(accountID string, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[accountID]; ok {
		acc.CachedBalance = balance
	}
}

// SetAccountActive toggles an account's active flag.
func (s *Store) SetAccountActive(accountID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[accountID]; ok {
		acc.IsActive = active
	}
}
