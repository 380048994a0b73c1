package services_test

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/family_bank/internal/core/domain"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/core/services"
	"github.com/SscSPs/family_bank/internal/platform/config"
	"github.com/SscSPs/family_bank/internal/repositories/memory"
)

const (
	testFamily = "fam-1"
	testParent = "parent-1"
)

// ledgerSuite runs services against the in-memory store with system accounts seeded.
type ledgerSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer
}

func (s *ledgerSuite) SetupTest() {
	s.setup(services.Collaborators{})
}

func (s *ledgerSuite) setup(collab services.Collaborators) {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	cfg := &config.Config{AutoHealThresholdCents: services.DefaultAutoHealThreshold}
	s.svc = services.NewServiceContainer(cfg, memory.NewRepositoryProvider(s.store), collab)
	s.Require().NoError(s.svc.Account.SeedSystemAccounts(s.ctx))
	// The parent founds the family every test works in.
	_, err := s.svc.Account.EnsureUserBuckets(s.ctx, testParent, testFamily, nil, testParent)
	s.Require().NoError(err)
}

func (s *ledgerSuite) buckets(userID string, types ...domain.BucketType) map[domain.BucketType]domain.LedgerAccount {
	accounts, err := s.svc.Account.EnsureUserBuckets(s.ctx, userID, testFamily, types, testParent)
	s.Require().NoError(err)
	out := make(map[domain.BucketType]domain.LedgerAccount, len(accounts))
	for _, a := range accounts {
		out[a.BucketType] = a
	}
	return out
}

func (s *ledgerSuite) system(code string) domain.LedgerAccount {
	acc, err := s.svc.Account.GetAccountByCode(s.ctx, code)
	s.Require().NoError(err)
	return *acc
}

// fund posts a parent deposit straight into one account.
func (s *ledgerSuite) fund(accountID string, cents int64) {
	pool := s.system(domain.SystemParentDepositPool)
	_, err := s.svc.Journal.CreateEntry(s.ctx, accountID, pool.AccountID, cents, domain.EntryMetadata{
		Category:   domain.EntryDeposit,
		SourceType: domain.SourceParentDeposit,
		ActorID:    testParent,
	})
	s.Require().NoError(err)
}

func (s *ledgerSuite) balance(accountID string) int64 {
	acc, err := s.svc.Account.GetAccountByID(s.ctx, accountID)
	s.Require().NoError(err)
	return acc.CachedBalance
}

func (s *ledgerSuite) assertReconciled(accountIDs ...string) {
	for _, id := range accountIDs {
		computed, err := s.svc.Journal.ComputeBalance(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(s.balance(id), computed, "cached and computed balance differ for %s", id)
	}
}
