package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
)

type FamilyServiceTestSuite struct {
	ledgerSuite
}

func TestFamilyService(t *testing.T) {
	suite.Run(t, new(FamilyServiceTestSuite))
}

func (s *FamilyServiceTestSuite) TestSplitDefaultsAndUpdates() {
	split, err := s.svc.Family.GetAllocationSplit(s.ctx, testFamily)
	s.Require().NoError(err)
	s.Equal(domain.DefaultAllocationSplit(), split)

	want := domain.AllocationSplit{Spend: 70, Save: 20, Give: 10}
	s.Require().NoError(s.svc.Family.SetAllocationSplit(s.ctx, testFamily, want, testParent))

	split, err = s.svc.Family.GetAllocationSplit(s.ctx, testFamily)
	s.Require().NoError(err)
	s.Equal(want, split)

	other, err := s.svc.Family.GetAllocationSplit(s.ctx, "fam-2")
	s.Require().NoError(err)
	s.Equal(domain.DefaultAllocationSplit(), other)
}

func (s *FamilyServiceTestSuite) TestSplitValidation() {
	testCases := []struct {
		name  string
		split domain.AllocationSplit
	}{
		{name: "negative", split: domain.AllocationSplit{Spend: 110, Save: -10}},
		{name: "over 100", split: domain.AllocationSplit{Invest: 101}},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := s.svc.Family.SetAllocationSplit(s.ctx, testFamily, tc.split, testParent)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}

	s.ErrorIs(s.svc.Family.SetAllocationSplit(s.ctx, "", domain.AllocationSplit{Spend: 100}, testParent), apperrors.ErrValidation)
}

func (s *FamilyServiceTestSuite) TestLinkFinancialAccount() {
	link, err := s.svc.Family.LinkFinancialAccount(s.ctx, domain.FinancialAccountLink{
		FinancialAccountID: "fa-1", UserID: "kid-1", FamilyID: testFamily, BucketType: domain.BucketSave,
	}, testParent)
	s.Require().NoError(err)
	s.Equal(domain.BucketSave, link.BucketType)
	s.False(link.CreatedAt.IsZero())

	// The linked bucket exists even though nobody created it explicitly.
	_, err = s.svc.Account.GetAccountByCode(s.ctx, domain.BucketAccountCode("kid-1", domain.BucketSave))
	s.NoError(err)

	_, err = s.svc.Family.LinkFinancialAccount(s.ctx, domain.FinancialAccountLink{
		FinancialAccountID: "fa-1", UserID: "kid-2", FamilyID: testFamily,
	}, testParent)
	s.ErrorIs(err, apperrors.ErrConflict)

	_, err = s.svc.Family.LinkFinancialAccount(s.ctx, domain.FinancialAccountLink{
		FinancialAccountID: "fa-3", UserID: "kid-1", FamilyID: testFamily, BucketType: "college",
	}, testParent)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *FamilyServiceTestSuite) TestRegisterCard() {
	card, err := s.svc.Family.RegisterCard(s.ctx, domain.Card{
		CardID: "card_1", UserID: "kid-1", FamilyID: testFamily, MonthlySpendLimit: 5000, MonthToDateSpend: 999,
	}, testParent)
	s.Require().NoError(err)
	s.Zero(card.MonthToDateSpend)
	s.Equal(domain.SpendMonthKey(time.Now()), card.SpendMonth)

	_, err = s.svc.Account.GetAccountByCode(s.ctx, domain.BucketAccountCode("kid-1", domain.BucketSpend))
	s.NoError(err)

	_, err = s.svc.Family.RegisterCard(s.ctx, domain.Card{CardID: "card_1", UserID: "kid-1", FamilyID: testFamily}, testParent)
	s.ErrorIs(err, apperrors.ErrConflict)

	_, err = s.svc.Family.RegisterCard(s.ctx, domain.Card{CardID: "card_2", UserID: "kid-1", FamilyID: testFamily, MonthlySpendLimit: -1}, testParent)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *FamilyServiceTestSuite) TestOutsidersCannotConfigureTheFamily() {
	_, err := s.svc.Account.EnsureUserBuckets(s.ctx, "mallory", "mallory-fam", nil, "mallory")
	s.Require().NoError(err)
	s.buckets("kid-1")

	err = s.svc.Family.SetAllocationSplit(s.ctx, testFamily, domain.AllocationSplit{Invest: 100}, "mallory")
	s.ErrorIs(err, apperrors.ErrForbidden)
	split, err := s.svc.Family.GetAllocationSplit(s.ctx, testFamily)
	s.Require().NoError(err)
	s.Equal(domain.DefaultAllocationSplit(), split)

	_, err = s.svc.Family.LinkFinancialAccount(s.ctx, domain.FinancialAccountLink{
		FinancialAccountID: "fa-evil", UserID: "kid-1", FamilyID: testFamily,
	}, "mallory")
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.svc.Family.LinkFinancialAccount(s.ctx, domain.FinancialAccountLink{
		FinancialAccountID: "fa-evil", UserID: "kid-1", FamilyID: "mallory-fam",
	}, "mallory")
	s.ErrorIs(err, apperrors.ErrForbidden)

	_, err = s.svc.Family.RegisterCard(s.ctx, domain.Card{CardID: "card_evil", UserID: "kid-1", FamilyID: testFamily}, "mallory")
	s.ErrorIs(err, apperrors.ErrForbidden)

	// A user without buckets cannot configure any family either.
	err = s.svc.Family.SetAllocationSplit(s.ctx, testFamily, domain.AllocationSplit{Spend: 100}, "nobody")
	s.ErrorIs(err, apperrors.ErrForbidden)
}
