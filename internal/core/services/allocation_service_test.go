package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/SscSPs/family_bank/internal/core/services"
)

type AllocationServiceTestSuite struct {
	ledgerSuite
}

func TestAllocationService(t *testing.T) {
	suite.Run(t, new(AllocationServiceTestSuite))
}

func (s *AllocationServiceTestSuite) allocate(userID string, total int64) ([]domain.JournalEntry, error) {
	return s.svc.Allocation.AllocateDeposit(s.ctx, domain.DepositAllocation{
		UserID:      userID,
		FamilyID:    testFamily,
		TotalAmount: total,
		SourceType:  domain.SourceParentDeposit,
		Description: "birthday money",
		ActorID:     testParent,
	})
}

func (s *AllocationServiceTestSuite) amountsByBucket(b map[domain.BucketType]domain.LedgerAccount) map[domain.BucketType]int64 {
	out := map[domain.BucketType]int64{}
	for t, acc := range b {
		out[t] = s.balance(acc.AccountID)
	}
	return out
}

func (s *AllocationServiceTestSuite) TestEvenDollarDeposit() {
	s.Require().NoError(s.svc.Family.SetAllocationSplit(s.ctx, testFamily, domain.AllocationSplit{Spend: 50, Save: 30, Give: 10, Invest: 10}, testParent))
	b := s.buckets("kid-1", domain.BucketTypes...)

	entries, err := s.allocate("kid-1", 10000)
	s.Require().NoError(err)

	s.Len(entries, 4)
	for _, e := range entries {
		s.Equal(entries[0].GroupID, e.GroupID)
		s.Equal(domain.EntryDeposit, e.Category)
	}
	s.Equal(map[domain.BucketType]int64{
		domain.BucketSpend:  5000,
		domain.BucketSave:   3000,
		domain.BucketGive:   1000,
		domain.BucketInvest: 1000,
	}, s.amountsByBucket(b))
	s.Equal(int64(10000), s.balance(s.system(domain.SystemParentDepositPool).AccountID))
}

func (s *AllocationServiceTestSuite) TestSpendAbsorbsRemainder() {
	s.Require().NoError(s.svc.Family.SetAllocationSplit(s.ctx, testFamily, domain.AllocationSplit{Spend: 50, Save: 30, Give: 10, Invest: 10}, testParent))
	b := s.buckets("kid-1", domain.BucketTypes...)

	_, err := s.allocate("kid-1", 10001)
	s.Require().NoError(err)

	s.Equal(map[domain.BucketType]int64{
		domain.BucketSpend:  5001,
		domain.BucketSave:   3000,
		domain.BucketGive:   1000,
		domain.BucketInvest: 1000,
	}, s.amountsByBucket(b))
}

func (s *AllocationServiceTestSuite) TestDefaultSplitGoesToSpend() {
	b := s.buckets("kid-1", domain.BucketSpend, domain.BucketSave)

	entries, err := s.allocate("kid-1", 777)
	s.Require().NoError(err)

	s.Len(entries, 1)
	s.Equal(int64(777), s.balance(b[domain.BucketSpend].AccountID))
	s.Zero(s.balance(b[domain.BucketSave].AccountID))
}

func (s *AllocationServiceTestSuite) TestRenormalizesOverExistingBuckets() {
	s.Require().NoError(s.svc.Family.SetAllocationSplit(s.ctx, testFamily, domain.AllocationSplit{Spend: 50, Save: 30, Give: 10, Invest: 10}, testParent))
	b := s.buckets("kid-1", domain.BucketSpend, domain.BucketSave)

	_, err := s.allocate("kid-1", 1000)
	s.Require().NoError(err)

	// 30/80 of 1000 = 375; spend keeps the rest.
	s.Equal(int64(375), s.balance(b[domain.BucketSave].AccountID))
	s.Equal(int64(625), s.balance(b[domain.BucketSpend].AccountID))
}

func (s *AllocationServiceTestSuite) TestChorePayoutUsesChorePool() {
	b := s.buckets("kid-1")
	entries, err := s.svc.Allocation.AllocateDeposit(s.ctx, domain.DepositAllocation{
		UserID: "kid-1", FamilyID: testFamily, TotalAmount: 300,
		SourceType: domain.SourceChorePayout, ChoreID: "chore-9", ActorID: testParent,
	})
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(domain.EntryChorePayout, entries[0].Category)
	s.Equal("chore-9", entries[0].ChoreID)
	s.Equal(s.system(domain.SystemChorePayoutPool).AccountID, entries[0].CreditAccountID)
	s.Equal(int64(300), s.balance(b[domain.BucketSpend].AccountID))
}

func (s *AllocationServiceTestSuite) TestFailures() {
	_, err := s.allocate("kid-without-buckets", 100)
	s.ErrorIs(err, apperrors.ErrNoActiveBuckets)

	s.buckets("kid-1")
	_, err = s.allocate("kid-1", 0)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Allocation.AllocateDeposit(s.ctx, domain.DepositAllocation{
		UserID: "kid-1", FamilyID: testFamily, TotalAmount: 100, SourceType: "lottery",
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AllocationServiceTestSuite) TestInactiveBucketsAreSkipped() {
	s.Require().NoError(s.svc.Family.SetAllocationSplit(s.ctx, testFamily, domain.AllocationSplit{Spend: 50, Save: 50}, testParent))
	b := s.buckets("kid-1", domain.BucketSpend, domain.BucketSave)
	s.store.SetAccountActive(b[domain.BucketSave].AccountID, false)

	_, err := s.allocate("kid-1", 1000)
	s.Require().NoError(err)
	s.Equal(int64(1000), s.balance(b[domain.BucketSpend].AccountID))
}

func bucketsOf(types ...domain.BucketType) []domain.LedgerAccount {
	out := make([]domain.LedgerAccount, len(types))
	for i, t := range types {
		out[i] = domain.LedgerAccount{AccountID: "acc-" + string(t), BucketType: t}
	}
	return out
}

func amounts(allocs []domain.BucketAllocation) map[domain.BucketType]int64 {
	out := map[domain.BucketType]int64{}
	for _, a := range allocs {
		out[a.BucketType] = a.Amount
	}
	return out
}

func TestComputeAllocation(t *testing.T) {
	testCases := []struct {
		name    string
		split   domain.AllocationSplit
		buckets []domain.LedgerAccount
		total   int64
		want    map[domain.BucketType]int64
	}{
		{
			name:    "zero split falls back to spend",
			split:   domain.AllocationSplit{},
			buckets: bucketsOf(domain.BucketSpend, domain.BucketSave),
			total:   500,
			want:    map[domain.BucketType]int64{domain.BucketSpend: 500, domain.BucketSave: 0},
		},
		{
			name:    "zero split without spend is even",
			split:   domain.AllocationSplit{Spend: 100},
			buckets: bucketsOf(domain.BucketSave, domain.BucketGive),
			total:   101,
			want:    map[domain.BucketType]int64{domain.BucketSave: 51, domain.BucketGive: 50},
		},
		{
			name:    "no spend bucket folds remainder into first",
			split:   domain.AllocationSplit{Save: 1, Give: 1, Invest: 1},
			buckets: bucketsOf(domain.BucketSave, domain.BucketGive, domain.BucketInvest),
			total:   100,
			want:    map[domain.BucketType]int64{domain.BucketSave: 34, domain.BucketGive: 33, domain.BucketInvest: 33},
		},
		{
			name:    "split over 100 is renormalized",
			split:   domain.AllocationSplit{Spend: 100, Save: 100},
			buckets: bucketsOf(domain.BucketSpend, domain.BucketSave),
			total:   99,
			want:    map[domain.BucketType]int64{domain.BucketSpend: 50, domain.BucketSave: 49},
		},
		{
			name:    "negative percentages count as zero",
			split:   domain.AllocationSplit{Spend: -20, Save: 40},
			buckets: bucketsOf(domain.BucketSpend, domain.BucketSave),
			total:   10,
			want:    map[domain.BucketType]int64{domain.BucketSpend: 0, domain.BucketSave: 10},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, amounts(services.ComputeAllocation(tc.split, tc.buckets, tc.total)))
		})
	}
}

func TestComputeAllocationIsExact(t *testing.T) {
	splits := []domain.AllocationSplit{
		{Spend: 50, Save: 30, Give: 10, Invest: 10},
		{Spend: 33, Save: 33, Give: 33, Invest: 1},
		{Save: 7, Give: 13},
		{Spend: 0, Save: 0, Give: 0, Invest: 0},
		{Spend: 90, Save: 90, Give: 90, Invest: 90},
		{Spend: 1, Invest: 3},
	}
	bucketSets := [][]domain.LedgerAccount{
		bucketsOf(domain.BucketTypes...),
		bucketsOf(domain.BucketSpend),
		bucketsOf(domain.BucketSave, domain.BucketInvest),
		bucketsOf(domain.BucketSpend, domain.BucketGive),
	}
	totals := []int64{1, 2, 3, 7, 99, 100, 101, 9999, 10001, 123456789}

	for _, split := range splits {
		for _, buckets := range bucketSets {
			for _, total := range totals {
				allocs := services.ComputeAllocation(split, buckets, total)
				var sum int64
				for _, a := range allocs {
					assert.GreaterOrEqual(t, a.Amount, int64(0), "split %+v total %d", split, total)
					sum += a.Amount
				}
				assert.Equal(t, total, sum, "split %+v buckets %d total %d", split, len(buckets), total)
			}
		}
	}
}
