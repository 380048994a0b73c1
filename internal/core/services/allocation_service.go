package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
)

type allocationService struct {
	BaseService
	accounts portssvc.AccountReaderSvc
	family   portssvc.FamilySvcFacade
	journal  portssvc.JournalWriterSvc
}

// NewAllocationService creates the deposit allocation service.
func NewAllocationService(accounts portssvc.AccountReaderSvc, family portssvc.FamilySvcFacade, journal portssvc.JournalWriterSvc) portssvc.AllocationSvc {
	return &allocationService{
		accounts: accounts,
		family:   family,
		journal:  journal,
	}
}

var _ portssvc.AllocationSvc = (*allocationService)(nil)

// AllocateDeposit splits a deposit over the user's active buckets using the
// family split and posts the shares as one entry group.
func (s *allocationService) AllocateDeposit(ctx context.Context, req domain.DepositAllocation) ([]domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("user_id", req.UserID),
		slog.String("family_id", req.FamilyID),
		slog.Int64("total", req.TotalAmount),
		slog.String("source_type", req.SourceType),
	)

	if req.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: deposit amount must be positive, got %d", apperrors.ErrValidation, req.TotalAmount)
	}
	sourceCode, ok := domain.SourceAccountCode(req.SourceType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown deposit source %q", apperrors.ErrValidation, req.SourceType)
	}

	buckets, err := s.accounts.ListActiveBuckets(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNoActiveBuckets, req.UserID)
	}

	source, err := s.accounts.GetAccountByCode(ctx, sourceCode)
	if err != nil {
		return nil, err
	}

	split, err := s.family.GetAllocationSplit(ctx, req.FamilyID)
	if err != nil {
		return nil, err
	}

	shares := ComputeAllocation(split, buckets, req.TotalAmount)

	category := domain.EntryDeposit
	if req.SourceType == domain.SourceChorePayout {
		category = domain.EntryChorePayout
	}

	postings := make([]domain.Posting, 0, len(shares))
	for _, share := range shares {
		if share.Amount <= 0 {
			continue
		}
		postings = append(postings, domain.Posting{
			DebitAccountID:  share.AccountID,
			CreditAccountID: source.AccountID,
			Amount:          share.Amount,
			Metadata: domain.EntryMetadata{
				Description: req.Description,
				Category:    category,
				SourceType:  req.SourceType,
				SourceID:    req.SourceID,
				ActorID:     req.ActorID,
				ChoreID:     req.ChoreID,
			},
		})
	}
	if len(postings) == 0 {
		return nil, fmt.Errorf("%w: nothing to post for %d cents", apperrors.ErrInvalidAllocation, req.TotalAmount)
	}

	entries, err := s.journal.CreateEntryGroup(ctx, postings)
	if err != nil {
		var partial *apperrors.PartialGroupError
		if errors.As(err, &partial) {
			logger.Error("Deposit allocation partially posted",
				slog.String("group_id", partial.GroupID),
				slog.Int("posted", len(partial.PostedEntryIDs)))
		}
		return entries, err
	}

	logger.Info("Deposit allocated", slog.Int("buckets", len(entries)), slog.String("group_id", entries[0].GroupID))
	return entries, nil
}

// ComputeAllocation returns each bucket's share of total. buckets must be in
// canonical bucket order. The shares always sum to total and none is negative.
//
// Non-spend buckets get floor(total*pct/sum); spend takes the remainder, or
// the first bucket does when there is no spend bucket. When the included
// percentages sum to zero everything goes to spend, or is split evenly if
// spend is missing.
func ComputeAllocation(split domain.AllocationSplit, buckets []domain.LedgerAccount, total int64) []domain.BucketAllocation {
	if len(buckets) == 0 || total <= 0 {
		return nil
	}

	spendIdx := -1
	weights := make([]int64, len(buckets))
	var sum int64
	for i, b := range buckets {
		if b.BucketType == domain.BucketSpend {
			spendIdx = i
		}
		weights[i] = int64(split.Percent(b.BucketType))
		sum += weights[i]
	}

	if sum == 0 {
		if spendIdx >= 0 {
			weights[spendIdx] = 1
			sum = 1
		} else {
			for i := range weights {
				weights[i] = 1
			}
			sum = int64(len(weights))
		}
	}

	out := make([]domain.BucketAllocation, len(buckets))
	totalDec := decimal.NewFromInt(total)
	sumDec := decimal.NewFromInt(sum)
	var allocated int64
	first := -1
	for i, b := range buckets {
		out[i] = domain.BucketAllocation{BucketType: b.BucketType, AccountID: b.AccountID}
		if i == spendIdx {
			continue
		}
		if first < 0 {
			first = i
		}
		q, _ := totalDec.Mul(decimal.NewFromInt(weights[i])).QuoRem(sumDec, 0)
		out[i].Amount = q.IntPart()
		allocated += out[i].Amount
	}

	remainder := total - allocated
	switch {
	case spendIdx >= 0:
		out[spendIdx].Amount = remainder
	case first >= 0:
		out[first].Amount += remainder
	}
	return out
}
