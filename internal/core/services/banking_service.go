package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/dto"
	"github.com/SscSPs/family_bank/internal/utils/accounting"
)

// bankingService turns application requests into journal postings. Amounts
// arrive as decimals and are rounded to cents here.
type bankingService struct {
	BaseService
	accounts     portssvc.AccountSvcFacade
	family       portssvc.FamilySvcFacade
	journal      portssvc.JournalWriterSvc
	allocation   portssvc.AllocationSvc
	linkRepo     portsrepo.FinancialAccountLinkRepository
	transferRepo portsrepo.ExternalTransferRepository
	treasury     portssvc.TreasuryProvider
}

// BankingOption configures the banking service.
type BankingOption func(*bankingService)

// WithWithdrawalProvider enables WithdrawToBank.
func WithWithdrawalProvider(p portssvc.TreasuryProvider) BankingOption {
	return func(s *bankingService) {
		s.treasury = p
	}
}

// NewBankingService creates the banking service.
func NewBankingService(
	accounts portssvc.AccountSvcFacade,
	family portssvc.FamilySvcFacade,
	journal portssvc.JournalWriterSvc,
	allocation portssvc.AllocationSvc,
	linkRepo portsrepo.FinancialAccountLinkRepository,
	transferRepo portsrepo.ExternalTransferRepository,
	options ...BankingOption,
) portssvc.BankingSvcFacade {
	svc := &bankingService{
		accounts:     accounts,
		family:       family,
		journal:      journal,
		allocation:   allocation,
		linkRepo:     linkRepo,
		transferRepo: transferRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BankingSvcFacade = (*bankingService)(nil)

// Transfer moves money between two accounts; the caller must own the source.
func (s *bankingService) Transfer(ctx context.Context, req dto.TransferRequest, actorID string) (*domain.JournalEntry, error) {
	amount, err := accounting.PositiveCents(req.Amount)
	if err != nil {
		return nil, err
	}
	from, err := s.accounts.GetAccountByID(ctx, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, from, actorID); err != nil {
		return nil, err
	}

	return s.journal.CreateEntry(ctx, req.ToAccountID, from.AccountID, amount, domain.EntryMetadata{
		Description: describe(req.Description, "Transfer"),
		Category:    domain.EntryTransfer,
		SourceType:  domain.SourceApp,
		ActorID:     actorID,
	})
}

// SendToFamilyMember pays into another member's spend bucket. The recipient
// must already have one and belong to the sender's family.
func (s *bankingService) SendToFamilyMember(ctx context.Context, req dto.SendToFamilyRequest, actorID string) (*domain.JournalEntry, error) {
	amount, err := accounting.PositiveCents(req.Amount)
	if err != nil {
		return nil, err
	}
	from, err := s.accounts.GetAccountByID(ctx, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, from, actorID); err != nil {
		return nil, err
	}

	to, err := s.accounts.GetAccountByCode(ctx, domain.BucketAccountCode(req.ToUserID, domain.BucketSpend))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s has no spend bucket", apperrors.ErrAccountNotFound, req.ToUserID)
		}
		return nil, err
	}
	if to.FamilyID != from.FamilyID {
		s.GetLogger(ctx).Warn("Family transfer across families rejected",
			slog.String("actor_id", actorID),
			slog.String("to_user_id", req.ToUserID))
		return nil, fmt.Errorf("%w: recipient is not in the sender's family", apperrors.ErrForbidden)
	}

	return s.journal.CreateEntry(ctx, to.AccountID, from.AccountID, amount, domain.EntryMetadata{
		Description: describe(req.Note, "Family transfer"),
		Category:    domain.EntryFamilyTransfer,
		SourceType:  domain.SourceApp,
		ActorID:     actorID,
	})
}

// RecordExternalDeposit allocates a deposit over the user's buckets, creating
// them from the family split on first use. Only another member of the user's
// family may record it.
func (s *bankingService) RecordExternalDeposit(ctx context.Context, req dto.DepositRequest, actorID string) ([]domain.JournalEntry, error) {
	amount, err := accounting.PositiveCents(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.authorizePayer(ctx, actorID, req.FamilyID, req.UserID); err != nil {
		return nil, err
	}
	if err := s.ensureDefaultBuckets(ctx, req.UserID, req.FamilyID, actorID); err != nil {
		return nil, err
	}
	return s.allocation.AllocateDeposit(ctx, domain.DepositAllocation{
		UserID:      req.UserID,
		FamilyID:    req.FamilyID,
		TotalAmount: amount,
		SourceType:  req.SourceType,
		Description: describe(req.Description, "Deposit"),
		ActorID:     actorID,
	})
}

// GetAccountBalance reads the cached balance only.
func (s *bankingService) GetAccountBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	acc, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &domain.AccountBalance{
		AccountID:   acc.AccountID,
		Code:        acc.Code,
		Balance:     acc.CachedBalance,
		AccountType: acc.AccountType,
	}, nil
}

func (s *bankingService) PayChore(ctx context.Context, choreID string, req dto.ChorePayoutRequest, actorID string) ([]domain.JournalEntry, error) {
	if choreID == "" {
		return nil, fmt.Errorf("%w: chore id is required", apperrors.ErrValidation)
	}
	amount, err := accounting.PositiveCents(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.authorizePayer(ctx, actorID, req.FamilyID, req.KidUserID); err != nil {
		return nil, err
	}
	if err := s.ensureDefaultBuckets(ctx, req.KidUserID, req.FamilyID, actorID); err != nil {
		return nil, err
	}
	return s.allocation.AllocateDeposit(ctx, domain.DepositAllocation{
		UserID:      req.KidUserID,
		FamilyID:    req.FamilyID,
		TotalAmount: amount,
		SourceType:  domain.SourceChorePayout,
		Description: describe(req.Description, "Chore payout"),
		ActorID:     actorID,
		ChoreID:     choreID,
		SourceID:    choreID,
	})
}

// DisburseLoan pays a family loan into the kid's spend bucket. The lender
// must be another member of the kid's family.
func (s *bankingService) DisburseLoan(ctx context.Context, loanID string, req dto.LoanRequest, actorID string) (*domain.JournalEntry, error) {
	amount, spend, pool, err := s.loanAccounts(ctx, loanID, req)
	if err != nil {
		return nil, err
	}
	if err := s.authorizePayer(ctx, actorID, spend.FamilyID, req.KidUserID); err != nil {
		return nil, err
	}
	return s.journal.CreateEntry(ctx, spend.AccountID, pool.AccountID, amount, domain.EntryMetadata{
		Description: describe(req.Description, "Loan disbursement"),
		Category:    domain.EntryLoanDisbursement,
		SourceType:  domain.SourceLoan,
		SourceID:    loanID,
		ActorID:     actorID,
		LoanID:      loanID,
	})
}

// RepayLoan moves a repayment from the kid's spend bucket back to the loan
// pool. The kid or another member of their family may record it.
func (s *bankingService) RepayLoan(ctx context.Context, loanID string, req dto.LoanRequest, actorID string) (*domain.JournalEntry, error) {
	amount, spend, pool, err := s.loanAccounts(ctx, loanID, req)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.AuthorizeFamilyMember(ctx, actorID, spend.FamilyID, req.KidUserID); err != nil {
		return nil, err
	}
	return s.journal.CreateEntry(ctx, pool.AccountID, spend.AccountID, amount, domain.EntryMetadata{
		Description: describe(req.Description, "Loan payment"),
		Category:    domain.EntryLoanPayment,
		SourceType:  domain.SourceLoan,
		SourceID:    loanID,
		ActorID:     actorID,
		LoanID:      loanID,
	})
}

// WithdrawToBank debits the account and asks the provider to send the money
// out. If the provider rejects the request the debit is reversed. The outcome
// arrives later as an outbound transfer event.
func (s *bankingService) WithdrawToBank(ctx context.Context, req dto.WithdrawalRequest, actorID string) (*domain.ExternalTransfer, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("account_id", req.AccountID),
		slog.String("financial_account_id", req.FinancialAccountID))
	if s.treasury == nil {
		return nil, fmt.Errorf("%w: withdrawals are not configured", apperrors.ErrUnavailable)
	}
	amount, err := accounting.PositiveCents(req.Amount)
	if err != nil {
		return nil, err
	}
	acc, err := s.accounts.GetAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeOwner(ctx, acc, actorID); err != nil {
		return nil, err
	}
	link, err := s.linkRepo.FindLinkByFinancialAccount(ctx, req.FinancialAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: financial account %s is not linked", apperrors.ErrNotFound, req.FinancialAccountID)
		}
		return nil, fmt.Errorf("failed to load financial account link: %w", err)
	}
	if link.UserID != actorID {
		return nil, fmt.Errorf("%w: financial account %s does not belong to the caller", apperrors.ErrForbidden, req.FinancialAccountID)
	}
	if link.BucketType != acc.BucketType {
		logger.Warn("Withdrawal bucket does not match the linked bucket",
			slog.String("bucket", string(acc.BucketType)),
			slog.String("linked_bucket", string(link.BucketType)))
		return nil, fmt.Errorf("%w: financial account %s is linked to the %s bucket, not %s",
			apperrors.ErrForbidden, req.FinancialAccountID, link.BucketType, acc.BucketType)
	}
	pool, err := s.accounts.GetAccountByCode(ctx, domain.SystemProviderTreasuryPool)
	if err != nil {
		return nil, err
	}

	entry, err := s.journal.CreateEntry(ctx, pool.AccountID, acc.AccountID, amount, domain.EntryMetadata{
		Description: "Withdrawal to bank",
		Category:    domain.EntryWithdrawal,
		SourceType:  domain.SourceApp,
		ActorID:     actorID,
	})
	if err != nil {
		return nil, err
	}

	transferID, err := s.treasury.CreateOutboundTransfer(ctx, req.FinancialAccountID, amount, "Withdrawal to bank")
	if err != nil {
		logger.Error("Provider rejected outbound transfer, reversing withdrawal",
			slog.String("entry_id", entry.EntryID),
			slog.String("error", err.Error()))
		if _, revErr := s.journal.ReverseEntry(ctx, entry.EntryID, "provider rejected withdrawal", domain.SystemActor); revErr != nil {
			logger.Error("Failed to reverse withdrawal entry; manual review required",
				slog.String("entry_id", entry.EntryID),
				slog.String("error", revErr.Error()))
		}
		return nil, fmt.Errorf("%w: provider rejected withdrawal: %v", apperrors.ErrUnavailable, err)
	}

	now := s.Now()
	transfer := domain.ExternalTransfer{
		TransferID:         transferID,
		FinancialAccountID: req.FinancialAccountID,
		UserID:             actorID,
		AccountID:          acc.AccountID,
		Direction:          domain.TransferOutbound,
		Amount:             amount,
		Status:             domain.TransferPending,
		EntryID:            entry.EntryID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.transferRepo.SaveTransfer(ctx, transfer); err != nil {
		s.LogError(ctx, err, "Failed to record outbound transfer", slog.String("transfer_id", transferID))
		return nil, fmt.Errorf("failed to record outbound transfer %s: %w", transferID, err)
	}
	logger.Info("Withdrawal requested", slog.String("transfer_id", transferID), slog.Int64("amount", amount))
	return &transfer, nil
}

func (s *bankingService) loanAccounts(ctx context.Context, loanID string, req dto.LoanRequest) (int64, *domain.LedgerAccount, *domain.LedgerAccount, error) {
	if loanID == "" {
		return 0, nil, nil, fmt.Errorf("%w: loan id is required", apperrors.ErrValidation)
	}
	amount, err := accounting.PositiveCents(req.Amount)
	if err != nil {
		return 0, nil, nil, err
	}
	spend, err := s.accounts.GetAccountByCode(ctx, domain.BucketAccountCode(req.KidUserID, domain.BucketSpend))
	if err != nil {
		return 0, nil, nil, err
	}
	pool, err := s.accounts.GetAccountByCode(ctx, domain.SystemFamilyLoanPool)
	if err != nil {
		return 0, nil, nil, err
	}
	return amount, spend, pool, nil
}

// authorizePayer checks that the actor may put new money into the user's
// buckets: a member of the user's family other than the user.
func (s *bankingService) authorizePayer(ctx context.Context, actorID, familyID, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user is required", apperrors.ErrValidation)
	}
	if actorID == userID {
		s.GetLogger(ctx).Warn("Self-funding rejected", slog.String("actor_id", actorID))
		return fmt.Errorf("%w: cannot fund your own buckets", apperrors.ErrForbidden)
	}
	return s.accounts.AuthorizeFamilyMember(ctx, actorID, familyID, userID)
}

// ensureDefaultBuckets creates spend plus every bucket with a non-zero share
// of the family split, but only for users with no buckets at all.
func (s *bankingService) ensureDefaultBuckets(ctx context.Context, userID, familyID, actorID string) error {
	existing, err := s.accounts.ListUserAccounts(ctx, userID)
	if err != nil {
		return err
	}
	for _, acc := range existing {
		if acc.Category == domain.CategoryUserBucket {
			return nil
		}
	}

	split, err := s.family.GetAllocationSplit(ctx, familyID)
	if err != nil {
		return err
	}
	buckets := []domain.BucketType{domain.BucketSpend}
	for _, b := range domain.BucketTypes {
		if b != domain.BucketSpend && split.Percent(b) > 0 {
			buckets = append(buckets, b)
		}
	}
	if _, err := s.accounts.EnsureUserBuckets(ctx, userID, familyID, buckets, actorID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Created buckets for first deposit", slog.String("user_id", userID), slog.Int("buckets", len(buckets)))
	return nil
}
