package services

import (
	"context"

	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/SscSPs/family_bank/internal/dto"
)

// AllocationSvc spreads deposits across a user's bucket accounts.
type AllocationSvc interface {
	// AllocateDeposit posts one entry per bucket receiving a non-zero share,
	// all under a single group id.
	AllocateDeposit(ctx context.Context, req domain.DepositAllocation) ([]domain.JournalEntry, error)
}

// ReconciliationSvcFacade runs and reports reconciliation passes.
type ReconciliationSvcFacade interface {
	// RunInternal compares every active account's cached balance with its journal history.
	RunInternal(ctx context.Context) (*domain.ReconciliationRun, error)

	// RunExternal checks the ledger view of every linked provider account.
	RunExternal(ctx context.Context) (*domain.ReconciliationRun, error)

	GetRun(ctx context.Context, runID string) (*domain.ReconciliationRun, error)
	ListRuns(ctx context.Context, limit int) ([]domain.ReconciliationRun, error)
}

// EventAdapterSvc applies provider events to the ledger.
type EventAdapterSvc interface {
	// ApplyEvent reports false when the event id was already processed.
	ApplyEvent(ctx context.Context, event domain.ExternalEvent) (bool, error)
}

// BankingSvcFacade is the application-facing surface of the ledger.
type BankingSvcFacade interface {
	Transfer(ctx context.Context, req dto.TransferRequest, actorID string) (*domain.JournalEntry, error)
	SendToFamilyMember(ctx context.Context, req dto.SendToFamilyRequest, actorID string) (*domain.JournalEntry, error)
	RecordExternalDeposit(ctx context.Context, req dto.DepositRequest, actorID string) ([]domain.JournalEntry, error)
	GetAccountBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error)

	PayChore(ctx context.Context, choreID string, req dto.ChorePayoutRequest, actorID string) ([]domain.JournalEntry, error)
	DisburseLoan(ctx context.Context, loanID string, req dto.LoanRequest, actorID string) (*domain.JournalEntry, error)
	RepayLoan(ctx context.Context, loanID string, req dto.LoanRequest, actorID string) (*domain.JournalEntry, error)
	WithdrawToBank(ctx context.Context, req dto.WithdrawalRequest, actorID string) (*domain.ExternalTransfer, error)
}
