package services

import (
	"context"

	"github.com/SscSPs/family_bank/internal/core/domain"
)

// AccountReaderSvc defines read operations for ledger accounts
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error)

	// GetAccountByCode retrieves a specific account by its code.
	GetAccountByCode(ctx context.Context, code string) (*domain.LedgerAccount, error)

	// ListUserAccounts returns every ledger account owned by the user.
	ListUserAccounts(ctx context.Context, userID string) ([]domain.LedgerAccount, error)

	// ListActiveBuckets returns the user's active bucket accounts in canonical bucket order.
	ListActiveBuckets(ctx context.Context, userID string) ([]domain.LedgerAccount, error)
}

// AccountWriterSvc defines account lifecycle operations
type AccountWriterSvc interface {
	// SeedSystemAccounts creates any missing system account. Safe to call repeatedly.
	SeedSystemAccounts(ctx context.Context) error

	// EnsureUserBuckets creates any of the requested buckets the user is missing
	// and returns all requested bucket accounts. The actor must pass
	// AuthorizeFamilyMember for the user and family.
	EnsureUserBuckets(ctx context.Context, userID string, familyID string, buckets []domain.BucketType, actorID string) ([]domain.LedgerAccount, error)
}

// FamilyMembershipSvc answers who may act inside a family. A user belongs to
// the family their bucket accounts carry.
type FamilyMembershipSvc interface {
	// FamilyOf returns the user's family, or "" when the user has no buckets.
	FamilyOf(ctx context.Context, userID string) (string, error)

	// AuthorizeFamilyMember checks that actorID may act for userID inside
	// familyID. userID may be empty when no single user is targeted.
	AuthorizeFamilyMember(ctx context.Context, actorID string, familyID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	FamilyMembershipSvc
}

// FamilySvcFacade manages per-family configuration: the deposit split and
// the provider accounts and cards linked to family members.
type FamilySvcFacade interface {
	// GetAllocationSplit returns the family's split, or the default when none is stored.
	GetAllocationSplit(ctx context.Context, familyID string) (domain.AllocationSplit, error)
	SetAllocationSplit(ctx context.Context, familyID string, split domain.AllocationSplit, actorID string) error
	LinkFinancialAccount(ctx context.Context, link domain.FinancialAccountLink, actorID string) (*domain.FinancialAccountLink, error)
	RegisterCard(ctx context.Context, card domain.Card, actorID string) (*domain.Card, error)
}
