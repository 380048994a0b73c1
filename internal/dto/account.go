package dto

import (
	"time"

	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse is the API view of a ledger account.
type AccountResponse struct {
	AccountID        string                 `json:"accountID"`
	Code             string                 `json:"code"`
	Name             string                 `json:"name"`
	AccountType      domain.AccountType     `json:"accountType"`
	Category         domain.AccountCategory `json:"category"`
	UserID           string                 `json:"userID,omitempty"`
	FamilyID         string                 `json:"familyID,omitempty"`
	BucketType       domain.BucketType      `json:"bucketType,omitempty"`
	Balance          int64                  `json:"balance"`
	IsActive         bool                   `json:"isActive"`
	LastReconciledAt *time.Time             `json:"lastReconciledAt,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
}

// ToAccountResponse converts a domain.LedgerAccount to an AccountResponse DTO.
func ToAccountResponse(acc *domain.LedgerAccount) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		Code:             acc.Code,
		Name:             acc.Name,
		AccountType:      acc.AccountType,
		Category:         acc.Category,
		UserID:           acc.UserID,
		FamilyID:         acc.FamilyID,
		BucketType:       acc.BucketType,
		Balance:          acc.CachedBalance,
		IsActive:         acc.IsActive,
		LastReconciledAt: acc.LastReconciledAt,
		CreatedAt:        acc.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of accounts.
func ToListAccountResponse(accounts []domain.LedgerAccount) []AccountResponse {
	list := make([]AccountResponse, len(accounts))
	for i := range accounts {
		list[i] = ToAccountResponse(&accounts[i])
	}
	return list
}

// AllocationSplitRequest sets a family's deposit split.
type AllocationSplitRequest struct {
	Spend  int `json:"spend" binding:"min=0,max=100"`
	Save   int `json:"save" binding:"min=0,max=100"`
	Give   int `json:"give" binding:"min=0,max=100"`
	Invest int `json:"invest" binding:"min=0,max=100"`
}

// ToDomain converts the request to a domain.AllocationSplit.
func (r AllocationSplitRequest) ToDomain() domain.AllocationSplit {
	return domain.AllocationSplit{Spend: r.Spend, Save: r.Save, Give: r.Give, Invest: r.Invest}
}

// LinkFinancialAccountRequest links a provider financial account to a user bucket.
type LinkFinancialAccountRequest struct {
	FinancialAccountID string            `json:"financialAccountID" binding:"required"`
	UserID             string            `json:"userID" binding:"required"`
	FamilyID           string            `json:"familyID" binding:"required"`
	BucketType         domain.BucketType `json:"bucketType" binding:"required,oneof=spend save give invest"`
}

// RegisterCardRequest registers a provider card for a user.
type RegisterCardRequest struct {
	CardID            string          `json:"cardID" binding:"required"`
	UserID            string          `json:"userID" binding:"required"`
	FamilyID          string          `json:"familyID" binding:"required"`
	MonthlySpendLimit decimal.Decimal `json:"monthlySpendLimit" swaggertype:"string" example:"50.00"`
}
