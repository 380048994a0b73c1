package dto

import (
	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/SscSPs/family_bank/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// TransferRequest moves money between two ledger accounts.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string" example:"12.50"`
	Description   string          `json:"description"`
}

// SendToFamilyRequest moves money into another family member's spend bucket.
type SendToFamilyRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToUserID      string          `json:"toUserID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string" example:"5.00"`
	Note          string          `json:"note"`
}

// DepositRequest records money arriving for a user and allocates it across their buckets.
type DepositRequest struct {
	UserID      string          `json:"userID" binding:"required"`
	FamilyID    string          `json:"familyID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"100.00"`
	SourceType  string          `json:"sourceType" binding:"required,oneof=parent_deposit provider_deposit chore_payout"`
	Description string          `json:"description"`
}

// ChorePayoutRequest pays a kid for a completed chore.
type ChorePayoutRequest struct {
	KidUserID   string          `json:"kidUserID" binding:"required"`
	FamilyID    string          `json:"familyID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"3.00"`
	Description string          `json:"description"`
}

// LoanRequest disburses or repays part of a family loan.
type LoanRequest struct {
	KidUserID   string          `json:"kidUserID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"20.00"`
	Description string          `json:"description"`
}

// WithdrawalRequest sends money from a bucket out to the linked bank account.
type WithdrawalRequest struct {
	AccountID          string          `json:"accountID" binding:"required"`
	FinancialAccountID string          `json:"financialAccountID" binding:"required"`
	Amount             decimal.Decimal `json:"amount" swaggertype:"string" example:"10.00"`
}

// EnsureBucketsRequest creates bucket accounts for a user.
type EnsureBucketsRequest struct {
	FamilyID string              `json:"familyID" binding:"required"`
	Buckets  []domain.BucketType `json:"buckets"`
}

// BalanceResponse is the cached balance of one account.
type BalanceResponse struct {
	AccountID    string             `json:"accountID"`
	Code         string             `json:"code"`
	AccountType  domain.AccountType `json:"accountType"`
	BalanceCents int64              `json:"balanceCents"`
	Balance      string             `json:"balance"`
}

// ToBalanceResponse converts a domain.AccountBalance.
func ToBalanceResponse(b *domain.AccountBalance) BalanceResponse {
	return BalanceResponse{
		AccountID:    b.AccountID,
		Code:         b.Code,
		AccountType:  b.AccountType,
		BalanceCents: b.Balance,
		Balance:      accounting.FromCents(b.Balance).StringFixed(2),
	}
}

// ExternalTransferResponse describes a transfer to or from the provider.
type ExternalTransferResponse struct {
	TransferID string                   `json:"transferID"`
	AccountID  string                   `json:"accountID"`
	Direction  domain.TransferDirection `json:"direction"`
	Amount     int64                    `json:"amount"`
	Status     domain.TransferStatus    `json:"status"`
	EntryID    string                   `json:"entryID,omitempty"`
}

// ToExternalTransferResponse converts a domain.ExternalTransfer.
func ToExternalTransferResponse(t *domain.ExternalTransfer) ExternalTransferResponse {
	return ExternalTransferResponse{
		TransferID: t.TransferID,
		AccountID:  t.AccountID,
		Direction:  t.Direction,
		Amount:     t.Amount,
		Status:     t.Status,
		EntryID:    t.EntryID,
	}
}
