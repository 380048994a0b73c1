package domain

import "time"

// FinancialAccountLink ties a provider financial account to one user bucket.
type FinancialAccountLink struct {
	FinancialAccountID string     `json:"financialAccountID"`
	UserID             string     `json:"userID"`
	FamilyID           string     `json:"familyID"`
	BucketType         BucketType `json:"bucketType"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// Card is a provider-issued card drawing on a user's spend bucket.
type Card struct {
	CardID            string    `json:"cardID"`
	UserID            string    `json:"userID"`
	FamilyID          string    `json:"familyID"`
	MonthlySpendLimit int64     `json:"monthlySpendLimit"`
	SpendMonth        string    `json:"spendMonth"`
	MonthToDateSpend  int64     `json:"monthToDateSpend"`
	CreatedAt         time.Time `json:"createdAt"`
}

// SpendMonthKey formats the month bucket used for card spend counters.
func SpendMonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// LimitExceeded reports whether the month-to-date spend is over a non-zero limit.
func (c *Card) LimitExceeded() bool {
	return c.MonthlySpendLimit > 0 && c.MonthToDateSpend > c.MonthlySpendLimit
}

type TransferDirection string

const (
	TransferInbound  TransferDirection = "inbound"
	TransferOutbound TransferDirection = "outbound"
)

type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferFailed    TransferStatus = "failed"
)

// ExternalTransfer tracks money moving between the ledger and the provider.
type ExternalTransfer struct {
	TransferID         string            `json:"transferID"`
	FinancialAccountID string            `json:"financialAccountID"`
	UserID             string            `json:"userID"`
	AccountID          string            `json:"accountID"`
	Direction          TransferDirection `json:"direction"`
	Amount             int64             `json:"amount"`
	Status             TransferStatus    `json:"status"`
	EntryID            string            `json:"entryID,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}
