package domain

import "time"

// AccountType drives the debit/credit sign semantics of a ledger account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Expense   AccountType = "expense"
)

// IsValid reports whether t is one of the supported account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Expense:
		return true
	}
	return false
}

// AccountCategory classifies what an account is for, independent of its AccountType.
type AccountCategory string

const (
	CategoryUserBucket     AccountCategory = "user_bucket"
	CategorySystemExternal AccountCategory = "system_external"
	CategorySystemInternal AccountCategory = "system_internal"
	CategorySystemSuspense AccountCategory = "system_suspense"
)

// BucketType is the purpose tag of a user bucket account.
type BucketType string

const (
	BucketSpend  BucketType = "spend"
	BucketSave   BucketType = "save"
	BucketGive   BucketType = "give"
	BucketInvest BucketType = "invest"
)

// BucketTypes lists every bucket in canonical order.
var BucketTypes = []BucketType{BucketSpend, BucketSave, BucketGive, BucketInvest}

// IsValid reports whether b is a known bucket type.
func (b BucketType) IsValid() bool {
	switch b {
	case BucketSpend, BucketSave, BucketGive, BucketInvest:
		return true
	}
	return false
}

// LedgerAccount is a named account with a cached balance in cents.
type LedgerAccount struct {
	AccountID        string          `json:"accountID"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	AccountType      AccountType     `json:"accountType"`
	Category         AccountCategory `json:"category"`
	UserID           string          `json:"userID,omitempty"`
	FamilyID         string          `json:"familyID,omitempty"`
	BucketType       BucketType      `json:"bucketType,omitempty"`
	CachedBalance    int64           `json:"cachedBalance"`
	IsActive         bool            `json:"isActive"`
	LastReconciledAt *time.Time      `json:"lastReconciledAt,omitempty"`
	AuditFields
}

// AccountBalance is the cached-state view returned to the application layer.
type AccountBalance struct {
	AccountID   string      `json:"accountID"`
	Code        string      `json:"code"`
	Balance     int64       `json:"balance"`
	AccountType AccountType `json:"accountType"`
}

// BucketAccountCode derives the unique code of a user's bucket account.
func BucketAccountCode(userID string, bucket BucketType) string {
	return "user:" + userID + ":" + string(bucket)
}

// System account codes.
const (
	SystemProviderTreasuryPool = "system:provider_treasury_pool"
	SystemParentDepositPool    = "system:parent_deposit_pool"
	SystemChorePayoutPool      = "system:chore_payout_pool"
	SystemFamilyLoanPool       = "system:family_loan_pool"
	SystemCardSpend            = "system:card_spend"
	SystemSuspense             = "system:suspense"
)

// SystemAccountDefinition describes a system account seeded at startup.
type SystemAccountDefinition struct {
	Code        string
	Name        string
	AccountType AccountType
	Category    AccountCategory
}

// SystemAccounts returns the system accounts every deployment needs.
func SystemAccounts() []SystemAccountDefinition {
	return []SystemAccountDefinition{
		{Code: SystemProviderTreasuryPool, Name: "Provider treasury pool", AccountType: Equity, Category: CategorySystemExternal},
		{Code: SystemParentDepositPool, Name: "Parent deposit pool", AccountType: Equity, Category: CategorySystemInternal},
		{Code: SystemChorePayoutPool, Name: "Chore payout pool", AccountType: Equity, Category: CategorySystemInternal},
		{Code: SystemFamilyLoanPool, Name: "Family loan pool", AccountType: Liability, Category: CategorySystemInternal},
		{Code: SystemCardSpend, Name: "Card spend", AccountType: Expense, Category: CategorySystemExternal},
		{Code: SystemSuspense, Name: "Suspense", AccountType: Equity, Category: CategorySystemSuspense},
	}
}
