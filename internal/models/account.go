package models

import "time"

// LedgerAccount is a row of ledger_accounts. Nullable columns are pointers.
type LedgerAccount struct {
	AccountID        string     `db:"account_id"`
	Code             string     `db:"code"`
	Name             string     `db:"name"`
	AccountType      string     `db:"account_type"`
	Category         string     `db:"category"`
	UserID           *string    `db:"user_id"`
	FamilyID         *string    `db:"family_id"`
	BucketType       *string    `db:"bucket_type"`
	CachedBalance    int64      `db:"cached_balance"`
	IsActive         bool       `db:"is_active"`
	LastReconciledAt *time.Time `db:"last_reconciled_at"`
	AuditFields
}
