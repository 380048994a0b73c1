package domain

import "time"

// EntryCategory is a free-form label describing why money moved.
type EntryCategory string

const (
	EntryDeposit          EntryCategory = "deposit"
	EntryTransfer         EntryCategory = "transfer"
	EntryFamilyTransfer   EntryCategory = "family_transfer"
	EntryChorePayout      EntryCategory = "chore_payout"
	EntryLoanDisbursement EntryCategory = "loan_disbursement"
	EntryLoanPayment      EntryCategory = "loan_payment"
	EntryWithdrawal       EntryCategory = "withdrawal"
	EntryCardPurchase     EntryCategory = "card_purchase"
	EntryCardRefund       EntryCategory = "card_refund"
	EntryReceivedCredit   EntryCategory = "received_credit"
	EntryReceivedDebit    EntryCategory = "received_debit"
	EntryReversal         EntryCategory = "reversal"
)

// Source types tag the subsystem that originated an entry.
const (
	SourceParentDeposit   = "parent_deposit"
	SourceProviderDeposit = "provider_deposit"
	SourceChorePayout     = "chore_payout"
	SourceApp             = "app"
	SourceLoan            = "loan"
	SourceTreasuryEvent   = "treasury_event"
)

// SourceAccountCode maps a deposit source type to the system account it is drawn from.
func SourceAccountCode(sourceType string) (string, bool) {
	switch sourceType {
	case SourceParentDeposit:
		return SystemParentDepositPool, true
	case SourceProviderDeposit:
		return SystemProviderTreasuryPool, true
	case SourceChorePayout:
		return SystemChorePayoutPool, true
	}
	return "", false
}

// EntryMetadata is everything about an entry except the accounts and amount.
type EntryMetadata struct {
	Description           string
	Category              EntryCategory
	SourceType            string
	SourceID              string
	ActorID               string
	ChoreID               string
	LoanID                string
	ExternalTransactionID string
}

// Posting is one requested debit/credit pair inside an entry group.
type Posting struct {
	DebitAccountID  string
	CreditAccountID string
	Amount          int64
	Metadata        EntryMetadata
}

// JournalEntry is an immutable double-entry posting. Only ReversedByEntryID is
// ever filled in after creation.
type JournalEntry struct {
	EntryID               string        `json:"entryID"`
	Sequence              int64         `json:"sequence"`
	DebitAccountID        string        `json:"debitAccountID"`
	CreditAccountID       string        `json:"creditAccountID"`
	Amount                int64         `json:"amount"`
	Description           string        `json:"description"`
	Category              EntryCategory `json:"category"`
	SourceType            string        `json:"sourceType"`
	SourceID              string        `json:"sourceID,omitempty"`
	GroupID               string        `json:"groupID"`
	ActorID               string        `json:"actorID,omitempty"`
	ChoreID               string        `json:"choreID,omitempty"`
	LoanID                string        `json:"loanID,omitempty"`
	ExternalTransactionID string        `json:"externalTransactionID,omitempty"`
	IsReversal            bool          `json:"isReversal"`
	ReversesEntryID       string        `json:"reversesEntryID,omitempty"`
	ReversedByEntryID     string        `json:"reversedByEntryID,omitempty"`
	CreatedAt             time.Time     `json:"createdAt"`
}

// Metadata returns the entry's metadata fields.
func (e JournalEntry) Metadata() EntryMetadata {
	return EntryMetadata{
		Description:           e.Description,
		Category:              e.Category,
		SourceType:            e.SourceType,
		SourceID:              e.SourceID,
		ActorID:               e.ActorID,
		ChoreID:               e.ChoreID,
		LoanID:                e.LoanID,
		ExternalTransactionID: e.ExternalTransactionID,
	}
}

// AccountActivity is the sum of every entry that touched an account, split by side.
type AccountActivity struct {
	AccountID   string
	DebitTotal  int64
	CreditTotal int64
	EntryCount  int64
}
