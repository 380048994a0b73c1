package models

import "time"

// JournalEntry is a row of journal_entries.
type JournalEntry struct {
	EntryID               string    `db:"entry_id"`
	Sequence              int64     `db:"sequence"`
	DebitAccountID        string    `db:"debit_account_id"`
	CreditAccountID       string    `db:"credit_account_id"`
	Amount                int64     `db:"amount"`
	Description           string    `db:"description"`
	Category              string    `db:"category"`
	SourceType            string    `db:"source_type"`
	SourceID              *string   `db:"source_id"`
	GroupID               string    `db:"group_id"`
	ActorID               *string   `db:"actor_id"`
	ChoreID               *string   `db:"chore_id"`
	LoanID                *string   `db:"loan_id"`
	ExternalTransactionID *string   `db:"external_transaction_id"`
	IsReversal            bool      `db:"is_reversal"`
	ReversesEntryID       *string   `db:"reverses_entry_id"`
	ReversedByEntryID     *string   `db:"reversed_by_entry_id"`
	CreatedAt             time.Time `db:"created_at"`
}
