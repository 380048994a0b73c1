package models

import "time"

// ReconciliationRun is a row of reconciliation_runs. Discrepancies is the raw JSONB column.
type ReconciliationRun struct {
	RunID           string     `db:"run_id"`
	RunType         string     `db:"run_type"`
	Status          string     `db:"status"`
	StartedAt       time.Time  `db:"started_at"`
	CompletedAt     *time.Time `db:"completed_at"`
	AccountsChecked int        `db:"accounts_checked"`
	Discrepancies   []byte     `db:"discrepancies"`
	ErrorMessage    *string    `db:"error_message"`
}
