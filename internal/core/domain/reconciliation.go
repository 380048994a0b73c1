package domain

import "time"

type ReconciliationType string

const (
	ReconciliationInternal         ReconciliationType = "internal"
	ReconciliationExternalProvider ReconciliationType = "external_provider"
)

type ReconciliationStatus string

const (
	ReconciliationRunning          ReconciliationStatus = "running"
	ReconciliationPassed           ReconciliationStatus = "passed"
	ReconciliationDiscrepancyFound ReconciliationStatus = "discrepancy_found"
	ReconciliationFailed           ReconciliationStatus = "failed"
)

// Discrepancy sources.
const (
	DiscrepancySourceJournal  = "journal"
	DiscrepancySourceProvider = "provider"
)

// Discrepancy is one mismatch found during a reconciliation run. For provider
// checks AccountID holds the financial account id and ComputedBalance holds
// the provider's reported balance.
type Discrepancy struct {
	AccountID       string `json:"accountID"`
	UserID          string `json:"userID,omitempty"`
	Source          string `json:"source"`
	CachedBalance   int64  `json:"cachedBalance"`
	ComputedBalance int64  `json:"computedBalance"`
	Difference      int64  `json:"difference"`
	AutoResolved    bool   `json:"autoResolved"`
}

// ReconciliationRun records a single reconciliation pass.
type ReconciliationRun struct {
	RunID           string               `json:"runID"`
	Type            ReconciliationType   `json:"type"`
	Status          ReconciliationStatus `json:"status"`
	StartedAt       time.Time            `json:"startedAt"`
	CompletedAt     *time.Time           `json:"completedAt,omitempty"`
	AccountsChecked int                  `json:"accountsChecked"`
	Discrepancies   []Discrepancy        `json:"discrepancies"`
	ErrorMessage    string               `json:"errorMessage,omitempty"`
}

// UnresolvedCount returns how many discrepancies were left for manual review.
func (r *ReconciliationRun) UnresolvedCount() int {
	n := 0
	for _, d := range r.Discrepancies {
		if !d.AutoResolved {
			n++
		}
	}
	return n
}
