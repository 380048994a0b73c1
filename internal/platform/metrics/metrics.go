// Package metrics holds the Prometheus collectors for the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "family_bank"

var (
	EntriesPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "entries_posted_total",
		Help:      "Journal entries posted, by entry category.",
	}, []string{"category"})

	PostingFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "posting_failures_total",
		Help:      "Rejected or failed postings, by reason.",
	}, []string{"reason"})

	// PartialGroups counts entry groups that stopped partway. Every increment
	// needs operator review; the posted entries are not rolled back.
	PartialGroups = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "partial_groups_total",
		Help:      "Entry groups that failed after some entries were posted.",
	})

	ReconciliationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reconciliation",
		Name:      "runs_total",
		Help:      "Reconciliation runs, by type and final status.",
	}, []string{"type", "status"})

	ReconciliationDiscrepancies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reconciliation",
		Name:      "discrepancies_total",
		Help:      "Discrepancies found, by run type and whether they were auto-resolved.",
	}, []string{"type", "auto_resolved"})

	ReconciliationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "reconciliation",
		Name:      "duration_seconds",
		Help:      "Wall time of reconciliation runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"type"})

	ExternalEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Provider events received, by type and outcome (applied, duplicate, dropped).",
	}, []string{"event_type", "outcome"})
)
