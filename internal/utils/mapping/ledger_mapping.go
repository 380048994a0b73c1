package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/SscSPs/family_bank/internal/models"
)

// nullable maps the empty string to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToModelAuditFields converts a domain AuditFields to a model AuditFields
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts a model AuditFields to a domain AuditFields
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

// ToModelLedgerAccount converts a domain LedgerAccount to its row form.
func ToModelLedgerAccount(d domain.LedgerAccount) models.LedgerAccount {
	return models.LedgerAccount{
		AccountID:        d.AccountID,
		Code:             d.Code,
		Name:             d.Name,
		AccountType:      string(d.AccountType),
		Category:         string(d.Category),
		UserID:           nullable(d.UserID),
		FamilyID:         nullable(d.FamilyID),
		BucketType:       nullable(string(d.BucketType)),
		CachedBalance:    d.CachedBalance,
		IsActive:         d.IsActive,
		LastReconciledAt: d.LastReconciledAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerAccount converts a ledger_accounts row to a domain LedgerAccount.
func ToDomainLedgerAccount(m models.LedgerAccount) domain.LedgerAccount {
	return domain.LedgerAccount{
		AccountID:        m.AccountID,
		Code:             m.Code,
		Name:             m.Name,
		AccountType:      domain.AccountType(m.AccountType),
		Category:         domain.AccountCategory(m.Category),
		UserID:           deref(m.UserID),
		FamilyID:         deref(m.FamilyID),
		BucketType:       domain.BucketType(deref(m.BucketType)),
		CachedBalance:    m.CachedBalance,
		IsActive:         m.IsActive,
		LastReconciledAt: m.LastReconciledAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntry converts a domain JournalEntry to its row form.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:               d.EntryID,
		Sequence:              d.Sequence,
		DebitAccountID:        d.DebitAccountID,
		CreditAccountID:       d.CreditAccountID,
		Amount:                d.Amount,
		Description:           d.Description,
		Category:              string(d.Category),
		SourceType:            d.SourceType,
		SourceID:              nullable(d.SourceID),
		GroupID:               d.GroupID,
		ActorID:               nullable(d.ActorID),
		ChoreID:               nullable(d.ChoreID),
		LoanID:                nullable(d.LoanID),
		ExternalTransactionID: nullable(d.ExternalTransactionID),
		IsReversal:            d.IsReversal,
		ReversesEntryID:       nullable(d.ReversesEntryID),
		ReversedByEntryID:     nullable(d.ReversedByEntryID),
		CreatedAt:             d.CreatedAt,
	}
}

// ToDomainJournalEntry converts a journal_entries row to a domain JournalEntry.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:               m.EntryID,
		Sequence:              m.Sequence,
		DebitAccountID:        m.DebitAccountID,
		CreditAccountID:       m.CreditAccountID,
		Amount:                m.Amount,
		Description:           m.Description,
		Category:              domain.EntryCategory(m.Category),
		SourceType:            m.SourceType,
		SourceID:              deref(m.SourceID),
		GroupID:               m.GroupID,
		ActorID:               deref(m.ActorID),
		ChoreID:               deref(m.ChoreID),
		LoanID:                deref(m.LoanID),
		ExternalTransactionID: deref(m.ExternalTransactionID),
		IsReversal:            m.IsReversal,
		ReversesEntryID:       deref(m.ReversesEntryID),
		ReversedByEntryID:     deref(m.ReversedByEntryID),
		CreatedAt:             m.CreatedAt,
	}
}

// ToModelReconciliationRun converts a run to its row form, encoding the
// discrepancies as JSON.
func ToModelReconciliationRun(d domain.ReconciliationRun) (models.ReconciliationRun, error) {
	discrepancies := d.Discrepancies
	if discrepancies == nil {
		discrepancies = []domain.Discrepancy{}
	}
	raw, err := json.Marshal(discrepancies)
	if err != nil {
		return models.ReconciliationRun{}, fmt.Errorf("failed to encode discrepancies for run %s: %w", d.RunID, err)
	}
	return models.ReconciliationRun{
		RunID:           d.RunID,
		RunType:         string(d.Type),
		Status:          string(d.Status),
		StartedAt:       d.StartedAt,
		CompletedAt:     d.CompletedAt,
		AccountsChecked: d.AccountsChecked,
		Discrepancies:   raw,
		ErrorMessage:    nullable(d.ErrorMessage),
	}, nil
}

// ToDomainReconciliationRun converts a reconciliation_runs row to a domain run.
func ToDomainReconciliationRun(m models.ReconciliationRun) (domain.ReconciliationRun, error) {
	discrepancies := []domain.Discrepancy{}
	if len(m.Discrepancies) > 0 {
		if err := json.Unmarshal(m.Discrepancies, &discrepancies); err != nil {
			return domain.ReconciliationRun{}, fmt.Errorf("failed to decode discrepancies for run %s: %w", m.RunID, err)
		}
	}
	return domain.ReconciliationRun{
		RunID:           m.RunID,
		Type:            domain.ReconciliationType(m.RunType),
		Status:          domain.ReconciliationStatus(m.Status),
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
		AccountsChecked: m.AccountsChecked,
		Discrepancies:   discrepancies,
		ErrorMessage:    deref(m.ErrorMessage),
	}, nil
}
