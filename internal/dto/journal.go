package dto

import (
	"time"

	"github.com/SscSPs/family_bank/internal/core/domain"
)

// ListEntriesParams defines query parameters for listing an account's journal entries.
type ListEntriesParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken string `form:"nextToken"`
}

// ReverseEntryRequest carries the reason recorded on the reversing entry.
type ReverseEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// EntryResponse is the API view of a journal entry.
type EntryResponse struct {
	EntryID               string               `json:"entryID"`
	Sequence              int64                `json:"sequence"`
	DebitAccountID        string               `json:"debitAccountID"`
	CreditAccountID       string               `json:"creditAccountID"`
	Amount                int64                `json:"amount"`
	Description           string               `json:"description"`
	Category              domain.EntryCategory `json:"category"`
	SourceType            string               `json:"sourceType"`
	GroupID               string               `json:"groupID"`
	ChoreID               string               `json:"choreID,omitempty"`
	LoanID                string               `json:"loanID,omitempty"`
	ExternalTransactionID string               `json:"externalTransactionID,omitempty"`
	IsReversal            bool                 `json:"isReversal"`
	ReversesEntryID       string               `json:"reversesEntryID,omitempty"`
	ReversedByEntryID     string               `json:"reversedByEntryID,omitempty"`
	CreatedAt             time.Time            `json:"createdAt"`
}

// ToEntryResponse converts a domain.JournalEntry.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:               e.EntryID,
		Sequence:              e.Sequence,
		DebitAccountID:        e.DebitAccountID,
		CreditAccountID:       e.CreditAccountID,
		Amount:                e.Amount,
		Description:           e.Description,
		Category:              e.Category,
		SourceType:            e.SourceType,
		GroupID:               e.GroupID,
		ChoreID:               e.ChoreID,
		LoanID:                e.LoanID,
		ExternalTransactionID: e.ExternalTransactionID,
		IsReversal:            e.IsReversal,
		ReversesEntryID:       e.ReversesEntryID,
		ReversedByEntryID:     e.ReversedByEntryID,
		CreatedAt:             e.CreatedAt,
	}
}

// ToEntryListResponse converts a slice of entries.
func ToEntryListResponse(entries []domain.JournalEntry) []EntryResponse {
	list := make([]EntryResponse, len(entries))
	for i := range entries {
		list[i] = ToEntryResponse(&entries[i])
	}
	return list
}

// EntryGroupResponse is the result of an operation that posts several entries.
type EntryGroupResponse struct {
	GroupID string          `json:"groupID"`
	Entries []EntryResponse `json:"entries"`
}

// ToEntryGroupResponse converts the entries of one group.
func ToEntryGroupResponse(entries []domain.JournalEntry) EntryGroupResponse {
	resp := EntryGroupResponse{Entries: ToEntryListResponse(entries)}
	if len(entries) > 0 {
		resp.GroupID = entries[0].GroupID
	}
	return resp
}

// ListEntriesResponse is one page of an account's entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken string          `json:"nextToken,omitempty"`
}
