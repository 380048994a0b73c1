package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/family_bank/internal/core/domain"
)

// ProcessedEventRepository is the durable idempotency gate for provider events.
type ProcessedEventRepository interface {
	// MarkEventProcessed records the event id and reports whether this call
	// inserted it. A false result means the event was already processed.
	MarkEventProcessed(ctx context.Context, event domain.ProcessedEvent) (bool, error)

	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
}

// FinancialAccountLinkRepository maps provider financial accounts to user buckets.
type FinancialAccountLinkRepository interface {
	SaveLink(ctx context.Context, link domain.FinancialAccountLink) error
	FindLinkByFinancialAccount(ctx context.Context, financialAccountID string) (*domain.FinancialAccountLink, error)
	ListLinks(ctx context.Context) ([]domain.FinancialAccountLink, error)
}

// CardRepository stores provider cards and their spend counters.
type CardRepository interface {
	SaveCard(ctx context.Context, card domain.Card) error
	FindCardByID(ctx context.Context, cardID string) (*domain.Card, error)

	// AddCardSpend adds delta to the card's spend for month, resetting the
	// counter first if the stored month differs, and returns the updated card.
	AddCardSpend(ctx context.Context, cardID string, month string, delta int64) (*domain.Card, error)
}

// ExternalTransferRepository tracks transfers between the ledger and the provider.
type ExternalTransferRepository interface {
	SaveTransfer(ctx context.Context, transfer domain.ExternalTransfer) error
	FindTransferByID(ctx context.Context, transferID string) (*domain.ExternalTransfer, error)
	UpdateTransferStatus(ctx context.Context, transferID string, status domain.TransferStatus, at time.Time) error
}

// FamilyRepository stores per-family settings.
type FamilyRepository interface {
	// FindAllocationSplit returns ErrNotFound when the family has no split configured.
	FindAllocationSplit(ctx context.Context, familyID string) (*domain.AllocationSplit, error)
	SaveAllocationSplit(ctx context.Context, familyID string, split domain.AllocationSplit, updatedBy string) error
}
