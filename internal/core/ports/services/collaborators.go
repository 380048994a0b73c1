package services

import "context"

// EventPublisher sends behavioural signals (trust score inputs, usage events)
// to the analytics pipeline. Publishing never fails the caller.
type EventPublisher interface {
	Publish(ctx context.Context, distinctID string, event string, properties map[string]any)
}

// TreasuryProvider is the slice of the payments/treasury provider API the ledger calls.
type TreasuryProvider interface {
	// GetFinancialAccountBalance returns the provider's balance in cents.
	GetFinancialAccountBalance(ctx context.Context, financialAccountID string) (int64, error)

	// CreateOutboundTransfer asks the provider to send money out and returns its transfer id.
	CreateOutboundTransfer(ctx context.Context, financialAccountID string, amount int64, description string) (string, error)
}

// ProcessedEventCache is a fast, lossy front to the processed-events table.
type ProcessedEventCache interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Remember(ctx context.Context, eventID string) error
}
