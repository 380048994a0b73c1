package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/platform/metrics"
)

// TrustScoreSignal is the analytics event emitted when a card goes over its monthly limit.
const TrustScoreSignal = "trust_score_signal"

const (
	eventOutcomeApplied   = "applied"
	eventOutcomeDuplicate = "duplicate"
	eventOutcomeDropped   = "dropped"
)

type eventAdapterService struct {
	BaseService
	processedRepo portsrepo.ProcessedEventRepository
	linkRepo      portsrepo.FinancialAccountLinkRepository
	cardRepo      portsrepo.CardRepository
	transferRepo  portsrepo.ExternalTransferRepository
	accounts      portssvc.AccountSvcFacade
	journal       portssvc.JournalWriterSvc
	cache         portssvc.ProcessedEventCache
	publisher     portssvc.EventPublisher
}

// EventAdapterOption configures the event adapter.
type EventAdapterOption func(*eventAdapterService)

// WithProcessedEventCache puts a cache in front of the processed-events table.
func WithProcessedEventCache(cache portssvc.ProcessedEventCache) EventAdapterOption {
	return func(s *eventAdapterService) {
		s.cache = cache
	}
}

// WithEventPublisher sets where behavioural signals are sent.
func WithEventPublisher(publisher portssvc.EventPublisher) EventAdapterOption {
	return func(s *eventAdapterService) {
		s.publisher = publisher
	}
}

// NewEventAdapterService creates the provider event adapter.
func NewEventAdapterService(
	processedRepo portsrepo.ProcessedEventRepository,
	linkRepo portsrepo.FinancialAccountLinkRepository,
	cardRepo portsrepo.CardRepository,
	transferRepo portsrepo.ExternalTransferRepository,
	accounts portssvc.AccountSvcFacade,
	journal portssvc.JournalWriterSvc,
	options ...EventAdapterOption,
) portssvc.EventAdapterSvc {
	svc := &eventAdapterService{
		processedRepo: processedRepo,
		linkRepo:      linkRepo,
		cardRepo:      cardRepo,
		transferRepo:  transferRepo,
		accounts:      accounts,
		journal:       journal,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.EventAdapterSvc = (*eventAdapterService)(nil)

// ApplyEvent applies a provider event at most once. The event id is recorded
// before any effect, so a handler failure leaves the event marked processed:
// it is logged, counted as dropped and never retried.
func (s *eventAdapterService) ApplyEvent(ctx context.Context, event domain.ExternalEvent) (bool, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("event_id", event.EventID),
		slog.String("event_type", string(event.Type)))
	eventType := string(event.Type)

	if event.EventID == "" || event.Payload == nil {
		return false, fmt.Errorf("%w: event id and payload are required", apperrors.ErrValidation)
	}
	if event.Payload.EventType() != event.Type {
		return false, fmt.Errorf("%w: payload does not match event type %s", apperrors.ErrValidation, event.Type)
	}

	if s.cache != nil {
		seen, err := s.cache.Seen(ctx, event.EventID)
		if err != nil {
			logger.Warn("Processed-event cache lookup failed", slog.String("error", err.Error()))
		} else if seen {
			metrics.ExternalEvents.WithLabelValues(eventType, eventOutcomeDuplicate).Inc()
			logger.Debug("Duplicate event ignored (cache)")
			return false, nil
		}
	}

	inserted, err := s.processedRepo.MarkEventProcessed(ctx, domain.ProcessedEvent{
		EventID:     event.EventID,
		EventType:   event.Type,
		ProcessedAt: s.Now(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record processed event", slog.String("event_id", event.EventID))
		return false, fmt.Errorf("failed to record event %s: %w", event.EventID, err)
	}
	if !inserted {
		s.remember(ctx, logger, event.EventID)
		metrics.ExternalEvents.WithLabelValues(eventType, eventOutcomeDuplicate).Inc()
		logger.Info("Duplicate event ignored")
		return false, nil
	}

	if err := s.dispatch(ctx, logger, event); err != nil {
		metrics.ExternalEvents.WithLabelValues(eventType, eventOutcomeDropped).Inc()
		logger.Warn("Event handler failed; event marked processed and dropped", slog.String("error", err.Error()))
		s.remember(ctx, logger, event.EventID)
		return false, nil
	}

	s.remember(ctx, logger, event.EventID)
	metrics.ExternalEvents.WithLabelValues(eventType, eventOutcomeApplied).Inc()
	logger.Info("Event applied")
	return true, nil
}

func (s *eventAdapterService) remember(ctx context.Context, logger *slog.Logger, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Remember(ctx, eventID); err != nil {
		logger.Warn("Failed to cache processed event", slog.String("error", err.Error()))
	}
}

func (s *eventAdapterService) dispatch(ctx context.Context, logger *slog.Logger, event domain.ExternalEvent) error {
	switch p := event.Payload.(type) {
	case domain.InboundTransferSucceeded:
		return s.onInboundSucceeded(ctx, event.EventID, p)
	case domain.InboundTransferFailed:
		return s.onInboundFailed(ctx, logger, p)
	case domain.OutboundTransferSucceeded:
		return s.onOutboundSucceeded(ctx, p)
	case domain.OutboundTransferFailed:
		return s.onOutboundFailed(ctx, logger, p)
	case domain.ReceivedCredit:
		return s.onReceivedCredit(ctx, event.EventID, p)
	case domain.ReceivedDebit:
		return s.onReceivedDebit(ctx, event.EventID, p)
	case domain.CardAuthorizationCreated:
		logger.Info("Card authorization received",
			slog.String("card_id", p.CardID),
			slog.String("authorization_id", p.AuthorizationID),
			slog.Int64("amount", p.Amount),
			slog.Bool("approved", p.Approved))
		return nil
	case domain.CardTransactionSettled:
		return s.onCardSettled(ctx, logger, event.EventID, p)
	}
	return fmt.Errorf("%w: unsupported event payload %T", apperrors.ErrValidation, event.Payload)
}

func (s *eventAdapterService) onInboundSucceeded(ctx context.Context, eventID string, p domain.InboundTransferSucceeded) error {
	existing, err := s.transferRepo.FindTransferByID(ctx, p.TransferID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to load transfer %s: %w", p.TransferID, err)
	}
	if existing != nil && existing.Status == domain.TransferCompleted {
		return fmt.Errorf("%w: inbound transfer %s already completed", apperrors.ErrConflict, p.TransferID)
	}

	link, bucket, err := s.linkedBucket(ctx, p.FinancialAccountID)
	if err != nil {
		return err
	}
	pool, err := s.accounts.GetAccountByCode(ctx, domain.SystemProviderTreasuryPool)
	if err != nil {
		return err
	}

	entry, err := s.journal.CreateEntry(ctx, bucket.AccountID, pool.AccountID, p.Amount, domain.EntryMetadata{
		Description:           describe(p.Description, "Inbound transfer"),
		Category:              domain.EntryDeposit,
		SourceType:            domain.SourceTreasuryEvent,
		SourceID:              eventID,
		ActorID:               domain.SystemActor,
		ExternalTransactionID: p.TransferID,
	})
	if err != nil {
		return err
	}

	now := s.Now()
	if existing != nil {
		return s.transferRepo.UpdateTransferStatus(ctx, p.TransferID, domain.TransferCompleted, now)
	}
	return s.transferRepo.SaveTransfer(ctx, domain.ExternalTransfer{
		TransferID:         p.TransferID,
		FinancialAccountID: p.FinancialAccountID,
		UserID:             link.UserID,
		AccountID:          bucket.AccountID,
		Direction:          domain.TransferInbound,
		Amount:             p.Amount,
		Status:             domain.TransferCompleted,
		EntryID:            entry.EntryID,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
}

func (s *eventAdapterService) onInboundFailed(ctx context.Context, logger *slog.Logger, p domain.InboundTransferFailed) error {
	err := s.transferRepo.UpdateTransferStatus(ctx, p.TransferID, domain.TransferFailed, s.Now())
	if errors.Is(err, apperrors.ErrNotFound) {
		logger.Info("Inbound transfer failed before it was tracked",
			slog.String("transfer_id", p.TransferID),
			slog.String("reason", p.FailureReason))
		return nil
	}
	return err
}

func (s *eventAdapterService) onOutboundSucceeded(ctx context.Context, p domain.OutboundTransferSucceeded) error {
	return s.transferRepo.UpdateTransferStatus(ctx, p.TransferID, domain.TransferCompleted, s.Now())
}

// onOutboundFailed refunds a withdrawal by reversing the entry that debited it.
func (s *eventAdapterService) onOutboundFailed(ctx context.Context, logger *slog.Logger, p domain.OutboundTransferFailed) error {
	t, err := s.transferRepo.FindTransferByID(ctx, p.TransferID)
	if err != nil {
		return fmt.Errorf("failed to load outbound transfer %s: %w", p.TransferID, err)
	}
	if t.Status != domain.TransferPending {
		logger.Info("Outbound transfer already settled, ignoring failure",
			slog.String("transfer_id", t.TransferID),
			slog.String("status", string(t.Status)))
		return nil
	}

	if t.EntryID != "" {
		reason := describe(p.FailureReason, "outbound transfer failed")
		if _, err := s.journal.ReverseEntry(ctx, t.EntryID, reason, domain.SystemActor); err != nil && !errors.Is(err, apperrors.ErrAlreadyReversed) {
			return err
		}
	}
	return s.transferRepo.UpdateTransferStatus(ctx, p.TransferID, domain.TransferFailed, s.Now())
}

func (s *eventAdapterService) onReceivedCredit(ctx context.Context, eventID string, p domain.ReceivedCredit) error {
	_, bucket, err := s.linkedBucket(ctx, p.FinancialAccountID)
	if err != nil {
		return err
	}
	pool, err := s.accounts.GetAccountByCode(ctx, domain.SystemProviderTreasuryPool)
	if err != nil {
		return err
	}
	_, err = s.journal.CreateEntry(ctx, bucket.AccountID, pool.AccountID, p.Amount, domain.EntryMetadata{
		Description:           describe(p.Description, "Received credit"),
		Category:              domain.EntryReceivedCredit,
		SourceType:            domain.SourceTreasuryEvent,
		SourceID:              eventID,
		ActorID:               domain.SystemActor,
		ExternalTransactionID: p.ReceivedCreditID,
	})
	return err
}

func (s *eventAdapterService) onReceivedDebit(ctx context.Context, eventID string, p domain.ReceivedDebit) error {
	_, bucket, err := s.linkedBucket(ctx, p.FinancialAccountID)
	if err != nil {
		return err
	}
	pool, err := s.accounts.GetAccountByCode(ctx, domain.SystemProviderTreasuryPool)
	if err != nil {
		return err
	}
	_, err = s.journal.CreateEntry(ctx, pool.AccountID, bucket.AccountID, p.Amount, domain.EntryMetadata{
		Description:           describe(p.Description, "Received debit"),
		Category:              domain.EntryReceivedDebit,
		SourceType:            domain.SourceTreasuryEvent,
		SourceID:              eventID,
		ActorID:               domain.SystemActor,
		ExternalTransactionID: p.ReceivedDebitID,
	})
	return err
}

// onCardSettled posts the purchase or refund against the cardholder's spend
// bucket and keeps the monthly spend counter current.
func (s *eventAdapterService) onCardSettled(ctx context.Context, logger *slog.Logger, eventID string, p domain.CardTransactionSettled) error {
	card, err := s.cardRepo.FindCardByID(ctx, p.CardID)
	if err != nil {
		return fmt.Errorf("failed to load card %s: %w", p.CardID, err)
	}
	buckets, err := s.accounts.EnsureUserBuckets(ctx, card.UserID, card.FamilyID, []domain.BucketType{domain.BucketSpend}, domain.SystemActor)
	if err != nil {
		return err
	}
	spend := buckets[0]
	cardSpend, err := s.accounts.GetAccountByCode(ctx, domain.SystemCardSpend)
	if err != nil {
		return err
	}

	meta := domain.EntryMetadata{
		Description:           describe(p.MerchantName, "Card transaction"),
		SourceType:            domain.SourceTreasuryEvent,
		SourceID:              eventID,
		ActorID:               domain.SystemActor,
		ExternalTransactionID: p.TransactionID,
	}
	delta := p.Amount
	if p.Kind == domain.CardTransactionRefund {
		meta.Category = domain.EntryCardRefund
		_, err = s.journal.CreateEntry(ctx, spend.AccountID, cardSpend.AccountID, p.Amount, meta)
		delta = -p.Amount
	} else {
		meta.Category = domain.EntryCardPurchase
		_, err = s.journal.CreateEntry(ctx, cardSpend.AccountID, spend.AccountID, p.Amount, meta)
	}
	if err != nil {
		return err
	}

	updated, err := s.cardRepo.AddCardSpend(ctx, card.CardID, domain.SpendMonthKey(s.Now()), delta)
	if err != nil {
		// The ledger effect stands; only the counter is stale.
		logger.Error("Failed to update card spend counter", slog.String("card_id", card.CardID), slog.String("error", err.Error()))
		return nil
	}

	if delta > 0 && updated.LimitExceeded() && s.publisher != nil {
		crossed := updated.MonthToDateSpend-delta <= updated.MonthlySpendLimit
		logger.Info("Card monthly spend limit exceeded",
			slog.String("card_id", updated.CardID),
			slog.Int64("limit", updated.MonthlySpendLimit),
			slog.Int64("month_to_date", updated.MonthToDateSpend))
		s.publisher.Publish(ctx, updated.UserID, TrustScoreSignal, map[string]any{
			"reason":        "monthly_spend_limit_exceeded",
			"card_id":       updated.CardID,
			"limit":         updated.MonthlySpendLimit,
			"month_to_date": updated.MonthToDateSpend,
			"crossed":       crossed,
		})
	}
	return nil
}

// linkedBucket resolves a provider financial account to the ledger bucket it
// is linked to, creating the bucket if the user does not have it yet.
func (s *eventAdapterService) linkedBucket(ctx context.Context, financialAccountID string) (*domain.FinancialAccountLink, *domain.LedgerAccount, error) {
	link, err := s.linkRepo.FindLinkByFinancialAccount(ctx, financialAccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve financial account %s: %w", financialAccountID, err)
	}
	buckets, err := s.accounts.EnsureUserBuckets(ctx, link.UserID, link.FamilyID, []domain.BucketType{link.BucketType}, domain.SystemActor)
	if err != nil {
		return nil, nil, err
	}
	return link, &buckets[0], nil
}

func describe(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
