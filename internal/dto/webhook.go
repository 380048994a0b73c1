package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

// WebhookEnvelope is the outer shape of every provider webhook.
type WebhookEnvelope struct {
	ID   string          `json:"id" validate:"required"`
	Type string          `json:"type" validate:"required"`
	Data json.RawMessage `json:"data" validate:"required"`
}

// WebhookAck is returned to the provider once an event has been handled.
type WebhookAck struct {
	EventID string `json:"eventID"`
	Applied bool   `json:"applied"`
}

// EventValidator validates webhook envelopes and payload variants.
type EventValidator struct {
	validate *validator.Validate
}

// NewEventValidator creates an EventValidator.
func NewEventValidator() *EventValidator {
	return &EventValidator{validate: validator.New()}
}

// ParseWebhookEvent decodes and validates a webhook body into a typed event.
// Every failure wraps apperrors.ErrValidation.
func (v *EventValidator) ParseWebhookEvent(body []byte, receivedAt time.Time) (*domain.ExternalEvent, error) {
	var envelope WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed webhook body: %v", apperrors.ErrValidation, err)
	}
	if err := v.validate.Struct(envelope); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, describeValidation(err))
	}

	payload, err := newPayload(domain.ExternalEventType(envelope.Type))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return nil, fmt.Errorf("%w: malformed %s payload: %v", apperrors.ErrValidation, envelope.Type, err)
	}
	if err := v.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %s", apperrors.ErrValidation, envelope.Type, describeValidation(err))
	}

	return &domain.ExternalEvent{
		EventID:    envelope.ID,
		Type:       domain.ExternalEventType(envelope.Type),
		Payload:    derefPayload(payload),
		ReceivedAt: receivedAt,
	}, nil
}

// newPayload returns a pointer to the zero payload for the event type.
func newPayload(eventType domain.ExternalEventType) (any, error) {
	switch eventType {
	case domain.EventInboundTransferSucceeded:
		return &domain.InboundTransferSucceeded{}, nil
	case domain.EventInboundTransferFailed:
		return &domain.InboundTransferFailed{}, nil
	case domain.EventOutboundTransferSucceeded:
		return &domain.OutboundTransferSucceeded{}, nil
	case domain.EventOutboundTransferFailed:
		return &domain.OutboundTransferFailed{}, nil
	case domain.EventReceivedCredit:
		return &domain.ReceivedCredit{}, nil
	case domain.EventReceivedDebit:
		return &domain.ReceivedDebit{}, nil
	case domain.EventCardAuthorizationCreated:
		return &domain.CardAuthorizationCreated{}, nil
	case domain.EventCardTransactionSettled:
		return &domain.CardTransactionSettled{}, nil
	}
	return nil, fmt.Errorf("%w: unsupported event type %q", apperrors.ErrValidation, eventType)
}

// derefPayload turns the decoded pointer back into the value variant so
// handlers can type-switch on plain struct types.
func derefPayload(p any) domain.EventPayload {
	switch v := p.(type) {
	case *domain.InboundTransferSucceeded:
		return *v
	case *domain.InboundTransferFailed:
		return *v
	case *domain.OutboundTransferSucceeded:
		return *v
	case *domain.OutboundTransferFailed:
		return *v
	case *domain.ReceivedCredit:
		return *v
	case *domain.ReceivedDebit:
		return *v
	case *domain.CardAuthorizationCreated:
		return *v
	case *domain.CardTransactionSettled:
		return *v
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
