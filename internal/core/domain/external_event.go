package domain

import "time"

// ExternalEventType is the provider's event type string.
type ExternalEventType string

const (
	EventInboundTransferSucceeded  ExternalEventType = "inbound_transfer.succeeded"
	EventInboundTransferFailed     ExternalEventType = "inbound_transfer.failed"
	EventOutboundTransferSucceeded ExternalEventType = "outbound_transfer.succeeded"
	EventOutboundTransferFailed    ExternalEventType = "outbound_transfer.failed"
	EventReceivedCredit            ExternalEventType = "received_credit.created"
	EventReceivedDebit             ExternalEventType = "received_debit.created"
	EventCardAuthorizationCreated  ExternalEventType = "card_authorization.created"
	EventCardTransactionSettled    ExternalEventType = "card_transaction.settled"
)

// EventPayload is implemented only by the payload variants below.
type EventPayload interface {
	EventType() ExternalEventType
}

// ExternalEvent is a parsed and validated provider event.
type ExternalEvent struct {
	EventID    string
	Type       ExternalEventType
	Payload    EventPayload
	ReceivedAt time.Time
}

type InboundTransferSucceeded struct {
	TransferID         string `json:"transferID" validate:"required"`
	FinancialAccountID string `json:"financialAccountID" validate:"required"`
	Amount             int64  `json:"amount" validate:"gt=0"`
	Description        string `json:"description"`
}

func (InboundTransferSucceeded) EventType() ExternalEventType { return EventInboundTransferSucceeded }

type InboundTransferFailed struct {
	TransferID         string `json:"transferID" validate:"required"`
	FinancialAccountID string `json:"financialAccountID" validate:"required"`
	Amount             int64  `json:"amount" validate:"gte=0"`
	FailureReason      string `json:"failureReason"`
}

func (InboundTransferFailed) EventType() ExternalEventType { return EventInboundTransferFailed }

type OutboundTransferSucceeded struct {
	TransferID         string `json:"transferID" validate:"required"`
	FinancialAccountID string `json:"financialAccountID" validate:"required"`
	Amount             int64  `json:"amount" validate:"gte=0"`
}

func (OutboundTransferSucceeded) EventType() ExternalEventType { return EventOutboundTransferSucceeded }

type OutboundTransferFailed struct {
	TransferID         string `json:"transferID" validate:"required"`
	FinancialAccountID string `json:"financialAccountID" validate:"required"`
	Amount             int64  `json:"amount" validate:"gte=0"`
	FailureReason      string `json:"failureReason"`
}

func (OutboundTransferFailed) EventType() ExternalEventType { return EventOutboundTransferFailed }

type ReceivedCredit struct {
	ReceivedCreditID   string `json:"receivedCreditID" validate:"required"`
	FinancialAccountID string `json:"financialAccountID" validate:"required"`
	Amount             int64  `json:"amount" validate:"gt=0"`
	Description        string `json:"description"`
}

func (ReceivedCredit) EventType() ExternalEventType { return EventReceivedCredit }

type ReceivedDebit struct {
	ReceivedDebitID    string `json:"receivedDebitID" validate:"required"`
	FinancialAccountID string `json:"financialAccountID" validate:"required"`
	Amount             int64  `json:"amount" validate:"gt=0"`
	Description        string `json:"description"`
}

func (ReceivedDebit) EventType() ExternalEventType { return EventReceivedDebit }

type CardAuthorizationCreated struct {
	AuthorizationID string `json:"authorizationID" validate:"required"`
	CardID          string `json:"cardID" validate:"required"`
	Amount          int64  `json:"amount" validate:"gte=0"`
	MerchantName    string `json:"merchantName"`
	Approved        bool   `json:"approved"`
}

func (CardAuthorizationCreated) EventType() ExternalEventType { return EventCardAuthorizationCreated }

// Card transaction kinds.
const (
	CardTransactionPurchase = "purchase"
	CardTransactionRefund   = "refund"
)

type CardTransactionSettled struct {
	TransactionID   string `json:"transactionID" validate:"required"`
	CardID          string `json:"cardID" validate:"required"`
	AuthorizationID string `json:"authorizationID"`
	Amount          int64  `json:"amount" validate:"gt=0"`
	Kind            string `json:"kind" validate:"required,oneof=purchase refund"`
	MerchantName    string `json:"merchantName"`
}

func (CardTransactionSettled) EventType() ExternalEventType { return EventCardTransactionSettled }

// ProcessedEvent marks a provider event id as already applied.
type ProcessedEvent struct {
	EventID     string
	EventType   ExternalEventType
	ProcessedAt time.Time
}
