package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
)

func TestParseWebhookEvent(t *testing.T) {
	v := NewEventValidator()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("card settlement", func(t *testing.T) {
		body := []byte(`{"id":"evt_9","type":"card_transaction.settled","data":{"transactionID":"ct_1","cardID":"card_1","amount":1999,"kind":"purchase","merchantName":"Books"}}`)
		event, err := v.ParseWebhookEvent(body, at)
		require.NoError(t, err)
		assert.Equal(t, "evt_9", event.EventID)
		assert.Equal(t, domain.EventCardTransactionSettled, event.Type)
		assert.Equal(t, at, event.ReceivedAt)

		p, ok := event.Payload.(domain.CardTransactionSettled)
		require.True(t, ok)
		assert.Equal(t, int64(1999), p.Amount)
		assert.Equal(t, "card_1", p.CardID)
	})

	t.Run("payload type matches envelope", func(t *testing.T) {
		body := []byte(`{"id":"evt_1","type":"outbound_transfer.failed","data":{"transferID":"ot_1","financialAccountID":"fa_1","amount":500}}`)
		event, err := v.ParseWebhookEvent(body, at)
		require.NoError(t, err)
		assert.Equal(t, event.Type, event.Payload.EventType())
	})

	failures := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing id", `{"type":"received_credit.created","data":{}}`},
		{"missing data", `{"id":"evt_1","type":"received_credit.created"}`},
		{"unknown type", `{"id":"evt_1","type":"payout.paid","data":{}}`},
		{"zero amount", `{"id":"evt_1","type":"received_credit.created","data":{"receivedCreditID":"rc_1","financialAccountID":"fa_1","amount":0}}`},
		{"wrong field type", `{"id":"evt_1","type":"received_credit.created","data":{"receivedCreditID":"rc_1","financialAccountID":"fa_1","amount":"ten"}}`},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.ParseWebhookEvent([]byte(tc.body), at)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}
