package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/dto"
	"github.com/SscSPs/family_bank/internal/middleware"
)

type webhookHandler struct {
	eventService portssvc.EventAdapterSvc
	validator    *dto.EventValidator
	now          func() time.Time
}

// RegisterWebhookRoutes registers the provider webhook endpoint. It sits
// outside bearer auth and is guarded by the body signature instead.
func RegisterWebhookRoutes(r gin.IRouter, es portssvc.EventAdapterSvc, secret string) {
	h := &webhookHandler{eventService: es, validator: dto.NewEventValidator(), now: time.Now}
	r.POST("/webhooks/treasury", middleware.WebhookSignature(secret), h.receive)
}

// receive godoc
// @Summary Receive a treasury provider event
// @Description Applies the event to the ledger once. Redelivered events are acknowledged without effect.
// @Tags webhooks
// @Accept  json
// @Produce  json
// @Param   X-Treasury-Signature header string false "Hex HMAC-SHA256 of the body"
// @Success 200 {object} dto.WebhookAck
// @Failure 400 {object} map[string]string "Malformed or unsupported event"
// @Failure 401 {object} map[string]string "Invalid signature"
// @Failure 413 {object} map[string]string "Body too large"
// @Failure 500 {object} map[string]string "Failed to process event"
// @Router /webhooks/treasury [post]
func (h *webhookHandler) receive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	body, err := middleware.ReadLimitedBody(c, middleware.MaxWebhookBody)
	if err != nil {
		logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.JSON(middleware.BodyErrorStatus(err), gin.H{"error": "Unreadable body"})
		return
	}

	event, err := h.validator.ParseWebhookEvent(body, h.now().UTC())
	if err != nil {
		respondWithError(c, err, "Invalid webhook event")
		return
	}

	logger = logger.With(slog.String("event_id", event.EventID), slog.String("event_type", string(event.Type)))
	ctx := middleware.WithLogger(c.Request.Context(), logger)

	applied, err := h.eventService.ApplyEvent(ctx, *event)
	if err != nil {
		// A non-2xx makes the provider redeliver.
		respondWithError(c, err, "Failed to process event")
		return
	}
	c.JSON(http.StatusOK, dto.WebhookAck{EventID: event.EventID, Applied: applied})
}
