package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Treasury-Signature"

// MaxWebhookBody caps the webhook body size in bytes.
const MaxWebhookBody = 1 << 20

// WebhookSignature rejects webhook calls whose body does not match the
// signature header. With an empty secret every call is let through.
func WebhookSignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		if secret == "" {
			logger.Warn("Webhook secret not configured, skipping signature check")
			c.Next()
			return
		}

		body, err := ReadLimitedBody(c, MaxWebhookBody)
		if err != nil {
			logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(BodyErrorStatus(err), gin.H{"error": "Unreadable body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		given, err := hex.DecodeString(c.GetHeader(SignatureHeader))
		if err != nil || !hmac.Equal(given, SignBody(secret, body)) {
			logger.Warn("Webhook signature mismatch")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
			return
		}

		c.Next()
	}
}

// SignBody computes the raw HMAC-SHA256 of body.
func SignBody(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// ReadLimitedBody reads the request body, failing once it exceeds limit bytes.
func ReadLimitedBody(c *gin.Context, limit int64) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
}

// BodyErrorStatus maps a ReadLimitedBody error to a response status.
func BodyErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
