package treasury

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/SscSPs/family_bank/internal/apperrors"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/middleware"
)

// Options configures the treasury API client.
type Options struct {
	BaseURL string
	Timeout time.Duration

	// APIKey is sent as a bearer token when no OAuth2 credentials are set.
	APIKey string

	ClientID     string
	ClientSecret string
	TokenURL     string
}

// Client calls the treasury provider's REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ portssvc.TreasuryProvider = (*Client)(nil)

// NewClient builds a client. With OAuth2 credentials the returned client
// fetches and refreshes tokens itself.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("%w: treasury base URL is required", apperrors.ErrValidation)
	}
	base := &http.Client{Timeout: opts.Timeout}
	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		http:    base,
	}

	if opts.ClientID != "" && opts.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
		}
		tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, base)
		c.http = cc.Client(tokenCtx)
		c.http.Timeout = opts.Timeout
		c.apiKey = ""
	}
	return c, nil
}

type financialAccountResponse struct {
	ID      string `json:"id"`
	Balance struct {
		Cash int64 `json:"cash"`
	} `json:"balance"`
}

type outboundTransferRequest struct {
	FinancialAccount string `json:"financial_account"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Description      string `json:"description,omitempty"`
}

type outboundTransferResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GetFinancialAccountBalance returns the cash balance of a financial account in cents.
func (c *Client) GetFinancialAccountBalance(ctx context.Context, financialAccountID string) (int64, error) {
	var out financialAccountResponse
	if err := c.do(ctx, http.MethodGet, "/financial_accounts/"+financialAccountID, nil, "", &out); err != nil {
		return 0, err
	}
	return out.Balance.Cash, nil
}

// CreateOutboundTransfer starts an outbound transfer and returns the provider's transfer id.
func (c *Client) CreateOutboundTransfer(ctx context.Context, financialAccountID string, amount int64, description string) (string, error) {
	body := outboundTransferRequest{
		FinancialAccount: financialAccountID,
		Amount:           amount,
		Currency:         "usd",
		Description:      description,
	}
	var out outboundTransferResponse
	if err := c.do(ctx, http.MethodPost, "/outbound_transfers", body, uuid.NewString(), &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("treasury returned an outbound transfer without an id")
	}
	return out.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, idempotencyKey string, out any) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode treasury request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build treasury request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("treasury %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()
	logger.Debug("Treasury API call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read treasury response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr errorResponse
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: treasury %s: %s", apperrors.ErrNotFound, path, msg)
		}
		return fmt.Errorf("treasury %s %s returned %d: %s", method, path, resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode treasury response: %w", err)
	}
	return nil
}
