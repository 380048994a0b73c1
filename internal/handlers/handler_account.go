package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/dto"
	"github.com/SscSPs/family_bank/internal/middleware"
)

// accountHandler handles HTTP requests related to ledger accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	bankingService portssvc.BankingSvcFacade
	journalService portssvc.JournalSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade, bs portssvc.BankingSvcFacade, js portssvc.JournalSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		bankingService: bs,
		journalService: js,
	}
}

// RegisterAccountRoutes registers routes related to ledger accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, as portssvc.AccountSvcFacade, bs portssvc.BankingSvcFacade, js portssvc.JournalSvcFacade) {
	h := newAccountHandler(as, bs, js)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.POST("/buckets", h.ensureBuckets)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/balance", h.getBalance)
		accounts.GET("/:id/entries", h.listEntries)
	}
}

// listAccounts godoc
// @Summary List the caller's ledger accounts
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListUserAccounts(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// ensureBuckets godoc
// @Summary Create the caller's bucket accounts
// @Description Creates any of the requested buckets the caller does not have yet. An empty list means spend only.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   buckets body dto.EnsureBucketsRequest true "Family and buckets"
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create buckets"
// @Security BearerAuth
// @Router /accounts/buckets [post]
func (h *accountHandler) ensureBuckets(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.EnsureBucketsRequest
	if !bindJSON(c, &req, "EnsureBuckets") {
		return
	}

	accounts, err := h.accountService.EnsureUserBuckets(c.Request.Context(), userID, req.FamilyID, req.Buckets, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create buckets")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getAccount godoc
// @Summary Get a ledger account by ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (another user's account)"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, ok := h.readableAccount(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getBalance godoc
// @Summary Get the cached balance of an account
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (another user's account)"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	if _, ok := h.readableAccount(c); !ok {
		return
	}

	balance, err := h.bankingService.GetAccountBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(balance))
}

// listEntries godoc
// @Summary List journal entries touching an account
// @Description Entries come back in posting order. Pass nextToken from the previous page to continue.
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (another user's account)"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Security BearerAuth
// @Router /accounts/{id}/entries [get]
func (h *accountHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	account, ok := h.readableAccount(c)
	if !ok {
		return
	}

	resp, err := h.journalService.ListAccountEntries(c.Request.Context(), account.AccountID, params)
	if err != nil {
		respondWithError(c, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// readableAccount loads the :id account and checks the caller may see it.
// Bucket accounts are private to their owner; system accounts are visible to
// every authenticated user.
func (h *accountHandler) readableAccount(c *gin.Context) (*domain.LedgerAccount, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	accountID := c.Param("id")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve account")
		return nil, false
	}
	if account.Category == domain.CategoryUserBucket && account.UserID != userID {
		respondWithError(c, fmt.Errorf("%w: account %s belongs to another user", apperrors.ErrForbidden, accountID), "Forbidden")
		return nil, false
	}
	return account, true
}
