package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/dto"
	"github.com/SscSPs/family_bank/internal/middleware"
)

type bankingHandler struct {
	bankingService portssvc.BankingSvcFacade
}

// RegisterBankingRoutes registers the money-movement routes.
func RegisterBankingRoutes(rg *gin.RouterGroup, bs portssvc.BankingSvcFacade) {
	h := &bankingHandler{bankingService: bs}

	rg.POST("/transfers", h.transfer)
	rg.POST("/transfers/family", h.sendToFamilyMember)
	rg.POST("/deposits", h.recordDeposit)
	rg.POST("/withdrawals", h.withdraw)
	rg.POST("/chores/:choreID/payout", h.payChore)

	loans := rg.Group("/loans/:loanID")
	{
		loans.POST("/disburse", h.disburseLoan)
		loans.POST("/repay", h.repayLoan)
	}
}

// transfer godoc
// @Summary Move money between two accounts
// @Description Both accounts must belong to the caller.
// @Tags banking
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Account belongs to another user"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 500 {object} map[string]string "Failed to transfer"
// @Security BearerAuth
// @Router /transfers [post]
func (h *bankingHandler) transfer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.TransferRequest
	if !bindJSON(c, &req, "Transfer") {
		return
	}

	entry, err := h.bankingService.Transfer(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to transfer")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transfer posted", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// sendToFamilyMember godoc
// @Summary Send money to another family member
// @Description Credits the recipient's spend bucket. Both users must be in the same family.
// @Tags banking
// @Accept  json
// @Produce  json
// @Param   transfer body dto.SendToFamilyRequest true "Recipient and amount"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Recipient is outside the caller's family"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 500 {object} map[string]string "Failed to send money"
// @Security BearerAuth
// @Router /transfers/family [post]
func (h *bankingHandler) sendToFamilyMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.SendToFamilyRequest
	if !bindJSON(c, &req, "SendToFamilyMember") {
		return
	}

	entry, err := h.bankingService.SendToFamilyMember(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to send money")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// recordDeposit godoc
// @Summary Record a deposit for a user
// @Description Credits the user's buckets using the family allocation split.
// @Tags banking
// @Accept  json
// @Produce  json
// @Param   deposit body dto.DepositRequest true "Deposit details"
// @Success 201 {object} dto.EntryGroupResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to record deposit"
// @Security BearerAuth
// @Router /deposits [post]
func (h *bankingHandler) recordDeposit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.DepositRequest
	if !bindJSON(c, &req, "RecordDeposit") {
		return
	}

	entries, err := h.bankingService.RecordExternalDeposit(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to record deposit")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryGroupResponse(entries))
}

// withdraw godoc
// @Summary Withdraw money to the linked bank account
// @Tags banking
// @Accept  json
// @Produce  json
// @Param   withdrawal body dto.WithdrawalRequest true "Withdrawal details"
// @Success 202 {object} dto.ExternalTransferResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Account belongs to another user"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 503 {object} map[string]string "Treasury provider not configured"
// @Failure 500 {object} map[string]string "Failed to withdraw"
// @Security BearerAuth
// @Router /withdrawals [post]
func (h *bankingHandler) withdraw(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.WithdrawalRequest
	if !bindJSON(c, &req, "Withdraw") {
		return
	}

	transfer, err := h.bankingService.WithdrawToBank(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to withdraw")
		return
	}
	c.JSON(http.StatusAccepted, dto.ToExternalTransferResponse(transfer))
}

// payChore godoc
// @Summary Pay a kid for a completed chore
// @Tags banking
// @Accept  json
// @Produce  json
// @Param   choreID path string true "Chore ID"
// @Param   payout body dto.ChorePayoutRequest true "Payout details"
// @Success 201 {object} dto.EntryGroupResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to pay chore"
// @Security BearerAuth
// @Router /chores/{choreID}/payout [post]
func (h *bankingHandler) payChore(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.ChorePayoutRequest
	if !bindJSON(c, &req, "PayChore") {
		return
	}

	entries, err := h.bankingService.PayChore(c.Request.Context(), c.Param("choreID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to pay chore")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryGroupResponse(entries))
}

// disburseLoan godoc
// @Summary Lend money to a kid
// @Tags banking
// @Accept  json
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Param   loan body dto.LoanRequest true "Loan details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to disburse loan"
// @Security BearerAuth
// @Router /loans/{loanID}/disburse [post]
func (h *bankingHandler) disburseLoan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.LoanRequest
	if !bindJSON(c, &req, "DisburseLoan") {
		return
	}

	entry, err := h.bankingService.DisburseLoan(c.Request.Context(), c.Param("loanID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to disburse loan")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// repayLoan godoc
// @Summary Repay part of a loan from the kid's spend bucket
// @Tags banking
// @Accept  json
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Param   loan body dto.LoanRequest true "Repayment details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 500 {object} map[string]string "Failed to repay loan"
// @Security BearerAuth
// @Router /loans/{loanID}/repay [post]
func (h *bankingHandler) repayLoan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.LoanRequest
	if !bindJSON(c, &req, "RepayLoan") {
		return
	}

	entry, err := h.bankingService.RepayLoan(c.Request.Context(), c.Param("loanID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to repay loan")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}
