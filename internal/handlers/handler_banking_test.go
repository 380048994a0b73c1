package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/SscSPs/family_bank/internal/dto"
	"github.com/SscSPs/family_bank/internal/handlers"
)

type BankingHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockBankingService *MockBankingService
	userID             string
}

func (suite *BankingHandlerTestSuite) SetupTest() {
	router, v1 := newTestRouter()
	suite.router = router
	suite.mockBankingService = new(MockBankingService)
	suite.userID = uuid.NewString()
	handlers.RegisterBankingRoutes(v1, suite.mockBankingService)
}

func (suite *BankingHandlerTestSuite) TearDownTest() {
	suite.mockBankingService.AssertExpectations(suite.T())
}

func (suite *BankingHandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func transferBody() map[string]any {
	return map[string]any{
		"fromAccountID": "acc-spend",
		"toAccountID":   "acc-save",
		"amount":        "12.50",
		"description":   "saving up",
	}
}

func isTransfer(req dto.TransferRequest) bool {
	return req.FromAccountID == "acc-spend" && req.ToAccountID == "acc-save" && req.Amount.StringFixed(2) == "12.50"
}

func (suite *BankingHandlerTestSuite) TestTransfer_Success() {
	entry := &domain.JournalEntry{
		EntryID:         "entry-1",
		Sequence:        7,
		DebitAccountID:  "acc-save",
		CreditAccountID: "acc-spend",
		Amount:          1250,
		Category:        domain.EntryTransfer,
		GroupID:         "group-1",
		CreatedAt:       time.Now(),
	}
	suite.mockBankingService.On("Transfer", mock.Anything, mock.MatchedBy(isTransfer), suite.userID).Return(entry, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers", transferBody())

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("entry-1", resp.EntryID)
	suite.Equal(int64(1250), resp.Amount)
	suite.Equal(int64(7), resp.Sequence)
}

func (suite *BankingHandlerTestSuite) TestTransfer_InsufficientFunds() {
	err := &apperrors.InsufficientFundsError{AccountID: "acc-spend", Balance: 3000, Requested: 5000}
	suite.mockBankingService.On("Transfer", mock.Anything, mock.Anything, suite.userID).Return(nil, err).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers", transferBody())

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(w.Body.String(), "insufficient funds")
}

func (suite *BankingHandlerTestSuite) TestTransfer_Forbidden() {
	err := fmt.Errorf("%w: account acc-save does not belong to the caller", apperrors.ErrForbidden)
	suite.mockBankingService.On("Transfer", mock.Anything, mock.Anything, suite.userID).Return(nil, err).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers", transferBody())

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *BankingHandlerTestSuite) TestTransfer_BadBody() {
	w := suite.do(http.MethodPost, "/api/v1/transfers", map[string]any{"amount": "1.00"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Invalid request format")
}

func (suite *BankingHandlerTestSuite) TestTransfer_RequiresToken() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *BankingHandlerTestSuite) TestTransfer_InternalErrorHidesCause() {
	suite.mockBankingService.On("Transfer", mock.Anything, mock.Anything, suite.userID).
		Return(nil, errors.New("connection reset by peer")).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers", transferBody())

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection reset")
}

func (suite *BankingHandlerTestSuite) TestDeposit_PartialGroupReportsPostedEntries() {
	partial := &apperrors.PartialGroupError{
		GroupID:        "group-9",
		PostedEntryIDs: []string{"e1", "e2"},
		FailedIndex:    2,
		Err:            errors.New("db down"),
	}
	suite.mockBankingService.On("RecordExternalDeposit", mock.Anything, mock.Anything, suite.userID).Return(nil, partial).Once()

	w := suite.do(http.MethodPost, "/api/v1/deposits", map[string]any{
		"userID":     "kid-1",
		"familyID":   "fam-1",
		"amount":     "100.00",
		"sourceType": "parent_deposit",
	})

	suite.Equal(http.StatusInternalServerError, w.Code)
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("group-9", body["groupID"])
	suite.Len(body["postedEntryIDs"], 2)
}

func (suite *BankingHandlerTestSuite) TestDeposit_ReturnsGroup() {
	entries := []domain.JournalEntry{
		{EntryID: "e1", GroupID: "group-1", Amount: 5000},
		{EntryID: "e2", GroupID: "group-1", Amount: 3000},
	}
	suite.mockBankingService.On("RecordExternalDeposit", mock.Anything, mock.MatchedBy(func(req dto.DepositRequest) bool {
		return req.UserID == "kid-1" && req.Amount.StringFixed(2) == "80.00"
	}), suite.userID).Return(entries, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/deposits", map[string]any{
		"userID":     "kid-1",
		"familyID":   "fam-1",
		"amount":     "80.00",
		"sourceType": "parent_deposit",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.EntryGroupResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("group-1", resp.GroupID)
	suite.Len(resp.Entries, 2)
}

func (suite *BankingHandlerTestSuite) TestDeposit_RejectsUnknownSource() {
	w := suite.do(http.MethodPost, "/api/v1/deposits", map[string]any{
		"userID":     "kid-1",
		"familyID":   "fam-1",
		"amount":     "80.00",
		"sourceType": "lottery",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *BankingHandlerTestSuite) TestWithdraw_ProviderUnavailable() {
	err := fmt.Errorf("%w: no withdrawal provider configured", apperrors.ErrUnavailable)
	suite.mockBankingService.On("WithdrawToBank", mock.Anything, mock.Anything, suite.userID).Return(nil, err).Once()

	w := suite.do(http.MethodPost, "/api/v1/withdrawals", map[string]any{
		"accountID":          "acc-spend",
		"financialAccountID": "fa-1",
		"amount":             "10.00",
	})

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *BankingHandlerTestSuite) TestPayChore_PassesChoreID() {
	entries := []domain.JournalEntry{{EntryID: "e1", GroupID: "g1", ChoreID: "chore-42", Amount: 300}}
	suite.mockBankingService.On("PayChore", mock.Anything, "chore-42", mock.Anything, suite.userID).Return(entries, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/chores/chore-42/payout", map[string]any{
		"kidUserID": "kid-1",
		"familyID":  "fam-1",
		"amount":    "3.00",
	})

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *BankingHandlerTestSuite) TestRepayLoan_PassesLoanID() {
	entry := &domain.JournalEntry{EntryID: "e1", LoanID: "loan-7", Amount: 500}
	suite.mockBankingService.On("RepayLoan", mock.Anything, "loan-7", mock.Anything, suite.userID).Return(entry, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/loans/loan-7/repay", map[string]any{
		"kidUserID": "kid-1",
		"amount":    "5.00",
	})

	suite.Equal(http.StatusCreated, w.Code)
}

func TestBankingHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BankingHandlerTestSuite))
}
