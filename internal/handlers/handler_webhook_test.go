package handlers_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/SscSPs/family_bank/internal/dto"
	"github.com/SscSPs/family_bank/internal/handlers"
	"github.com/SscSPs/family_bank/internal/middleware"
)

const webhookSecret = "whsec_test"

type WebhookHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockEventService *MockEventService
}

func (suite *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockEventService = new(MockEventService)
	handlers.RegisterWebhookRoutes(suite.router, suite.mockEventService, webhookSecret)
}

func (suite *WebhookHandlerTestSuite) TearDownTest() {
	suite.mockEventService.AssertExpectations(suite.T())
}

func (suite *WebhookHandlerTestSuite) post(body []byte, signature string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/webhooks/treasury", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(middleware.SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sign(body []byte) string {
	return hex.EncodeToString(middleware.SignBody(webhookSecret, body))
}

func inboundBody() []byte {
	return []byte(`{"id":"evt_1","type":"inbound_transfer.succeeded","data":{"transferID":"it_1","financialAccountID":"fa_1","amount":2500}}`)
}

func (suite *WebhookHandlerTestSuite) TestApplied() {
	suite.mockEventService.On("ApplyEvent", mock.Anything, mock.MatchedBy(func(e domain.ExternalEvent) bool {
		p, ok := e.Payload.(domain.InboundTransferSucceeded)
		return ok && e.EventID == "evt_1" && p.Amount == 2500 && p.FinancialAccountID == "fa_1"
	})).Return(true, nil).Once()

	body := inboundBody()
	w := suite.post(body, sign(body))

	suite.Equal(http.StatusOK, w.Code)
	var ack dto.WebhookAck
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ack))
	suite.Equal("evt_1", ack.EventID)
	suite.True(ack.Applied)
}

func (suite *WebhookHandlerTestSuite) TestDuplicateIsAcknowledged() {
	suite.mockEventService.On("ApplyEvent", mock.Anything, mock.Anything).Return(false, nil).Once()

	body := inboundBody()
	w := suite.post(body, sign(body))

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"applied":false`)
}

func (suite *WebhookHandlerTestSuite) TestBadSignature() {
	w := suite.post(inboundBody(), "deadbeef")

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *WebhookHandlerTestSuite) TestMissingSignature() {
	w := suite.post(inboundBody(), "")

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *WebhookHandlerTestSuite) TestUnsupportedType() {
	body := []byte(`{"id":"evt_2","type":"account.closed","data":{}}`)
	w := suite.post(body, sign(body))

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *WebhookHandlerTestSuite) TestInvalidPayload() {
	body := []byte(`{"id":"evt_3","type":"received_credit.created","data":{"financialAccountID":"fa_1","amount":0}}`)
	w := suite.post(body, sign(body))

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *WebhookHandlerTestSuite) TestStorageErrorAsksForRedelivery() {
	suite.mockEventService.On("ApplyEvent", mock.Anything, mock.Anything).Return(false, errors.New("db down")).Once()

	body := inboundBody()
	w := suite.post(body, sign(body))

	suite.Equal(http.StatusInternalServerError, w.Code)
}

func (suite *WebhookHandlerTestSuite) TestOversizedBodyIsRejected() {
	body := bytes.Repeat([]byte(" "), middleware.MaxWebhookBody+1)
	w := suite.post(body, sign(body))

	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
}

func (suite *WebhookHandlerTestSuite) TestOversizedBodyIsRejectedWithoutSecret() {
	router := gin.New()
	handlers.RegisterWebhookRoutes(router, suite.mockEventService, "")

	req, _ := http.NewRequest(http.MethodPost, "/webhooks/treasury", bytes.NewReader(bytes.Repeat([]byte(" "), middleware.MaxWebhookBody+1)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
	suite.mockEventService.AssertNotCalled(suite.T(), "ApplyEvent", mock.Anything, mock.Anything)
}

func TestWebhookHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}
