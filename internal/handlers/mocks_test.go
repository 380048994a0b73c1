package handlers_test

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/family_bank/internal/core/domain"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/dto"
	"github.com/SscSPs/family_bank/internal/middleware"
	"github.com/SscSPs/family_bank/internal/utils"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// generateTestToken creates a signed JWT whose subject is userID.
func generateTestToken(userID string) string {
	signed, err := utils.GenerateJWT(userID, testJWTSecret, time.Hour, "family-bank-test")
	if err != nil {
		panic(err)
	}
	return signed
}

// newTestRouter returns an engine whose /api/v1 group requires a valid token.
func newTestRouter() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret, ""))
	return r, v1
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountService) ListUserAccounts(ctx context.Context, userID string) ([]domain.LedgerAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountService) ListActiveBuckets(ctx context.Context, userID string) ([]domain.LedgerAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountService) SeedSystemAccounts(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAccountService) EnsureUserBuckets(ctx context.Context, userID string, familyID string, buckets []domain.BucketType, actorID string) ([]domain.LedgerAccount, error) {
	args := m.Called(ctx, userID, familyID, buckets, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountService) FamilyOf(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockAccountService) AuthorizeFamilyMember(ctx context.Context, actorID string, familyID string, userID string) error {
	return m.Called(ctx, actorID, familyID, userID).Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntriesByGroup(ctx context.Context, groupID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListAccountEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockJournalService) CreateEntry(ctx context.Context, debitAccountID string, creditAccountID string, amount int64, metadata domain.EntryMetadata) (*domain.JournalEntry, error) {
	args := m.Called(ctx, debitAccountID, creditAccountID, amount, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) CreateEntryGroup(ctx context.Context, postings []domain.Posting) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, postings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ReverseEntry(ctx context.Context, entryID string, reason string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ComputeBalance(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock BankingService ---
type MockBankingService struct {
	mock.Mock
}

func (m *MockBankingService) Transfer(ctx context.Context, req dto.TransferRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockBankingService) SendToFamilyMember(ctx context.Context, req dto.SendToFamilyRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockBankingService) RecordExternalDeposit(ctx context.Context, req dto.DepositRequest, actorID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockBankingService) GetAccountBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockBankingService) PayChore(ctx context.Context, choreID string, req dto.ChorePayoutRequest, actorID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, choreID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockBankingService) DisburseLoan(ctx context.Context, loanID string, req dto.LoanRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, loanID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockBankingService) RepayLoan(ctx context.Context, loanID string, req dto.LoanRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, loanID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockBankingService) WithdrawToBank(ctx context.Context, req dto.WithdrawalRequest, actorID string) (*domain.ExternalTransfer, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalTransfer), args.Error(1)
}

var _ portssvc.BankingSvcFacade = (*MockBankingService)(nil)

// --- Mock EventAdapterService ---
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) ApplyEvent(ctx context.Context, event domain.ExternalEvent) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}

var _ portssvc.EventAdapterSvc = (*MockEventService)(nil)
