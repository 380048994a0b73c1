package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
	"github.com/SscSPs/family_bank/internal/core/services"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.LedgerAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) ListActiveAccounts(ctx context.Context) ([]domain.LedgerAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) FamilyHasMembers(ctx context.Context, familyID string) (bool, error) {
	args := m.Called(ctx, familyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.LedgerAccount) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, account)
	if fn, ok := args.Get(0).(func(context.Context, domain.LedgerAccount) *domain.LedgerAccount); ok {
		return fn(ctx, account), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) MarkReconciled(ctx context.Context, accountID string, at time.Time) error {
	args := m.Called(ctx, accountID, at)
	return args.Error(0)
}

func (m *MockAccountRepository) CorrectCachedBalance(ctx context.Context, accountID string, expected, corrected int64, at time.Time) (bool, error) {
	args := m.Called(ctx, accountID, expected, corrected, at)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	ctx      context.Context
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.ctx = context.Background()
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

// echoSave makes SaveAccount return whatever it was given.
func (suite *AccountServiceTestSuite) echoSave() {
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.LedgerAccount")).
		Return(func(_ context.Context, a domain.LedgerAccount) *domain.LedgerAccount { return &a }, nil)
}

// member makes ListAccountsByUser report one bucket in familyID, or none for "".
func (suite *AccountServiceTestSuite) member(userID, familyID string) {
	accounts := []domain.LedgerAccount{}
	if familyID != "" {
		accounts = append(accounts, domain.LedgerAccount{
			AccountID:  userID + "-spend",
			Category:   domain.CategoryUserBucket,
			UserID:     userID,
			FamilyID:   familyID,
			BucketType: domain.BucketSpend,
		})
	}
	suite.mockRepo.On("ListAccountsByUser", suite.ctx, userID).Return(accounts, nil)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	service := services.NewAccountService(suite.mockRepo)
	suite.mockRepo.On("FindAccountByID", suite.ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, err := service.GetAccountByID(suite.ctx, "nope")

	assert.ErrorIs(suite.T(), err, apperrors.ErrAccountNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByCode_RepoError() {
	service := services.NewAccountService(suite.mockRepo)
	repoErr := errors.New("connection reset")
	suite.mockRepo.On("FindAccountByCode", suite.ctx, domain.SystemSuspense).Return(nil, repoErr).Once()

	_, err := service.GetAccountByCode(suite.ctx, domain.SystemSuspense)

	assert.ErrorIs(suite.T(), err, repoErr)
	assert.NotErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestSeedSystemAccounts() {
	service := services.NewAccountService(suite.mockRepo)
	suite.echoSave()

	err := service.SeedSystemAccounts(suite.ctx)

	assert.NoError(suite.T(), err)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "SaveAccount", len(domain.SystemAccounts()))
	for _, def := range domain.SystemAccounts() {
		suite.mockRepo.AssertCalled(suite.T(), "SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.LedgerAccount) bool {
			return a.Code == def.Code && a.AccountType == def.AccountType && a.IsActive && a.AccountID != ""
		}))
	}
}

func (suite *AccountServiceTestSuite) TestSeedSystemAccounts_RepoError() {
	service := services.NewAccountService(suite.mockRepo)
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.Anything).Return(nil, errors.New("disk full")).Once()

	err := service.SeedSystemAccounts(suite.ctx)

	assert.Error(suite.T(), err)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "SaveAccount", 1)
}

func (suite *AccountServiceTestSuite) TestEnsureUserBuckets() {
	service := services.NewAccountService(suite.mockRepo)
	suite.member("parent-1", "fam-1")
	suite.member("kid-1", "")
	suite.echoSave()

	accounts, err := service.EnsureUserBuckets(suite.ctx, "kid-1", "fam-1",
		[]domain.BucketType{domain.BucketInvest, domain.BucketSpend, domain.BucketInvest}, "parent-1")

	suite.Require().NoError(err)
	suite.Require().Len(accounts, 2)
	assert.Equal(suite.T(), domain.BucketSpend, accounts[0].BucketType)
	assert.Equal(suite.T(), domain.BucketInvest, accounts[1].BucketType)
	for _, a := range accounts {
		assert.Equal(suite.T(), domain.Asset, a.AccountType)
		assert.Equal(suite.T(), domain.CategoryUserBucket, a.Category)
		assert.Equal(suite.T(), domain.BucketAccountCode("kid-1", a.BucketType), a.Code)
		assert.Equal(suite.T(), "parent-1", a.CreatedBy)
	}
}

func (suite *AccountServiceTestSuite) TestEnsureUserBuckets_DefaultsToSpend() {
	service := services.NewAccountService(suite.mockRepo)
	suite.member("parent-1", "fam-1")
	suite.member("kid-1", "")
	suite.echoSave()

	accounts, err := service.EnsureUserBuckets(suite.ctx, "kid-1", "fam-1", nil, "parent-1")

	suite.Require().NoError(err)
	suite.Require().Len(accounts, 1)
	assert.Equal(suite.T(), domain.BucketSpend, accounts[0].BucketType)
}

func (suite *AccountServiceTestSuite) TestEnsureUserBuckets_ReturnsStoredAccount() {
	service := services.NewAccountService(suite.mockRepo)
	existing := &domain.LedgerAccount{
		AccountID:     "existing-id",
		Code:          domain.BucketAccountCode("kid-1", domain.BucketSpend),
		AccountType:   domain.Asset,
		Category:      domain.CategoryUserBucket,
		BucketType:    domain.BucketSpend,
		CachedBalance: 4200,
	}
	suite.member("parent-1", "fam-1")
	suite.member("kid-1", "fam-1")
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.Anything).Return(existing, nil).Once()

	accounts, err := service.EnsureUserBuckets(suite.ctx, "kid-1", "fam-1", nil, "parent-1")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "existing-id", accounts[0].AccountID)
	assert.Equal(suite.T(), int64(4200), accounts[0].CachedBalance)
}

func (suite *AccountServiceTestSuite) TestEnsureUserBuckets_Validation() {
	service := services.NewAccountService(suite.mockRepo)

	testCases := []struct {
		name     string
		userID   string
		familyID string
		buckets  []domain.BucketType
	}{
		{name: "missing user", familyID: "fam-1"},
		{name: "missing family", userID: "kid-1"},
		{name: "unknown bucket", userID: "kid-1", familyID: "fam-1", buckets: []domain.BucketType{"college"}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := service.EnsureUserBuckets(suite.ctx, tc.userID, tc.familyID, tc.buckets, "parent-1")
			assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestListActiveBuckets() {
	service := services.NewAccountService(suite.mockRepo)
	suite.mockRepo.On("ListAccountsByUser", suite.ctx, "kid-1").Return([]domain.LedgerAccount{
		{AccountID: "give", Category: domain.CategoryUserBucket, BucketType: domain.BucketGive, IsActive: true},
		{AccountID: "save", Category: domain.CategoryUserBucket, BucketType: domain.BucketSave, IsActive: false},
		{AccountID: "spend", Category: domain.CategoryUserBucket, BucketType: domain.BucketSpend, IsActive: true},
		{AccountID: "other", Category: domain.CategorySystemInternal, IsActive: true},
	}, nil).Once()

	buckets, err := service.ListActiveBuckets(suite.ctx, "kid-1")

	suite.Require().NoError(err)
	suite.Require().Len(buckets, 2)
	assert.Equal(suite.T(), "spend", buckets[0].AccountID)
	assert.Equal(suite.T(), "give", buckets[1].AccountID)
}

func (suite *AccountServiceTestSuite) TestEnsureUserBuckets_FoundsNewFamily() {
	service := services.NewAccountService(suite.mockRepo)
	suite.member("parent-9", "")
	suite.mockRepo.On("FamilyHasMembers", suite.ctx, "fam-new").Return(false, nil).Once()
	suite.echoSave()

	accounts, err := service.EnsureUserBuckets(suite.ctx, "parent-9", "fam-new", nil, "parent-9")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "fam-new", accounts[0].FamilyID)
}

func (suite *AccountServiceTestSuite) TestEnsureUserBuckets_RejectsOutsiders() {
	testCases := []struct {
		name     string
		actor    string
		user     string
		families map[string]string
		taken    bool
	}{
		{name: "joining an existing family alone", actor: "mallory", user: "mallory", families: map[string]string{"mallory": ""}, taken: true},
		{name: "stranger enrolls a kid", actor: "mallory", user: "kid-x", families: map[string]string{"mallory": "fam-2", "kid-x": ""}},
		{name: "actor without a family enrolls a kid", actor: "mallory", user: "kid-x", families: map[string]string{"mallory": ""}},
		{name: "member moves a kid from another family", actor: "parent-1", user: "kid-x", families: map[string]string{"parent-1": "fam-1", "kid-x": "fam-2"}},
		{name: "member switches their own family", actor: "parent-1", user: "parent-1", families: map[string]string{"parent-1": "fam-2"}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			service := services.NewAccountService(suite.mockRepo)
			for user, family := range tc.families {
				suite.member(user, family)
			}
			suite.mockRepo.On("FamilyHasMembers", suite.ctx, "fam-1").Return(tc.taken, nil).Maybe()

			_, err := service.EnsureUserBuckets(suite.ctx, tc.user, "fam-1", nil, tc.actor)

			assert.ErrorIs(suite.T(), err, apperrors.ErrForbidden)
			suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
		})
	}
}

func (suite *AccountServiceTestSuite) TestAuthorizeFamilyMember_SystemActorKeepsFamily() {
	service := services.NewAccountService(suite.mockRepo)
	suite.member("kid-1", "fam-1")

	assert.NoError(suite.T(), service.AuthorizeFamilyMember(suite.ctx, domain.SystemActor, "fam-1", "kid-1"))
	assert.ErrorIs(suite.T(), service.AuthorizeFamilyMember(suite.ctx, domain.SystemActor, "fam-2", "kid-1"), apperrors.ErrForbidden)
	assert.ErrorIs(suite.T(), service.AuthorizeFamilyMember(suite.ctx, domain.SystemActor, "", "kid-1"), apperrors.ErrValidation)
}
