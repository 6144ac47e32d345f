package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	"github.com/buildra/construction_finance_app/internal/core/domain"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
	"github.com/buildra/construction_finance_app/internal/handlers"
	"github.com/buildra/construction_finance_app/internal/middleware"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, actorID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, actorID, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, actorID, accountID string) error {
	args := m.Called(ctx, actorID, accountID)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock TreasuryService ---
type MockTreasuryService struct {
	mock.Mock
}

func (m *MockTreasuryService) CreateAccount(ctx context.Context, actorID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockTreasuryService) Transfer(ctx context.Context, actorID string, req dto.TransferRequest) error {
	args := m.Called(ctx, actorID, req)
	return args.Error(0)
}

func (m *MockTreasuryService) PaySalaries(ctx context.Context, actorID string, req dto.PaySalariesRequest) (decimal.Decimal, error) {
	args := m.Called(ctx, actorID, req)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTreasuryService) PayEmployee(ctx context.Context, actorID, employeeID string, req dto.PayEmployeeRequest) error {
	args := m.Called(ctx, actorID, employeeID, req)
	return args.Error(0)
}

func (m *MockTreasuryService) GrantEmployeeReward(ctx context.Context, actorID, employeeID string, req dto.GrantRewardRequest) error {
	args := m.Called(ctx, actorID, employeeID, req)
	return args.Error(0)
}

var _ portssvc.TreasurySvcFacade = (*MockTreasuryService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockJournalService) ListEntriesByAccount(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockAccountService  *MockAccountService
	mockTreasuryService *MockTreasuryService
	mockJournalService  *MockJournalService
	jwtSecret           string
}

func (suite *AccountHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "cfa-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockAccountService = new(MockAccountService)
	suite.mockTreasuryService = new(MockTreasuryService)
	suite.mockJournalService = new(MockJournalService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterAccountRoutes(v1, suite.mockAccountService, suite.mockTreasuryService, suite.mockJournalService)
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	actorID := uuid.NewString()
	created := &domain.Account{
		AccountID: uuid.NewString(),
		Name:      "Main safe",
		Kind:      domain.Treasury,
		Balance:   decimal.NewFromInt(5000),
		IsActive:  true,
	}

	suite.mockTreasuryService.On("CreateAccount",
		mock.Anything,
		actorID,
		mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
			return req.Name == "Main safe" && req.Kind == "TREASURY" &&
				req.OpeningBalance.Equal(decimal.NewFromInt(5000))
		}),
	).Return(created, nil).Once()

	body := `{"name":"Main safe","kind":"TREASURY","openingBalance":"5000"}`
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actorID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.AccountResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.True(decimal.NewFromInt(5000).Equal(resp.Balance))
	suite.mockTreasuryService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_RejectsUnknownKind() {
	actorID := uuid.NewString()
	body := `{"name":"Main safe","kind":"PIGGY_BANK"}`
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actorID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTreasuryService.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	actorID := uuid.NewString()
	accountID := uuid.NewString()

	suite.mockAccountService.On("GetAccountByID", mock.Anything, accountID).
		Return(nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts/"+accountID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actorID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestListAccountJournal_Success() {
	actorID := uuid.NewString()
	accountID := uuid.NewString()
	limit := 10

	expected := &dto.ListEntriesResponse{
		Entries: []dto.JournalEntryResponse{{
			EntryID:           uuid.NewString(),
			EntryDate:         time.Now().UTC(),
			Description:       "Transfer from bank",
			CreditAccountName: "Bank account",
			DebitAccountName:  "Main safe",
			Amount:            decimal.NewFromInt(2500),
		}},
	}

	suite.mockJournalService.On("ListEntriesByAccount",
		mock.Anything,
		accountID,
		mock.MatchedBy(func(p dto.ListEntriesParams) bool { return p.Limit == limit }),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/accounts/%s/journal?limit=%d", accountID, limit)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actorID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListEntriesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Entries, 1)
	suite.Equal(expected.Entries[0].EntryID, resp.Entries[0].EntryID)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestMissingToken_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts", nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts")
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
