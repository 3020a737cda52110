package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/apperrors"
	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	portsrepo "github.com/clearbooks/clearbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/clearbooks/clearbooks_backend/internal/core/ports/services"
	"github.com/clearbooks/clearbooks_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerReader ---
type MockLedgerReader struct {
	mock.Mock
}

var _ portsrepo.LedgerReader = (*MockLedgerReader)(nil)

func (m *MockLedgerReader) ListLedgerLines(ctx context.Context, companyID, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerLine, *string, error) {
	args := m.Called(ctx, companyID, accountID, from, to, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerLine), returnedNextToken, args.Error(2)
}

func (m *MockLedgerReader) FindLedgerLinesForAccount(ctx context.Context, companyID, accountID string, cutoff *time.Time) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, companyID, accountID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

// --- Mock AccountReader ---
type MockAccountReader struct {
	mock.Mock
}

var _ portsrepo.AccountReader = (*MockAccountReader)(nil)

func (m *MockAccountReader) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerReader
	mockAccountRepo *MockAccountReader
	service         portssvc.LedgerSvcFacade
	companyID       string
	cashAccount     domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerReader)
	suite.mockAccountRepo = new(MockAccountReader)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockAccountRepo)

	suite.companyID = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		AccountType:   domain.Asset,
		NormalBalance: domain.DebitNormal,
		CurrencyCode:  "USD",
		IsActive:      true,
	}
}

// ledgerLine builds one debit-or-credit ledger row with its running balance.
func (suite *LedgerServiceTestSuite) ledgerLine(date time.Time, seq int64, debit, credit, running string) domain.LedgerLine {
	d, err := domain.NewMoneyFromString(debit)
	suite.Require().NoError(err)
	c, err := domain.NewMoneyFromString(credit)
	suite.Require().NoError(err)
	r, err := domain.NewMoneyFromString(running)
	suite.Require().NoError(err)
	return domain.LedgerLine{
		LineID:          uuid.NewString(),
		CompanyID:       suite.companyID,
		AccountID:       suite.cashAccount.AccountID,
		TransactionDate: date,
		Debit:           d,
		Credit:          c,
		RunningBalance:  r,
		Sequence:        seq,
	}
}

func (suite *LedgerServiceTestSuite) TestBalanceAsOf_FoldsDeltasInOrder() {
	ctx := context.Background()
	cutoff := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	day1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	lines := []domain.LedgerLine{
		suite.ledgerLine(day1, 1, "500.00", "0", "500.00"),
		suite.ledgerLine(day2, 2, "0", "120.00", "380.00"),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerLinesForAccount", ctx, suite.companyID, suite.cashAccount.AccountID, &cutoff).Return(lines, nil).Once()

	balance, err := suite.service.BalanceAsOf(ctx, suite.companyID, suite.cashAccount.AccountID, cutoff)

	suite.Require().NoError(err)
	expected, _ := domain.NewMoneyFromString("380.00")
	suite.True(balance.Equal(expected))
}

func (suite *LedgerServiceTestSuite) TestBalanceAsOf_CreditNormalAccount() {
	ctx := context.Background()
	revenue := domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		AccountType:   domain.Revenue,
		NormalBalance: domain.CreditNormal,
		IsActive:      true,
	}
	cutoff := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	credit, _ := domain.NewMoneyFromString("250.00")
	lines := []domain.LedgerLine{{
		LineID:          uuid.NewString(),
		CompanyID:       suite.companyID,
		AccountID:       revenue.AccountID,
		TransactionDate: day,
		Debit:           domain.ZeroMoney(),
		Credit:          credit,
		RunningBalance:  credit,
		Sequence:        1,
	}}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, revenue.AccountID).Return(&revenue, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerLinesForAccount", ctx, suite.companyID, revenue.AccountID, &cutoff).Return(lines, nil).Once()

	balance, err := suite.service.BalanceAsOf(ctx, suite.companyID, revenue.AccountID, cutoff)

	// A credit to a credit-normal account increases its balance.
	suite.Require().NoError(err)
	suite.True(balance.Equal(credit))
}

func (suite *LedgerServiceTestSuite) TestBalanceAsOf_EmptyHistoryIsZero() {
	ctx := context.Background()
	cutoff := time.Now().UTC()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerLinesForAccount", ctx, suite.companyID, suite.cashAccount.AccountID, &cutoff).Return([]domain.LedgerLine{}, nil).Once()

	balance, err := suite.service.BalanceAsOf(ctx, suite.companyID, suite.cashAccount.AccountID, cutoff)

	suite.Require().NoError(err)
	suite.True(balance.IsZero())
}

func (suite *LedgerServiceTestSuite) TestBalanceAsOf_AccountNotFound() {
	ctx := context.Background()
	unknownID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, unknownID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.BalanceAsOf(ctx, suite.companyID, unknownID, time.Now().UTC())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "FindLedgerLinesForAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecompute_HealthyLedger() {
	ctx := context.Background()
	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	account := suite.cashAccount
	cached, _ := domain.NewMoneyFromString("75.00")
	account.Balance = cached

	lines := []domain.LedgerLine{
		suite.ledgerLine(day, 1, "100.00", "0", "100.00"),
		suite.ledgerLine(day.AddDate(0, 0, 3), 2, "0", "25.00", "75.00"),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(&account, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerLinesForAccount", ctx, suite.companyID, account.AccountID, (*time.Time)(nil)).Return(lines, nil).Once()

	balance, err := suite.service.Recompute(ctx, suite.companyID, account.AccountID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(cached))
}

func (suite *LedgerServiceTestSuite) TestRecompute_BrokenRunningBalanceChain() {
	ctx := context.Background()
	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	account := suite.cashAccount
	lines := []domain.LedgerLine{
		suite.ledgerLine(day, 1, "100.00", "0", "100.00"),
		// Stored running balance disagrees with the derived chain.
		suite.ledgerLine(day.AddDate(0, 0, 3), 2, "0", "25.00", "80.00"),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(&account, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerLinesForAccount", ctx, suite.companyID, account.AccountID, (*time.Time)(nil)).Return(lines, nil).Once()

	_, err := suite.service.Recompute(ctx, suite.companyID, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func (suite *LedgerServiceTestSuite) TestRecompute_CachedBalanceDrift() {
	ctx := context.Background()
	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	account := suite.cashAccount
	stale, _ := domain.NewMoneyFromString("999.99")
	account.Balance = stale

	lines := []domain.LedgerLine{
		suite.ledgerLine(day, 1, "100.00", "0", "100.00"),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.companyID, account.AccountID).Return(&account, nil).Once()
	suite.mockLedgerRepo.On("FindLedgerLinesForAccount", ctx, suite.companyID, account.AccountID, (*time.Time)(nil)).Return(lines, nil).Once()

	balance, err := suite.service.Recompute(ctx, suite.companyID, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
	// The derived balance is still returned for reconciliation.
	expected, _ := domain.NewMoneyFromString("100.00")
	suite.True(balance.Equal(expected))
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
