package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	portssvc "github.com/casafin/boarding_ledger_app/internal/core/ports/services"
	"github.com/casafin/boarding_ledger_app/internal/core/services"
	"github.com/stretchr/testify/suite"
)

type BalanceServiceTestSuite struct {
	suite.Suite
	mockAccountRepo   *MockAccountRepository
	mockReportingRepo *MockReportingRepository
	service           portssvc.BalanceSvcFacade
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.service = services.NewBalanceService(suite.mockAccountRepo, suite.mockReportingRepo)
}

func (suite *BalanceServiceTestSuite) TestGetBalance_DebitNormalAccount() {
	ctx := context.Background()
	account := &domain.Account{AccountCode: "1000", AccountType: domain.Asset, IsActive: true}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1000").Return(account, nil).Once()
	suite.mockReportingRepo.On("GetAccountBalanceSums", ctx, "1000", (*time.Time)(nil)).Return(int64(15000), int64(3000), nil).Once()

	balance, err := suite.service.GetBalance(ctx, "1000", nil)

	suite.Require().NoError(err)
	suite.Equal(int64(12000), balance)
}

func (suite *BalanceServiceTestSuite) TestGetBalance_CreditNormalAccount() {
	ctx := context.Background()
	account := &domain.Account{AccountCode: "4000", AccountType: domain.Revenue, IsActive: true}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "4000").Return(account, nil).Once()
	suite.mockReportingRepo.On("GetAccountBalanceSums", ctx, "4000", (*time.Time)(nil)).Return(int64(500), int64(20000), nil).Once()

	balance, err := suite.service.GetBalance(ctx, "4000", nil)

	suite.Require().NoError(err)
	suite.Equal(int64(19500), balance)
}

func (suite *BalanceServiceTestSuite) TestGetBalance_AsOfPassedThrough() {
	ctx := context.Background()
	asOf := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	account := &domain.Account{AccountCode: "1000", AccountType: domain.Asset, IsActive: true}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1000").Return(account, nil).Once()
	suite.mockReportingRepo.On("GetAccountBalanceSums", ctx, "1000", &asOf).Return(int64(1000), int64(0), nil).Once()

	balance, err := suite.service.GetBalance(ctx, "1000", &asOf)

	suite.Require().NoError(err)
	suite.Equal(int64(1000), balance)
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestGetBalance_UnknownAccount() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "9999").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetBalance(ctx, "9999", nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BalanceServiceTestSuite) TestVerifyBalances_AllConsistent() {
	ctx := context.Background()
	accounts := []domain.Account{
		{AccountCode: "1000", AccountType: domain.Asset, BalanceMinor: 12000},
		{AccountCode: "4000", AccountType: domain.Revenue, BalanceMinor: 20000},
		{AccountCode: "3000", AccountType: domain.Equity, BalanceMinor: 0}, // never touched
	}
	sums := []domain.AccountActivity{
		{AccountCode: "1000", AccountType: domain.Asset, DebitMinor: 15000, CreditMinor: 3000},
		{AccountCode: "4000", AccountType: domain.Revenue, DebitMinor: 0, CreditMinor: 20000},
	}

	suite.mockAccountRepo.On("ListAccounts", ctx, (*domain.AccountType)(nil), true).Return(accounts, nil).Once()
	suite.mockReportingRepo.On("GetAllAccountBalanceSums", ctx).Return(sums, nil).Once()

	drift, err := suite.service.VerifyBalances(ctx)

	suite.Require().NoError(err)
	suite.Empty(drift)
}

func (suite *BalanceServiceTestSuite) TestVerifyBalances_ReportsDrift() {
	ctx := context.Background()
	accounts := []domain.Account{
		{AccountCode: "1000", AccountType: domain.Asset, BalanceMinor: 12500},
	}
	sums := []domain.AccountActivity{
		{AccountCode: "1000", AccountType: domain.Asset, DebitMinor: 15000, CreditMinor: 3000},
	}

	suite.mockAccountRepo.On("ListAccounts", ctx, (*domain.AccountType)(nil), true).Return(accounts, nil).Once()
	suite.mockReportingRepo.On("GetAllAccountBalanceSums", ctx).Return(sums, nil).Once()

	drift, err := suite.service.VerifyBalances(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(drift, 1)
	suite.Equal("1000", drift[0].AccountCode)
	suite.Equal(int64(12500), drift[0].CachedMinor)
	suite.Equal(int64(12000), drift[0].RecalculatedMinor)
	suite.Equal(int64(500), drift[0].DriftMinor)
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
