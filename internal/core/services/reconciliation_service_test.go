package services_test

import (
	"context"
	"testing"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	portssvc "github.com/casafin/boarding_ledger_app/internal/core/ports/services"
	"github.com/casafin/boarding_ledger_app/internal/core/services"
	"github.com/casafin/boarding_ledger_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockSubLedgerRepo *MockSubLedgerRepository
	mockBalanceSvc    *MockBalanceService
	service           portssvc.ReconciliationSvcFacade
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockSubLedgerRepo = new(MockSubLedgerRepository)
	suite.mockBalanceSvc = new(MockBalanceService)
	suite.service = services.NewReconciliationService(suite.mockSubLedgerRepo, suite.mockBalanceSvc, testARAccountCode)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_SplitsDebtorsAndPrepayments() {
	ctx := context.Background()
	balances := []domain.StudentSubLedgerBalance{
		{StudentID: "stu-2", EnrollmentID: "enr-2", Status: domain.EnrollmentActive, BalanceMinor: 1500},
		{StudentID: "stu-1", EnrollmentID: "enr-1", Status: domain.EnrollmentActive, BalanceMinor: -4000},
	}

	suite.mockSubLedgerRepo.On("ListSubLedgerBalances", ctx, true).Return(balances, nil).Once()
	// Net sub-ledger is -2500; the control account mirrors it at +2500.
	suite.mockBalanceSvc.On("GetBalance", ctx, testARAccountCode, mock.Anything).Return(int64(2500), nil).Once()

	report, err := suite.service.ReconcileStudentBalances(ctx)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Equal(testARAccountCode, report.ControlAccountCode)
	suite.Equal(int64(2500), report.ControlBalanceMinor)
	suite.Equal(int64(-2500), report.SubLedgerNetMinor)
	suite.Equal(int64(4000), report.TotalDebtorsMinor)
	suite.Equal(int64(1500), report.TotalPrepaymentsMinor)

	// Lines come back ordered by student then enrollment.
	suite.Require().Len(report.PerStudent, 2)
	suite.Equal("stu-1", report.PerStudent[0].StudentID)
	suite.True(report.PerStudent[0].Debtor)
	suite.Equal("stu-2", report.PerStudent[1].StudentID)
	suite.False(report.PerStudent[1].Debtor)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_MismatchReturnsReportAndError() {
	ctx := context.Background()
	balances := []domain.StudentSubLedgerBalance{
		{StudentID: "stu-1", EnrollmentID: "enr-1", Status: domain.EnrollmentActive, BalanceMinor: -4000},
	}

	suite.mockSubLedgerRepo.On("ListSubLedgerBalances", ctx, true).Return(balances, nil).Once()
	suite.mockBalanceSvc.On("GetBalance", ctx, testARAccountCode, mock.Anything).Return(int64(3900), nil).Once()

	report, err := suite.service.ReconcileStudentBalances(ctx)

	suite.Require().Error(err)
	var mismatch *apperrors.ReconciliationMismatchError
	suite.Require().ErrorAs(err, &mismatch)
	suite.Equal(int64(3900), mismatch.ControlBalanceMinor)
	suite.Equal(int64(-4000), mismatch.SubLedgerNetMinor)

	// The report still comes back so the discrepancy can be investigated.
	suite.Require().NotNil(report)
	suite.Equal(int64(3900), report.ControlBalanceMinor)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_EmptySubLedgerBalancesAgainstZeroControl() {
	ctx := context.Background()

	suite.mockSubLedgerRepo.On("ListSubLedgerBalances", ctx, true).Return([]domain.StudentSubLedgerBalance{}, nil).Once()
	suite.mockBalanceSvc.On("GetBalance", ctx, testARAccountCode, mock.Anything).Return(int64(0), nil).Once()

	report, err := suite.service.ReconcileStudentBalances(ctx)

	suite.Require().NoError(err)
	suite.Empty(report.PerStudent)
	suite.Zero(report.TotalDebtorsMinor)
	suite.Zero(report.TotalPrepaymentsMinor)
}

func (suite *ReconciliationServiceTestSuite) TestUpsertSubLedger_RequiresIdentifiers() {
	ctx := context.Background()

	_, err := suite.service.UpsertSubLedger(ctx, "", "enr-1", dto.UpsertSubLedgerRequest{Status: domain.EnrollmentActive}, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSubLedgerRepo.AssertNotCalled(suite.T(), "UpsertSubLedger", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestUpsertSubLedger_ReturnsStoredRow() {
	ctx := context.Background()
	stored := &domain.StudentSubLedgerBalance{
		StudentID:    "stu-1",
		EnrollmentID: "enr-1",
		Status:       domain.EnrollmentActive,
		BalanceMinor: -1200,
	}

	suite.mockSubLedgerRepo.On("UpsertSubLedger", ctx, mock.AnythingOfType("domain.StudentSubLedgerBalance")).Return(nil).Once()
	suite.mockSubLedgerRepo.On("FindSubLedger", ctx, "stu-1", "enr-1").Return(stored, nil).Once()

	row, err := suite.service.UpsertSubLedger(ctx, "stu-1", "enr-1", dto.UpsertSubLedgerRequest{Status: domain.EnrollmentActive}, "user-1")

	suite.Require().NoError(err)
	// The stored balance wins over the request's opening balance for an
	// existing row.
	suite.Equal(int64(-1200), row.BalanceMinor)
	suite.True(row.IsDebtor())
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
