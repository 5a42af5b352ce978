package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	portsrepo "github.com/casafin/boarding_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/casafin/boarding_ledger_app/internal/core/ports/services"
	"github.com/casafin/boarding_ledger_app/internal/middleware"
	"github.com/casafin/boarding_ledger_app/internal/utils/accounting"
)

// reportingService generates the trial balance, income statement and
// balance sheet. Every report re-derives its figures from raw posted
// debit/credit sums and validates
//
//	assets == liabilities + equity + net income
//
// at zero tolerance before returning. A report that fails the check is
// refused with a LedgerImbalanceError; corrupted figures are never shown.
//
// All of a report's repository reads run inside one InSnapshot call, so the
// figures returned are exactly the ones the identity check validated.
type reportingService struct {
	BaseService
	reportingRepo     portsrepo.ReportingRepository
	reportingCurrency string
}

// NewReportingService creates a new report generator.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, reportingCurrency string) portssvc.ReportingService {
	return &reportingService{
		reportingRepo:     reportingRepo,
		reportingCurrency: reportingCurrency,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// typeTotals holds signed net balances per account type derived from one
// activity snapshot.
type typeTotals struct {
	assets      int64
	liabilities int64
	equity      int64
	revenue     int64
	expenses    int64
}

func (t typeTotals) netIncome() int64 {
	return t.revenue - t.expenses
}

// identityError returns a LedgerImbalanceError when the fundamental
// accounting identity does not hold, nil otherwise.
func (t typeTotals) identityError() *apperrors.LedgerImbalanceError {
	rhs := t.liabilities + t.equity + t.netIncome()
	if t.assets != rhs {
		return &apperrors.LedgerImbalanceError{
			TotalAssetsMinor:               t.assets,
			TotalLiabilitiesAndEquityMinor: rhs,
		}
	}
	return nil
}

// totalsFromActivity folds an activity snapshot into per-type net balances.
func totalsFromActivity(activities []domain.AccountActivity) (typeTotals, error) {
	var t typeTotals
	for _, a := range activities {
		net, err := accounting.BalanceFromSums(a.AccountType, a.DebitMinor, a.CreditMinor)
		if err != nil {
			return typeTotals{}, fmt.Errorf("account %s: %w", a.AccountCode, err)
		}
		switch a.AccountType {
		case domain.Asset:
			t.assets += net
		case domain.Liability:
			t.liabilities += net
		case domain.Equity:
			t.equity += net
		case domain.Revenue:
			t.revenue += net
		case domain.Expense:
			t.expenses += net
		}
	}
	return t, nil
}

// checkNoShadowAccounts refuses to report while any active sub-ledger shadow
// account exists. Reports show the control account only; an active shadow
// would double count receivables. The check reads through the same snapshot
// view as the report's aggregates.
func checkNoShadowAccounts(ctx context.Context, repo portsrepo.ReportingRepository) error {
	codes, err := repo.ListActiveShadowAccountCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to check shadow accounts: %w", err)
	}
	if len(codes) > 0 {
		return fmt.Errorf("%w: active sub-ledger shadow accounts present: %v", apperrors.ErrConflict, codes)
	}
	return nil
}

// TrialBalance generates a trial balance as of a specific date.
func (s *reportingService) TrialBalance(ctx context.Context, boardingHouseID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	var report *domain.TrialBalanceReport
	err := s.reportingRepo.InSnapshot(ctx, func(repo portsrepo.ReportingRepository) error {
		var err error
		report, err = s.trialBalanceFromSnapshot(ctx, repo, boardingHouseID, asOf)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportingService) trialBalanceFromSnapshot(ctx context.Context, repo portsrepo.ReportingRepository, boardingHouseID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := checkNoShadowAccounts(ctx, repo); err != nil {
		return nil, err
	}

	activities, err := repo.GetAccountActivity(ctx, boardingHouseID, asOf)
	if err != nil {
		logger.Error("Failed to aggregate account activity for trial balance", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to aggregate account activity: %w", err)
	}

	totals, err := totalsFromActivity(activities)
	if err != nil {
		return nil, err
	}
	if imbalance := totals.identityError(); imbalance != nil {
		logger.Error("Trial balance refused: ledger imbalance", slog.Int64("discrepancy_minor", imbalance.DiscrepancyMinor()))
		return nil, imbalance
	}

	rows := make([]domain.TrialBalanceRow, 0, len(activities))
	var totalDebit, totalCredit int64
	for _, a := range activities {
		net, err := accounting.BalanceFromSums(a.AccountType, a.DebitMinor, a.CreditMinor)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", a.AccountCode, err)
		}
		debit, credit, err := accounting.TrialBalanceColumns(a.AccountType, net)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", a.AccountCode, err)
		}
		rows = append(rows, domain.TrialBalanceRow{
			AccountCode: a.AccountCode,
			AccountName: a.AccountName,
			AccountType: a.AccountType,
			DebitMinor:  debit,
			CreditMinor: credit,
		})
		totalDebit += debit
		totalCredit += credit
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].AccountCode < rows[j].AccountCode })

	if totalDebit != totalCredit {
		imbalance := &apperrors.LedgerImbalanceError{
			TotalAssetsMinor:               totalDebit,
			TotalLiabilitiesAndEquityMinor: totalCredit,
		}
		logger.Error("Trial balance columns do not balance", slog.Int64("total_debit_minor", totalDebit), slog.Int64("total_credit_minor", totalCredit))
		return nil, imbalance
	}

	logger.Info("Trial balance generated", slog.Int("rows", len(rows)), slog.Int64("total_debit_minor", totalDebit))
	return &domain.TrialBalanceReport{
		AsOf:             asOf,
		CurrencyCode:     s.reportingCurrency,
		Rows:             rows,
		TotalDebitMinor:  totalDebit,
		TotalCreditMinor: totalCredit,
	}, nil
}

// IncomeStatement nets revenue and expenses over a period.
func (s *reportingService) IncomeStatement(ctx context.Context, boardingHouseID string, from, to time.Time) (*domain.IncomeStatementReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end precedes period start", apperrors.ErrValidation)
	}

	var report *domain.IncomeStatementReport
	err := s.reportingRepo.InSnapshot(ctx, func(repo portsrepo.ReportingRepository) error {
		var err error
		report, err = s.incomeStatementFromSnapshot(ctx, repo, boardingHouseID, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportingService) incomeStatementFromSnapshot(ctx context.Context, repo portsrepo.ReportingRepository, boardingHouseID string, from, to time.Time) (*domain.IncomeStatementReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// The identity is checked against the full ledger as of the period end;
	// a period slice alone cannot prove the books are sound.
	fullActivity, err := repo.GetAccountActivity(ctx, boardingHouseID, to)
	if err != nil {
		logger.Error("Failed to aggregate activity for identity check", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to aggregate account activity: %w", err)
	}
	totals, err := totalsFromActivity(fullActivity)
	if err != nil {
		return nil, err
	}
	if imbalance := totals.identityError(); imbalance != nil {
		logger.Error("Income statement refused: ledger imbalance", slog.Int64("discrepancy_minor", imbalance.DiscrepancyMinor()))
		return nil, imbalance
	}

	activities, err := repo.GetPeriodActivity(ctx, boardingHouseID, from, to, []domain.AccountType{domain.Revenue, domain.Expense})
	if err != nil {
		logger.Error("Failed to aggregate period activity", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to aggregate period activity: %w", err)
	}

	var revenue, expenses []domain.AccountAmount
	var totalRevenue, totalExpenses int64
	for _, a := range activities {
		net, err := accounting.BalanceFromSums(a.AccountType, a.DebitMinor, a.CreditMinor)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", a.AccountCode, err)
		}
		line := domain.AccountAmount{AccountCode: a.AccountCode, Name: a.AccountName, NetMinor: net}
		switch a.AccountType {
		case domain.Revenue:
			revenue = append(revenue, line)
			totalRevenue += net
		case domain.Expense:
			expenses = append(expenses, line)
			totalExpenses += net
		}
	}

	sortAccountAmounts(revenue)
	sortAccountAmounts(expenses)

	logger.Info("Income statement generated", slog.Int64("total_revenue_minor", totalRevenue), slog.Int64("total_expenses_minor", totalExpenses))
	return &domain.IncomeStatementReport{
		FromDate:           from,
		ToDate:             to,
		CurrencyCode:       s.reportingCurrency,
		Revenue:            revenue,
		Expenses:           expenses,
		TotalRevenueMinor:  totalRevenue,
		TotalExpensesMinor: totalExpenses,
		NetIncomeMinor:     totalRevenue - totalExpenses,
	}, nil
}

// BalanceSheet generates a balance sheet as of a specific date. Net income
// since inception is carried as a single line alongside equity so the
// statement balances without a closing process.
func (s *reportingService) BalanceSheet(ctx context.Context, boardingHouseID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	var report *domain.BalanceSheetReport
	err := s.reportingRepo.InSnapshot(ctx, func(repo portsrepo.ReportingRepository) error {
		var err error
		report, err = s.balanceSheetFromSnapshot(ctx, repo, boardingHouseID, asOf)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportingService) balanceSheetFromSnapshot(ctx context.Context, repo portsrepo.ReportingRepository, boardingHouseID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := checkNoShadowAccounts(ctx, repo); err != nil {
		return nil, err
	}

	activities, err := repo.GetAccountActivity(ctx, boardingHouseID, asOf)
	if err != nil {
		logger.Error("Failed to aggregate account activity for balance sheet", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to aggregate account activity: %w", err)
	}

	totals, err := totalsFromActivity(activities)
	if err != nil {
		return nil, err
	}
	if imbalance := totals.identityError(); imbalance != nil {
		logger.Error("Balance sheet refused: ledger imbalance", slog.Int64("discrepancy_minor", imbalance.DiscrepancyMinor()))
		return nil, imbalance
	}

	var assets, liabilities, equity []domain.AccountAmount
	for _, a := range activities {
		net, err := accounting.BalanceFromSums(a.AccountType, a.DebitMinor, a.CreditMinor)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", a.AccountCode, err)
		}
		line := domain.AccountAmount{AccountCode: a.AccountCode, Name: a.AccountName, NetMinor: net}
		switch a.AccountType {
		case domain.Asset:
			assets = append(assets, line)
		case domain.Liability:
			liabilities = append(liabilities, line)
		case domain.Equity:
			equity = append(equity, line)
		}
	}

	sortAccountAmounts(assets)
	sortAccountAmounts(liabilities)
	sortAccountAmounts(equity)

	report := &domain.BalanceSheetReport{
		AsOf:                           asOf,
		CurrencyCode:                   s.reportingCurrency,
		Assets:                         assets,
		Liabilities:                    liabilities,
		Equity:                         equity,
		TotalAssetsMinor:               totals.assets,
		TotalLiabilitiesMinor:          totals.liabilities,
		TotalEquityMinor:               totals.equity,
		NetIncomeMinor:                 totals.netIncome(),
		TotalLiabilitiesAndEquityMinor: totals.liabilities + totals.equity + totals.netIncome(),
		IsBalanced:                     true,
	}

	logger.Info("Balance sheet generated", slog.Int64("total_assets_minor", report.TotalAssetsMinor), slog.Int64("net_income_minor", report.NetIncomeMinor))
	return report, nil
}

func sortAccountAmounts(lines []domain.AccountAmount) {
	sort.Slice(lines, func(i, j int) bool { return lines[i].AccountCode < lines[j].AccountCode })
}
