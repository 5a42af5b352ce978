package services

import (
	"context"
	"time"

	"github.com/casafin/boarding_ledger_app/internal/core/domain"
)

// ReportingService defines operations for generating financial reports.
// Every report validates the fundamental accounting identity before it is
// returned; a report that fails the check is refused with a
// LedgerImbalanceError rather than displayed.
type ReportingService interface {
	// TrialBalance generates a trial balance as of a specific date.
	TrialBalance(ctx context.Context, boardingHouseID string, asOf time.Time) (*domain.TrialBalanceReport, error)

	// IncomeStatement nets revenue and expenses over a period.
	IncomeStatement(ctx context.Context, boardingHouseID string, from, to time.Time) (*domain.IncomeStatementReport, error)

	// BalanceSheet generates a balance sheet as of a specific date.
	BalanceSheet(ctx context.Context, boardingHouseID string, asOf time.Time) (*domain.BalanceSheetReport, error)
}
