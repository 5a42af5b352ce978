package services

import (
	"context"

	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	"github.com/casafin/boarding_ledger_app/internal/dto"
)

// ReconciliationSvcFacade reconciles the AR control account against the
// student sub-ledger and maintains sub-ledger rows from the enrollment feed.
type ReconciliationSvcFacade interface {
	// ReconcileStudentBalances splits active sub-ledger balances into
	// debtor and prepayment totals and cross-checks their net against the
	// AR control account. A disagreement surfaces as a
	// ReconciliationMismatchError, never as silently adjusted figures.
	ReconcileStudentBalances(ctx context.Context) (*domain.ReconciliationReport, error)

	// UpsertSubLedger applies one row of the enrollment status feed.
	UpsertSubLedger(ctx context.Context, studentID, enrollmentID string, req dto.UpsertSubLedgerRequest, userID string) (*domain.StudentSubLedgerBalance, error)
}
