package repositories

import (
	"context"

	"github.com/casafin/boarding_ledger_app/internal/core/domain"
)

// SubLedgerRepositoryFacade defines operations on the student sub-ledger.
// Balance movements happen through LedgerWriter.SaveTransaction; this
// interface serves the enrollment feed and the reconciler's reads.
type SubLedgerRepositoryFacade interface {
	// UpsertSubLedger creates or updates a (student, enrollment) row from
	// the enrollment status feed. It never touches the balance of an
	// existing row; only posting a transaction moves balances.
	UpsertSubLedger(ctx context.Context, balance domain.StudentSubLedgerBalance) error

	// FindSubLedger retrieves one (student, enrollment) row.
	FindSubLedger(ctx context.Context, studentID, enrollmentID string) (*domain.StudentSubLedgerBalance, error)

	// ListSubLedgerBalances retrieves sub-ledger rows, restricted to active
	// enrollments when onlyActive is set.
	ListSubLedgerBalances(ctx context.Context, onlyActive bool) ([]domain.StudentSubLedgerBalance, error)
}
