package repositories

import (
	"context"
	"time"

	"github.com/casafin/boarding_ledger_app/internal/core/domain"
)

// ReportingRepository defines read-aggregate operations over the journal.
// Every method returns raw debit/credit sums from POSTED transactions only;
// sign conventions are applied by the caller through the account type's
// normal balance side, never restated in SQL.
//
// A report combines several aggregates; InSnapshot pins them all to one
// consistent view of the journal so a posting committing mid-report cannot
// skew one aggregate against another.
type ReportingRepository interface {
	// InSnapshot runs fn against a repository view bound to a single
	// repeatable-read, read-only transaction. Every read made through the
	// view observes the same journal snapshot.
	InSnapshot(ctx context.Context, fn func(ReportingRepository) error) error

	// ListActiveShadowAccountCodes returns the codes of active accounts
	// flagged as sub-ledger shadows. Reports refuse to run while any exist.
	ListActiveShadowAccountCodes(ctx context.Context) ([]string, error)

	// GetAccountActivity returns per-account debit/credit totals of all
	// posted entries dated up to asOf, optionally scoped to a boarding house.
	GetAccountActivity(ctx context.Context, boardingHouseID string, asOf time.Time) ([]domain.AccountActivity, error)

	// GetPeriodActivity returns per-account debit/credit totals for posted
	// entries dated within [from, to], restricted to the given account types.
	GetPeriodActivity(ctx context.Context, boardingHouseID string, from, to time.Time, types []domain.AccountType) ([]domain.AccountActivity, error)

	// GetAccountBalanceSums returns the debit and credit totals for one
	// account, up to asOf when non-nil, otherwise unbounded.
	GetAccountBalanceSums(ctx context.Context, accountCode string, asOf *time.Time) (debitMinor, creditMinor int64, err error)

	// GetAllAccountBalanceSums returns debit/credit totals for every account
	// with activity, used to verify cached balances against the journal.
	GetAllAccountBalanceSums(ctx context.Context) ([]domain.AccountActivity, error)
}
