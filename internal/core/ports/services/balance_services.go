package services

import (
	"context"
	"time"

	"github.com/casafin/boarding_ledger_app/internal/core/domain"
)

// BalanceSvcFacade derives account balances from the journal.
type BalanceSvcFacade interface {
	// GetBalance returns the signed balance of an account in minor units,
	// aggregated from posted journal entries up to asOf (unbounded when
	// nil), with the sign convention of the account's normal balance side.
	GetBalance(ctx context.Context, accountCode string, asOf *time.Time) (int64, error)

	// VerifyBalances recomputes every account balance from the journal and
	// returns the accounts whose cached balance drifts from it. An empty
	// result means the cache is trustworthy.
	VerifyBalances(ctx context.Context) ([]domain.BalanceVerificationRow, error)
}
