package repositories

import (
	"context"
	"time"

	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for the chart of accounts.
type AccountReader interface {
	// FindAccountByCode retrieves a specific account by its stable code.
	FindAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error)

	// FindAccountsByCodes retrieves multiple accounts keyed by code.
	FindAccountsByCodes(ctx context.Context, accountCodes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts, optionally filtered by type.
	// Inactive accounts are included only when includeInactive is set.
	ListAccounts(ctx context.Context, typeFilter *domain.AccountType, includeInactive bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for the chart of accounts.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount soft-deletes an account. Accounts with history are
	// never removed from the table.
	DeactivateAccount(ctx context.Context, accountCode string, userID string, now time.Time) error
}

// AccountTransactionSupport defines operations used inside a posting transaction.
type AccountTransactionSupport interface {
	// FindAccountsByCodesForUpdate selects accounts and row-locks them
	// within the given database transaction.
	FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, accountCodes []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies signed balance deltas (minor units)
	// to the cached account balances within the given transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]int64, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
