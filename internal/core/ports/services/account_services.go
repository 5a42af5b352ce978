package services

import (
	"context"

	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	"github.com/casafin/boarding_ledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts.
type AccountReaderSvc interface {
	// GetAccountByCode retrieves a specific account by its stable code.
	GetAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error)

	// GetAccountsByCodes retrieves multiple accounts keyed by code.
	GetAccountsByCodes(ctx context.Context, accountCodes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts, optionally filtered by type.
	ListAccounts(ctx context.Context, typeFilter *domain.AccountType, includeInactive bool) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts.
type AccountWriterSvc interface {
	// CreateAccount registers a new account in the chart.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// DeactivateAccount soft-deletes an account. An account's type is
	// immutable once entries exist against it; there is no update path.
	DeactivateAccount(ctx context.Context, accountCode string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
