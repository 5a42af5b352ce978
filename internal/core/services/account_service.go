package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	portsrepo "github.com/casafin/boarding_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/casafin/boarding_ledger_app/internal/core/ports/services"
	"github.com/casafin/boarding_ledger_app/internal/dto"
	"github.com/casafin/boarding_ledger_app/internal/middleware"
)

// accountService provides chart-of-accounts operations.
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount registers a new account in the chart of accounts.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}

	// The currency must exist in the registry before accounts can carry it.
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %s is not registered", apperrors.ErrValidation, req.CurrencyCode)
		}
		logger.Error("Failed to look up currency for account creation", slog.String("error", err.Error()), slog.String("currency_code", req.CurrencyCode))
		return nil, fmt.Errorf("failed to verify currency: %w", err)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountCode:  req.AccountCode,
		Name:         req.Name,
		AccountType:  req.AccountType,
		CurrencyCode: req.CurrencyCode,
		Description:  req.Description,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempt to create account with duplicate code", slog.String("account_code", req.AccountCode))
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, req.AccountCode)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_code", req.AccountCode))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created successfully", slog.String("account_code", account.AccountCode), slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

// GetAccountByCode retrieves a specific account by its stable code.
func (s *accountService) GetAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByCode(ctx, accountCode)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by code", slog.String("error", err.Error()), slog.String("account_code", accountCode))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountCode, err)
	}
	return account, nil
}

// GetAccountsByCodes retrieves multiple accounts keyed by code.
func (s *accountService) GetAccountsByCodes(ctx context.Context, accountCodes []string) (map[string]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, accountCodes)
	if err != nil {
		logger.Error("Failed to find accounts by codes", slog.String("error", err.Error()), slog.Int("code_count", len(accountCodes)))
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	return accounts, nil
}

// ListAccounts retrieves accounts, optionally filtered by type.
func (s *accountService) ListAccounts(ctx context.Context, typeFilter *domain.AccountType, includeInactive bool) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if typeFilter != nil && !typeFilter.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, *typeFilter)
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, typeFilter, includeInactive)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	logger.Debug("Accounts listed successfully", slog.Int("count", len(accounts)))
	return accounts, nil
}

// DeactivateAccount soft-deletes an account. History posted against the
// account stays in the journal untouched.
func (s *accountService) DeactivateAccount(ctx context.Context, accountCode string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByCode(ctx, accountCode)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for deactivation", slog.String("error", err.Error()), slog.String("account_code", accountCode))
		}
		return fmt.Errorf("failed to find account %s: %w", accountCode, err)
	}

	if !account.IsActive {
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrConflict, accountCode)
	}

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, accountCode, userID, now); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_code", accountCode))
		return fmt.Errorf("failed to deactivate account %s: %w", accountCode, err)
	}

	logger.Info("Account deactivated successfully", slog.String("account_code", accountCode))
	return nil
}
