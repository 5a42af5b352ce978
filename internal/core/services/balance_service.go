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
	"github.com/casafin/boarding_ledger_app/internal/middleware"
	"github.com/casafin/boarding_ledger_app/internal/utils/accounting"
)

// balanceService derives account balances from the journal. The journal is
// the source of truth; the cached balance on the account row is only ever a
// convenience that VerifyBalances can audit.
type balanceService struct {
	BaseService
	accountRepo   portsrepo.AccountRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
}

// NewBalanceService creates a new balance calculator service.
func NewBalanceService(accountRepo portsrepo.AccountRepositoryFacade, reportingRepo portsrepo.ReportingRepository) portssvc.BalanceSvcFacade {
	return &balanceService{
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// GetBalance aggregates posted entries for one account up to asOf and
// applies the account type's normal balance convention.
func (s *balanceService) GetBalance(ctx context.Context, accountCode string, asOf *time.Time) (int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByCode(ctx, accountCode)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for balance query", slog.String("error", err.Error()), slog.String("account_code", accountCode))
		}
		return 0, fmt.Errorf("failed to find account %s: %w", accountCode, err)
	}

	debitSum, creditSum, err := s.reportingRepo.GetAccountBalanceSums(ctx, accountCode, asOf)
	if err != nil {
		logger.Error("Failed to aggregate balance sums", slog.String("error", err.Error()), slog.String("account_code", accountCode))
		return 0, fmt.Errorf("failed to aggregate balance for account %s: %w", accountCode, err)
	}

	balance, err := accounting.BalanceFromSums(account.AccountType, debitSum, creditSum)
	if err != nil {
		return 0, fmt.Errorf("failed to derive balance for account %s: %w", accountCode, err)
	}

	logger.Debug("Balance computed", slog.String("account_code", accountCode), slog.Int64("balance_minor", balance))
	return balance, nil
}

// VerifyBalances recomputes every account balance from the journal and
// reports the accounts whose cached balance drifts from it.
func (s *balanceService) VerifyBalances(ctx context.Context) ([]domain.BalanceVerificationRow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccounts(ctx, nil, true)
	if err != nil {
		logger.Error("Failed to list accounts for balance verification", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	sums, err := s.reportingRepo.GetAllAccountBalanceSums(ctx)
	if err != nil {
		logger.Error("Failed to aggregate journal sums for verification", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to aggregate journal sums: %w", err)
	}

	sumsByCode := make(map[string]domain.AccountActivity, len(sums))
	for _, sum := range sums {
		sumsByCode[sum.AccountCode] = sum
	}

	var drifted []domain.BalanceVerificationRow
	for _, acc := range accounts {
		activity := sumsByCode[acc.AccountCode] // zero sums for accounts without entries
		recalculated, err := accounting.BalanceFromSums(acc.AccountType, activity.DebitMinor, activity.CreditMinor)
		if err != nil {
			return nil, fmt.Errorf("failed to derive balance for account %s: %w", acc.AccountCode, err)
		}
		if recalculated != acc.BalanceMinor {
			drifted = append(drifted, domain.BalanceVerificationRow{
				AccountCode:       acc.AccountCode,
				CachedMinor:       acc.BalanceMinor,
				RecalculatedMinor: recalculated,
				DriftMinor:        acc.BalanceMinor - recalculated,
			})
		}
	}

	if len(drifted) > 0 {
		logger.Warn("Cached balances drift from the journal", slog.Int("drifted_accounts", len(drifted)))
	} else {
		logger.Info("All cached balances match the journal", slog.Int("accounts_checked", len(accounts)))
	}
	return drifted, nil
}
