package pgsql

import (
	portsrepo "github.com/casafin/boarding_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider creates all pgsql-backed repositories and bundles
// them for the service container.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(pool)

	return portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		LedgerRepo:    newPgxLedgerRepository(pool, accountRepo),
		SubLedgerRepo: newPgxSubLedgerRepository(pool),
		ReportingRepo: newReportingRepository(pool),
		CurrencyRepo:  newPgxCurrencyRepository(pool),
	}
}
