package services

import (
	portsrepo "github.com/casafin/boarding_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/casafin/boarding_ledger_app/internal/core/ports/services"
)

// NewServiceContainer wires every service with its repositories.
// arAccountCode names the accounts receivable control account and
// reportingCurrency the currency reports are labeled with; both come from
// configuration.
func NewServiceContainer(repos portsrepo.RepositoryProvider, arAccountCode, reportingCurrency string) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo, repos.CurrencyRepo)
	currencySvc := NewCurrencyService(repos.CurrencyRepo)
	ledgerSvc := NewLedgerService(repos.LedgerRepo, repos.AccountRepo, arAccountCode)
	balanceSvc := NewBalanceService(repos.AccountRepo, repos.ReportingRepo)
	reconciliationSvc := NewReconciliationService(repos.SubLedgerRepo, balanceSvc, arAccountCode)
	reportingSvc := NewReportingService(repos.ReportingRepo, reportingCurrency)

	return &portssvc.ServiceContainer{
		Account:        accountSvc,
		Currency:       currencySvc,
		Ledger:         ledgerSvc,
		Balance:        balanceSvc,
		Reconciliation: reconciliationSvc,
		Reporting:      reportingSvc,
	}
}
