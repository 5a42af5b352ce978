package mapping

import (
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	"github.com/casafin/boarding_ledger_app/internal/models"
)

// ToModelAccount converts a domain account to its DB row form.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountCode:       d.AccountCode,
		Name:              d.Name,
		AccountType:       models.AccountType(d.AccountType),
		CurrencyCode:      d.CurrencyCode,
		Description:       d.Description,
		IsActive:          d.IsActive,
		IsSubledgerShadow: d.IsSubledgerShadow,
		AuditFields:       ToModelAuditFields(d.AuditFields),
		BalanceMinor:      d.BalanceMinor,
	}
}

// ToDomainAccount converts an accounts row to its domain form.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountCode:       m.AccountCode,
		Name:              m.Name,
		AccountType:       domain.AccountType(m.AccountType),
		CurrencyCode:      m.CurrencyCode,
		Description:       m.Description,
		IsActive:          m.IsActive,
		IsSubledgerShadow: m.IsSubledgerShadow,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
		BalanceMinor:      m.BalanceMinor,
	}
}
