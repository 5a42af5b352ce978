package models

// AccountType mirrors domain.AccountType for DB storage.
type AccountType string

// Account represents a row in the accounts table.
type Account struct {
	AccountCode       string      `json:"accountCode"`
	Name              string      `json:"name"`
	AccountType       AccountType `json:"accountType"`
	CurrencyCode      string      `json:"currencyCode"`
	Description       string      `json:"description"`
	IsActive          bool        `json:"isActive"`
	IsSubledgerShadow bool        `json:"isSubledgerShadow"`
	AuditFields
	BalanceMinor int64 `json:"balanceMinor"` // Cached; rebuilt on every posting
}
