package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// BalanceSide identifies the side on which an account's balance normally increases.
type BalanceSide string

const (
	DebitNormal  BalanceSide = "DEBIT"
	CreditNormal BalanceSide = "CREDIT"
)

// NormalBalance returns the normal balance side for the account type.
// This mapping is the single source of truth for sign conventions; every
// balance computation in the system must derive its signs from it rather
// than restating the debit/credit rules inline.
func (t AccountType) NormalBalance() (BalanceSide, bool) {
	switch t {
	case Asset, Expense:
		return DebitNormal, true
	case Liability, Equity, Revenue:
		return CreditNormal, true
	default:
		return "", false
	}
}

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	_, ok := t.NormalBalance()
	return ok
}

// Account represents a single account in the chart of accounts.
// This is the primary representation used by services.
type Account struct {
	AccountCode       string      `json:"accountCode"` // Stable numeric code, primary key (e.g., "1200")
	Name              string      `json:"name"`
	AccountType       AccountType `json:"accountType"`
	CurrencyCode      string      `json:"currencyCode"`
	Description       string      `json:"description"`
	IsActive          bool        `json:"isActive"` // Soft delete flag; accounts with history are never removed
	IsSubledgerShadow bool        `json:"isSubledgerShadow"`
	AuditFields
	// BalanceMinor is the cached account balance in minor currency units.
	// It is rebuilt transactionally on every posting and is never
	// authoritative; the journal is.
	BalanceMinor int64 `json:"balanceMinor"`
}
