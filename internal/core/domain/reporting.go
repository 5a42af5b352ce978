package domain

import "time"

// AccountActivity holds an account's raw debit and credit totals over some
// window of the journal. Sign conventions are applied downstream via the
// account type's normal balance side.
type AccountActivity struct {
	AccountCode string      `json:"accountCode"`
	AccountName string      `json:"accountName"`
	AccountType AccountType `json:"accountType"`
	DebitMinor  int64       `json:"debitMinor"`
	CreditMinor int64       `json:"creditMinor"`
}

// TrialBalanceRow represents a single account row in a trial balance report.
// Exactly one of Debit/Credit is non-zero for an account with activity.
type TrialBalanceRow struct {
	AccountCode string      `json:"accountCode"`
	AccountName string      `json:"accountName"`
	AccountType AccountType `json:"accountType"`
	DebitMinor  int64       `json:"debitMinor"`
	CreditMinor int64       `json:"creditMinor"`
}

// TrialBalanceReport lists every account's debit/credit balance. Total
// debits equal total credits by construction; the generator still checks.
type TrialBalanceReport struct {
	AsOf             time.Time         `json:"asOf"`
	CurrencyCode     string            `json:"currencyCode"`
	Rows             []TrialBalanceRow `json:"rows"`
	TotalDebitMinor  int64             `json:"totalDebitMinor"`
	TotalCreditMinor int64             `json:"totalCreditMinor"`
}

// AccountAmount pairs an account with its net amount for financial reports.
type AccountAmount struct {
	AccountCode string `json:"accountCode"`
	Name        string `json:"name"`
	NetMinor    int64  `json:"netMinor"`
}

// IncomeStatementReport nets revenue and expense accounts over a period.
type IncomeStatementReport struct {
	FromDate           time.Time       `json:"fromDate"`
	ToDate             time.Time       `json:"toDate"`
	CurrencyCode       string          `json:"currencyCode"`
	Revenue            []AccountAmount `json:"revenue"`
	Expenses           []AccountAmount `json:"expenses"`
	TotalRevenueMinor  int64           `json:"totalRevenueMinor"`
	TotalExpensesMinor int64           `json:"totalExpensesMinor"`
	NetIncomeMinor     int64           `json:"netIncomeMinor"`
}

// BalanceSheetReport is a point-in-time statement of financial position.
// IsBalanced asserts the fundamental identity
// assets == liabilities + equity + net income at zero tolerance.
type BalanceSheetReport struct {
	AsOf                           time.Time       `json:"asOf"`
	CurrencyCode                   string          `json:"currencyCode"`
	Assets                         []AccountAmount `json:"assets"`
	Liabilities                    []AccountAmount `json:"liabilities"`
	Equity                         []AccountAmount `json:"equity"`
	TotalAssetsMinor               int64           `json:"totalAssetsMinor"`
	TotalLiabilitiesMinor          int64           `json:"totalLiabilitiesMinor"`
	TotalEquityMinor               int64           `json:"totalEquityMinor"`
	NetIncomeMinor                 int64           `json:"netIncomeMinor"`
	TotalLiabilitiesAndEquityMinor int64           `json:"totalLiabilitiesAndEquityMinor"`
	IsBalanced                     bool            `json:"isBalanced"`
}

// StudentBalanceLine is one student's position in a reconciliation report.
type StudentBalanceLine struct {
	StudentID    string `json:"studentID"`
	EnrollmentID string `json:"enrollmentID"`
	BalanceMinor int64  `json:"balanceMinor"`
	Debtor       bool   `json:"debtor"`
}

// ReconciliationReport cross-checks the AR control account against the sum
// of active student sub-ledger balances.
type ReconciliationReport struct {
	AsOf                  time.Time            `json:"asOf"`
	ControlAccountCode    string               `json:"controlAccountCode"`
	ControlBalanceMinor   int64                `json:"controlBalanceMinor"`
	SubLedgerNetMinor     int64                `json:"subLedgerNetMinor"`
	TotalDebtorsMinor     int64                `json:"totalDebtorsMinor"`     // abs sum of negative balances
	TotalPrepaymentsMinor int64                `json:"totalPrepaymentsMinor"` // sum of positive balances
	PerStudent            []StudentBalanceLine `json:"perStudent"`
}

// BalanceVerificationRow reports drift between the cached account balance
// and the balance recomputed from the journal.
type BalanceVerificationRow struct {
	AccountCode       string `json:"accountCode"`
	CachedMinor       int64  `json:"cachedMinor"`
	RecalculatedMinor int64  `json:"recalculatedMinor"`
	DriftMinor        int64  `json:"driftMinor"`
}
