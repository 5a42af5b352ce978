package apperrors

import "fmt"

// LedgerImbalanceError is returned when a generated report fails the
// fundamental accounting identity (assets = liabilities + equity + net
// income). It indicates upstream data corruption rather than bad input; the
// report generator refuses to return figures when it occurs.
type LedgerImbalanceError struct {
	TotalAssetsMinor               int64
	TotalLiabilitiesAndEquityMinor int64
}

func (e *LedgerImbalanceError) Error() string {
	return fmt.Sprintf("ledger imbalance: assets %d != liabilities+equity+net income %d (difference %d minor units)",
		e.TotalAssetsMinor, e.TotalLiabilitiesAndEquityMinor, e.DiscrepancyMinor())
}

// DiscrepancyMinor returns the signed difference between the two sides.
func (e *LedgerImbalanceError) DiscrepancyMinor() int64 {
	return e.TotalAssetsMinor - e.TotalLiabilitiesAndEquityMinor
}

// ReconciliationMismatchError is returned when the accounts receivable
// control account disagrees with the sum of student sub-ledger balances.
type ReconciliationMismatchError struct {
	ControlAccountCode  string
	ControlBalanceMinor int64
	SubLedgerNetMinor   int64
}

func (e *ReconciliationMismatchError) Error() string {
	return fmt.Sprintf("reconciliation mismatch: control account %s balance %d != sub-ledger net %d (difference %d minor units)",
		e.ControlAccountCode, e.ControlBalanceMinor, e.SubLedgerNetMinor, e.DiscrepancyMinor())
}

// DiscrepancyMinor returns the signed control-minus-subledger difference.
func (e *ReconciliationMismatchError) DiscrepancyMinor() int64 {
	return e.ControlBalanceMinor - e.SubLedgerNetMinor
}
