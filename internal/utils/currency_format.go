package utils

import (
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatMinorUnits renders an amount held in minor currency units as a
// decimal string with the currency's precision.
// Example: 123456 minor units with precision 2 returns "1234.56".
// Example: 123456 minor units with precision 0 returns "123456".
//
// The ledger core works exclusively in minor-unit integers; this conversion
// happens once, at the presentation boundary.
func FormatMinorUnits(amountMinor int64, precision int) string {
	return decimal.New(amountMinor, -int32(precision)).StringFixed(int32(precision))
}

// FormatWithCurrency renders minor units with the currency symbol prefixed,
// e.g. 123456 with PHP returns "₱1234.56".
func FormatWithCurrency(amountMinor int64, currency domain.Currency) string {
	return currency.Symbol + FormatMinorUnits(amountMinor, currency.Precision)
}
