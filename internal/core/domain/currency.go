package domain

// Currency describes a reporting currency known to the system. Precision is
// the number of minor-unit digits (2 for PHP or USD, 0 for JPY) and is the
// only piece of currency metadata the presentation boundary needs to turn
// minor-unit integers into display amounts.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217, primary key
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"`
	AuditFields
}
