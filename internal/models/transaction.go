package models

import "time"

// Transaction represents a row in the transactions table.
type Transaction struct {
	TransactionID           string    `json:"transactionID"`
	TransactionType         string    `json:"transactionType"`
	Date                    time.Time `json:"date"`
	Status                  string    `json:"status"`
	BoardingHouseID         string    `json:"boardingHouseID"`
	Reference               string    `json:"reference"`
	Description             string    `json:"description"`
	CurrencyCode            string    `json:"currencyCode"`
	StudentID               string    `json:"studentID"`
	EnrollmentID            string    `json:"enrollmentID"`
	AmountMinor             int64     `json:"amountMinor"`
	ReversesTransactionID   *string   `json:"reversesTransactionID"`
	ReversedByTransactionID *string   `json:"reversedByTransactionID"`
	CorrectsTransactionID   *string   `json:"correctsTransactionID"`
	AuditFields
}

// JournalEntry represents a row in the journal_entries table.
type JournalEntry struct {
	EntryID       string `json:"entryID"`
	TransactionID string `json:"transactionID"`
	AccountCode   string `json:"accountCode"`
	EntryType     string `json:"entryType"`
	AmountMinor   int64  `json:"amountMinor"`
	Memo          string `json:"memo"`
	AuditFields
	RunningBalanceMinor int64 `json:"runningBalanceMinor"`
}
