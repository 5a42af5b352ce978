package domain

import "time"

// TransactionType classifies the business event behind a transaction.
type TransactionType string

const (
	TxnInvoice    TransactionType = "INVOICE"
	TxnPayment    TransactionType = "PAYMENT"
	TxnExpense    TransactionType = "EXPENSE"
	TxnAdjustment TransactionType = "ADJUSTMENT"
)

// TransactionStatus indicates the lifecycle state of a transaction.
// Only POSTED transactions participate in balance computation.
type TransactionStatus string

const (
	StatusDraft  TransactionStatus = "DRAFT"
	StatusPosted TransactionStatus = "POSTED"
	StatusVoided TransactionStatus = "VOIDED"
)

// Transaction represents a single, balanced financial event composed of
// multiple journal entries. The amount is informational: the authoritative
// figures live in the entries.
type Transaction struct {
	TransactionID   string            `json:"transactionID"` // Primary key (UUID)
	TransactionType TransactionType   `json:"transactionType"`
	Date            time.Time         `json:"date"`
	Status          TransactionStatus `json:"status"`
	BoardingHouseID string            `json:"boardingHouseID,omitempty"` // Optional branch scope
	Reference       string            `json:"reference,omitempty"`
	Description     string            `json:"description"`
	CurrencyCode    string            `json:"currencyCode"`
	// StudentID/EnrollmentID link the transaction to a student sub-ledger
	// row. Both are set or both are empty.
	StudentID    string `json:"studentID,omitempty"`
	EnrollmentID string `json:"enrollmentID,omitempty"`
	// AmountMinor is the economic value of the event (the debit side total),
	// in minor currency units.
	AmountMinor int64 `json:"amountMinor"`
	// ReversesTransactionID is set on a reversal, pointing at the voided
	// transaction. ReversedByTransactionID is the back link on the original.
	ReversesTransactionID   *string `json:"reversesTransactionID,omitempty"`
	ReversedByTransactionID *string `json:"reversedByTransactionID,omitempty"`
	// CorrectsTransactionID is set on ADJUSTMENT transactions posted to
	// repair an earlier event.
	CorrectsTransactionID *string `json:"correctsTransactionID,omitempty"`
	AuditFields
	Entries []JournalEntry `json:"entries,omitempty"`
}

// IsReversal reports whether the transaction exists only to offset another.
func (t Transaction) IsReversal() bool {
	return t.ReversesTransactionID != nil
}
