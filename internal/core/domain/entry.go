package domain

// EntryType indicates whether a journal entry is a debit or a credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// Opposite returns the offsetting entry type, used when building reversals.
func (e EntryType) Opposite() EntryType {
	if e == Debit {
		return Credit
	}
	return Debit
}

// JournalEntry is a single line within a Transaction, affecting one account.
// Entries are immutable once their transaction is posted; corrections are
// made by posting new offsetting entries, never by editing historical rows.
type JournalEntry struct {
	EntryID       string    `json:"entryID"`       // Primary key (UUID)
	TransactionID string    `json:"transactionID"` // FK -> Transaction (not null)
	AccountCode   string    `json:"accountCode"`   // FK -> Account (not null)
	EntryType     EntryType `json:"entryType"`
	AmountMinor   int64     `json:"amountMinor"` // Strictly positive, minor currency units
	Memo          string    `json:"memo,omitempty"`
	AuditFields
	// RunningBalanceMinor is the signed account balance immediately after
	// this entry, captured at posting time for statement rendering.
	RunningBalanceMinor int64 `json:"runningBalanceMinor"`
}
