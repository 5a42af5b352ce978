package repositories

import (
	"context"

	"github.com/casafin/boarding_ledger_app/internal/core/domain"
)

// SubLedgerDelta carries the student sub-ledger movement a posting causes,
// applied atomically with the journal insert.
type SubLedgerDelta struct {
	StudentID    string
	EnrollmentID string
	DeltaMinor   int64
}

// LedgerReader defines read operations for transactions and journal entries.
type LedgerReader interface {
	// FindTransactionByID retrieves a transaction header by its identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindEntriesByTransactionID retrieves all journal entries of a transaction.
	FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error)

	// ListTransactions retrieves a paginated list of transactions, newest
	// first, optionally scoped to a boarding house, using token pagination.
	ListTransactions(ctx context.Context, boardingHouseID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListEntriesByAccount retrieves a paginated list of journal entries
	// posted against one account, using token pagination.
	ListEntriesByAccount(ctx context.Context, accountCode string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// LedgerWriter defines write operations for the journal. Entries are
// append-only: there is deliberately no way to update or delete one.
type LedgerWriter interface {
	// SaveTransaction persists a transaction with its entries, rebuilds the
	// cached account balances and applies the sub-ledger delta, all within
	// a single database transaction. On any failure nothing is persisted.
	//
	// When the transaction is a reversal (ReversesTransactionID set), the
	// original transaction is marked VOIDED and back-linked in the same
	// database transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.JournalEntry, balanceChanges map[string]int64, subLedger *SubLedgerDelta) error
}

// LedgerRepositoryFacade combines all journal repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
