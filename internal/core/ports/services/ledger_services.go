package services

import (
	"context"

	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	"github.com/casafin/boarding_ledger_app/internal/dto"
)

// LedgerSvcFacade defines the journal posting and retrieval operations.
type LedgerSvcFacade interface {
	// PostTransaction validates and atomically posts a balanced set of
	// journal entries. The transaction transitions draft to posted exactly
	// once, inside this call; a rejected transaction leaves no rows behind.
	PostTransaction(ctx context.Context, req dto.PostTransactionRequest, creatorUserID string) (*domain.Transaction, error)

	// GetTransactionByID retrieves a transaction with its entries.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// VoidTransaction posts a fully offsetting reversal of a posted
	// transaction and marks the original VOIDED. Voiding a voided or
	// reversal transaction is a conflict, not a second reversal.
	VoidTransaction(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error)

	// PostCorrectingTransaction posts an ADJUSTMENT transaction linked to
	// the transaction being corrected. Historical entries are never edited;
	// this is the only sanctioned repair path.
	PostCorrectingTransaction(ctx context.Context, transactionID string, req dto.CorrectTransactionRequest, userID string) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated list of transactions.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// ListEntriesByAccount retrieves a paginated ledger statement for one account.
	ListEntriesByAccount(ctx context.Context, accountCode string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
