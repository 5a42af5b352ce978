package dto

import (
	"time"

	"github.com/casafin/boarding_ledger_app/internal/core/domain"
)

// EntryInput is one debit or credit line of a posting request. Amounts are
// strictly positive minor-unit integers.
type EntryInput struct {
	AccountCode string           `json:"accountCode" binding:"required"`
	EntryType   domain.EntryType `json:"entryType" binding:"required,entrytype"`
	AmountMinor int64            `json:"amountMinor" binding:"required,gt=0"`
	Memo        string           `json:"memo"`
}

// PostTransactionRequest defines the data needed to post a transaction.
// The entries must balance exactly: total debits == total credits.
type PostTransactionRequest struct {
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=INVOICE PAYMENT EXPENSE ADJUSTMENT"`
	Date            time.Time              `json:"date" binding:"required"`
	BoardingHouseID string                 `json:"boardingHouseID"`
	Reference       string                 `json:"reference"`
	Description     string                 `json:"description" binding:"required"`
	CurrencyCode    string                 `json:"currencyCode" binding:"required,len=3"`
	StudentID       string                 `json:"studentID"`
	EnrollmentID    string                 `json:"enrollmentID"`
	Entries         []EntryInput           `json:"entries" binding:"required,min=2,dive"`
}

// CorrectTransactionRequest defines the data for a correcting posting. The
// transaction type is forced to ADJUSTMENT by the service.
type CorrectTransactionRequest struct {
	Date         time.Time    `json:"date" binding:"required"`
	Reference    string       `json:"reference"`
	Description  string       `json:"description" binding:"required"`
	CurrencyCode string       `json:"currencyCode" binding:"required,len=3"`
	Entries      []EntryInput `json:"entries" binding:"required,min=2,dive"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID             string           `json:"entryID"`
	TransactionID       string           `json:"transactionID"`
	AccountCode         string           `json:"accountCode"`
	EntryType           domain.EntryType `json:"entryType"`
	AmountMinor         int64            `json:"amountMinor"`
	Memo                string           `json:"memo,omitempty"`
	RunningBalanceMinor int64            `json:"runningBalanceMinor"`
	CreatedAt           time.Time        `json:"createdAt"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID           string                   `json:"transactionID"`
	TransactionType         domain.TransactionType   `json:"transactionType"`
	Date                    time.Time                `json:"date"`
	Status                  domain.TransactionStatus `json:"status"`
	BoardingHouseID         string                   `json:"boardingHouseID,omitempty"`
	Reference               string                   `json:"reference,omitempty"`
	Description             string                   `json:"description"`
	CurrencyCode            string                   `json:"currencyCode"`
	StudentID               string                   `json:"studentID,omitempty"`
	EnrollmentID            string                   `json:"enrollmentID,omitempty"`
	AmountMinor             int64                    `json:"amountMinor"`
	ReversesTransactionID   *string                  `json:"reversesTransactionID,omitempty"`
	ReversedByTransactionID *string                  `json:"reversedByTransactionID,omitempty"`
	CorrectsTransactionID   *string                  `json:"correctsTransactionID,omitempty"`
	CreatedAt               time.Time                `json:"createdAt"`
	CreatedBy               string                   `json:"createdBy"`
	Entries                 []EntryResponse          `json:"entries,omitempty"`
}

// ToEntryResponse converts a domain.JournalEntry to its response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:             e.EntryID,
		TransactionID:       e.TransactionID,
		AccountCode:         e.AccountCode,
		EntryType:           e.EntryType,
		AmountMinor:         e.AmountMinor,
		Memo:                e.Memo,
		RunningBalanceMinor: e.RunningBalanceMinor,
		CreatedAt:           e.CreatedAt,
	}
}

// ToEntryResponses converts a slice of domain entries to response DTOs.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToEntryResponse(&e)
	}
	return responses
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:           txn.TransactionID,
		TransactionType:         txn.TransactionType,
		Date:                    txn.Date,
		Status:                  txn.Status,
		BoardingHouseID:         txn.BoardingHouseID,
		Reference:               txn.Reference,
		Description:             txn.Description,
		CurrencyCode:            txn.CurrencyCode,
		StudentID:               txn.StudentID,
		EnrollmentID:            txn.EnrollmentID,
		AmountMinor:             txn.AmountMinor,
		ReversesTransactionID:   txn.ReversesTransactionID,
		ReversedByTransactionID: txn.ReversedByTransactionID,
		CorrectsTransactionID:   txn.CorrectsTransactionID,
		CreatedAt:               txn.CreatedAt,
		CreatedBy:               txn.CreatedBy,
	}
	if len(txn.Entries) > 0 {
		resp.Entries = ToEntryResponses(txn.Entries)
	}
	return resp
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	BoardingHouseID string  `form:"boardingHouseID"`
	Limit           int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken       *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ListEntriesParams defines query parameters for an account statement.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of journal entries for one account.
type ListEntriesResponse struct {
	AccountCode string          `json:"accountCode"`
	Entries     []EntryResponse `json:"entries"`
	NextToken   *string         `json:"nextToken,omitempty"`
}
