package mapping

import (
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	"github.com/casafin/boarding_ledger_app/internal/models"
)

// ToModelTransaction converts a domain transaction to its DB row form.
// Entries are persisted separately.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:           d.TransactionID,
		TransactionType:         string(d.TransactionType),
		Date:                    d.Date,
		Status:                  string(d.Status),
		BoardingHouseID:         d.BoardingHouseID,
		Reference:               d.Reference,
		Description:             d.Description,
		CurrencyCode:            d.CurrencyCode,
		StudentID:               d.StudentID,
		EnrollmentID:            d.EnrollmentID,
		AmountMinor:             d.AmountMinor,
		ReversesTransactionID:   d.ReversesTransactionID,
		ReversedByTransactionID: d.ReversedByTransactionID,
		CorrectsTransactionID:   d.CorrectsTransactionID,
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a transactions row to its domain form.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:           m.TransactionID,
		TransactionType:         domain.TransactionType(m.TransactionType),
		Date:                    m.Date,
		Status:                  domain.TransactionStatus(m.Status),
		BoardingHouseID:         m.BoardingHouseID,
		Reference:               m.Reference,
		Description:             m.Description,
		CurrencyCode:            m.CurrencyCode,
		StudentID:               m.StudentID,
		EnrollmentID:            m.EnrollmentID,
		AmountMinor:             m.AmountMinor,
		ReversesTransactionID:   m.ReversesTransactionID,
		ReversedByTransactionID: m.ReversedByTransactionID,
		CorrectsTransactionID:   m.CorrectsTransactionID,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntry converts a domain journal entry to its DB row form.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:             d.EntryID,
		TransactionID:       d.TransactionID,
		AccountCode:         d.AccountCode,
		EntryType:           string(d.EntryType),
		AmountMinor:         d.AmountMinor,
		Memo:                d.Memo,
		AuditFields:         ToModelAuditFields(d.AuditFields),
		RunningBalanceMinor: d.RunningBalanceMinor,
	}
}

// ToDomainJournalEntry converts a journal_entries row to its domain form.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:             m.EntryID,
		TransactionID:       m.TransactionID,
		AccountCode:         m.AccountCode,
		EntryType:           domain.EntryType(m.EntryType),
		AmountMinor:         m.AmountMinor,
		Memo:                m.Memo,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
		RunningBalanceMinor: m.RunningBalanceMinor,
	}
}
