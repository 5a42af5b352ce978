package mapping

import (
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	"github.com/casafin/boarding_ledger_app/internal/models"
)

// ToModelStudentSubLedger converts a domain sub-ledger balance to its DB row form.
func ToModelStudentSubLedger(d domain.StudentSubLedgerBalance) models.StudentSubLedger {
	return models.StudentSubLedger{
		StudentID:       d.StudentID,
		EnrollmentID:    d.EnrollmentID,
		BoardingHouseID: d.BoardingHouseID,
		Status:          string(d.Status),
		BalanceMinor:    d.BalanceMinor,
		ExpectedEndDate: d.ExpectedEndDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStudentSubLedger converts a student_subledger row to its domain form.
func ToDomainStudentSubLedger(m models.StudentSubLedger) domain.StudentSubLedgerBalance {
	return domain.StudentSubLedgerBalance{
		StudentID:       m.StudentID,
		EnrollmentID:    m.EnrollmentID,
		BoardingHouseID: m.BoardingHouseID,
		Status:          domain.EnrollmentStatus(m.Status),
		BalanceMinor:    m.BalanceMinor,
		ExpectedEndDate: m.ExpectedEndDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
