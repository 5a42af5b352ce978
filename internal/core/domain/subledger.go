package domain

import "time"

// EnrollmentStatus mirrors the status fed by the enrollment module.
type EnrollmentStatus string

const (
	EnrollmentActive EnrollmentStatus = "ACTIVE"
	EnrollmentClosed EnrollmentStatus = "CLOSED"
)

// StudentSubLedgerBalance is the running balance of one (student, enrollment)
// pair against the accounts receivable control account.
//
// The sign convention follows the upstream billing system: a negative balance
// means the student owes money (debtor), a positive balance means the student
// has paid ahead (prepayment).
type StudentSubLedgerBalance struct {
	StudentID       string           `json:"studentID"`
	EnrollmentID    string           `json:"enrollmentID"`
	BoardingHouseID string           `json:"boardingHouseID,omitempty"`
	Status          EnrollmentStatus `json:"status"`
	BalanceMinor    int64            `json:"balanceMinor"`
	ExpectedEndDate *time.Time       `json:"expectedEndDate,omitempty"`
	AuditFields
}

// IsDebtor reports whether the student currently owes money.
func (b StudentSubLedgerBalance) IsDebtor() bool {
	return b.BalanceMinor < 0
}

// IsPrepayment reports whether the student holds a credit.
func (b StudentSubLedgerBalance) IsPrepayment() bool {
	return b.BalanceMinor > 0
}
