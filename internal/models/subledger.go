package models

import "time"

// StudentSubLedger represents a row in the student_subledger table.
type StudentSubLedger struct {
	StudentID       string     `json:"studentID"`
	EnrollmentID    string     `json:"enrollmentID"`
	BoardingHouseID string     `json:"boardingHouseID"`
	Status          string     `json:"status"`
	BalanceMinor    int64      `json:"balanceMinor"`
	ExpectedEndDate *time.Time `json:"expectedEndDate"`
	AuditFields
}
