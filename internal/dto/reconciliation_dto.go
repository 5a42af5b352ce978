package dto

import (
	"time"

	"github.com/casafin/boarding_ledger_app/internal/core/domain"
)

// UpsertSubLedgerRequest carries one row of the enrollment status feed.
// OpeningBalanceMinor is honored only when the row is first created; after
// that, only posted transactions move the balance.
type UpsertSubLedgerRequest struct {
	Status              domain.EnrollmentStatus `json:"status" binding:"required,oneof=ACTIVE CLOSED"`
	BoardingHouseID     string                  `json:"boardingHouseID"`
	OpeningBalanceMinor int64                   `json:"openingBalanceMinor"`
	ExpectedEndDate     *time.Time              `json:"expectedEndDate"`
}

// SubLedgerResponse defines the data returned for a sub-ledger row.
type SubLedgerResponse struct {
	StudentID       string                  `json:"studentID"`
	EnrollmentID    string                  `json:"enrollmentID"`
	BoardingHouseID string                  `json:"boardingHouseID,omitempty"`
	Status          domain.EnrollmentStatus `json:"status"`
	BalanceMinor    int64                   `json:"balanceMinor"`
	Debtor          bool                    `json:"debtor"`
	ExpectedEndDate *time.Time              `json:"expectedEndDate,omitempty"`
}

// ToSubLedgerResponse converts a domain sub-ledger balance to its response DTO.
func ToSubLedgerResponse(b *domain.StudentSubLedgerBalance) SubLedgerResponse {
	return SubLedgerResponse{
		StudentID:       b.StudentID,
		EnrollmentID:    b.EnrollmentID,
		BoardingHouseID: b.BoardingHouseID,
		Status:          b.Status,
		BalanceMinor:    b.BalanceMinor,
		Debtor:          b.IsDebtor(),
		ExpectedEndDate: b.ExpectedEndDate,
	}
}

// ReconciliationResponse represents the student balance reconciliation report.
type ReconciliationResponse struct {
	AsOf                  string                      `json:"asOf"`
	ControlAccountCode    string                      `json:"controlAccountCode"`
	ControlBalanceMinor   int64                       `json:"controlBalanceMinor"`
	SubLedgerNetMinor     int64                       `json:"subLedgerNetMinor"`
	TotalDebtorsMinor     int64                       `json:"totalDebtorsMinor"`
	TotalPrepaymentsMinor int64                       `json:"totalPrepaymentsMinor"`
	PerStudent            []domain.StudentBalanceLine `json:"perStudent"`
}

// ToReconciliationResponse converts a domain reconciliation report to its
// response DTO.
func ToReconciliationResponse(report *domain.ReconciliationReport) ReconciliationResponse {
	return ReconciliationResponse{
		AsOf:                  report.AsOf.Format(reportDateLayout),
		ControlAccountCode:    report.ControlAccountCode,
		ControlBalanceMinor:   report.ControlBalanceMinor,
		SubLedgerNetMinor:     report.SubLedgerNetMinor,
		TotalDebtorsMinor:     report.TotalDebtorsMinor,
		TotalPrepaymentsMinor: report.TotalPrepaymentsMinor,
		PerStudent:            report.PerStudent,
	}
}
