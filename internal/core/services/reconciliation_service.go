package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	portsrepo "github.com/casafin/boarding_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/casafin/boarding_ledger_app/internal/core/ports/services"
	"github.com/casafin/boarding_ledger_app/internal/dto"
	"github.com/casafin/boarding_ledger_app/internal/middleware"
)

// reconciliationService cross-checks the accounts receivable control account
// against the student sub-ledger and maintains sub-ledger rows from the
// enrollment status feed.
type reconciliationService struct {
	BaseService
	subLedgerRepo portsrepo.SubLedgerRepositoryFacade
	balanceSvc    portssvc.BalanceSvcFacade
	arAccountCode string
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(subLedgerRepo portsrepo.SubLedgerRepositoryFacade, balanceSvc portssvc.BalanceSvcFacade, arAccountCode string) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		subLedgerRepo: subLedgerRepo,
		balanceSvc:    balanceSvc,
		arAccountCode: arAccountCode,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// ReconcileStudentBalances splits active sub-ledger balances into debtor and
// prepayment totals and cross-checks their net against the AR control
// account. On disagreement the figures come back wrapped in a
// ReconciliationMismatchError, never silently adjusted.
//
// The sub-ledger tracks what students owe (negative) or have prepaid
// (positive); the control account holds the mirror position from the
// ledger's point of view, so control balance must equal minus the
// sub-ledger net.
func (s *reconciliationService) ReconcileStudentBalances(ctx context.Context) (*domain.ReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	balances, err := s.subLedgerRepo.ListSubLedgerBalances(ctx, true)
	if err != nil {
		logger.Error("Failed to list sub-ledger balances for reconciliation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list sub-ledger balances: %w", err)
	}

	controlBalance, err := s.balanceSvc.GetBalance(ctx, s.arAccountCode, nil)
	if err != nil {
		logger.Error("Failed to compute control account balance", slog.String("error", err.Error()), slog.String("account_code", s.arAccountCode))
		return nil, fmt.Errorf("failed to compute control account balance: %w", err)
	}

	var netMinor, debtorsMinor, prepaymentsMinor int64
	perStudent := make([]domain.StudentBalanceLine, 0, len(balances))
	for _, b := range balances {
		netMinor += b.BalanceMinor
		if b.IsDebtor() {
			debtorsMinor += -b.BalanceMinor
		} else if b.IsPrepayment() {
			prepaymentsMinor += b.BalanceMinor
		}
		perStudent = append(perStudent, domain.StudentBalanceLine{
			StudentID:    b.StudentID,
			EnrollmentID: b.EnrollmentID,
			BalanceMinor: b.BalanceMinor,
			Debtor:       b.IsDebtor(),
		})
	}

	sort.Slice(perStudent, func(i, j int) bool {
		if perStudent[i].StudentID != perStudent[j].StudentID {
			return perStudent[i].StudentID < perStudent[j].StudentID
		}
		return perStudent[i].EnrollmentID < perStudent[j].EnrollmentID
	})

	report := &domain.ReconciliationReport{
		AsOf:                  time.Now().UTC(),
		ControlAccountCode:    s.arAccountCode,
		ControlBalanceMinor:   controlBalance,
		SubLedgerNetMinor:     netMinor,
		TotalDebtorsMinor:     debtorsMinor,
		TotalPrepaymentsMinor: prepaymentsMinor,
		PerStudent:            perStudent,
	}

	if controlBalance != -netMinor {
		mismatch := &apperrors.ReconciliationMismatchError{
			ControlAccountCode:  s.arAccountCode,
			ControlBalanceMinor: controlBalance,
			SubLedgerNetMinor:   netMinor,
		}
		logger.Error("Control account disagrees with sub-ledger", slog.Int64("control_minor", controlBalance), slog.Int64("subledger_net_minor", netMinor), slog.Int64("discrepancy_minor", mismatch.DiscrepancyMinor()))
		return report, mismatch
	}

	logger.Info("Student balances reconciled", slog.Int("students", len(perStudent)), slog.Int64("debtors_minor", debtorsMinor), slog.Int64("prepayments_minor", prepaymentsMinor))
	return report, nil
}

// UpsertSubLedger applies one row of the enrollment status feed. The opening
// balance is honored only on first sight of a (student, enrollment) pair;
// after that only posted transactions move the balance.
func (s *reconciliationService) UpsertSubLedger(ctx context.Context, studentID, enrollmentID string, req dto.UpsertSubLedgerRequest, userID string) (*domain.StudentSubLedgerBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if studentID == "" || enrollmentID == "" {
		return nil, fmt.Errorf("%w: studentID and enrollmentID are required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	balance := domain.StudentSubLedgerBalance{
		StudentID:       studentID,
		EnrollmentID:    enrollmentID,
		BoardingHouseID: req.BoardingHouseID,
		Status:          req.Status,
		BalanceMinor:    req.OpeningBalanceMinor,
		ExpectedEndDate: req.ExpectedEndDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.subLedgerRepo.UpsertSubLedger(ctx, balance); err != nil {
		logger.Error("Failed to upsert sub-ledger row", slog.String("error", err.Error()), slog.String("student_id", studentID), slog.String("enrollment_id", enrollmentID))
		return nil, fmt.Errorf("failed to upsert sub-ledger row: %w", err)
	}

	stored, err := s.subLedgerRepo.FindSubLedger(ctx, studentID, enrollmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInternal
		}
		logger.Error("Failed to re-read sub-ledger row after upsert", slog.String("error", err.Error()), slog.String("student_id", studentID))
		return nil, fmt.Errorf("failed to read sub-ledger row: %w", err)
	}

	logger.Info("Sub-ledger row upserted", slog.String("student_id", studentID), slog.String("enrollment_id", enrollmentID), slog.String("status", string(stored.Status)))
	return stored, nil
}
