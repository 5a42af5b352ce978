package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	portssvc "github.com/casafin/boarding_ledger_app/internal/core/ports/services"
	"github.com/casafin/boarding_ledger_app/internal/dto"
	"github.com/casafin/boarding_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles HTTP requests for the student sub-ledger.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// registerReconciliationRoutes registers sub-ledger reconciliation routes.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{reconciliationService: reconciliationService}

	rg.GET("/reconciliation/students", h.reconcileStudents)
	rg.PUT("/subledger/:studentID/:enrollmentID", h.upsertSubLedger)
}

// reconcileStudents godoc
// @Summary Reconcile student balances against the AR control account
// @Description Splits sub-ledger balances into debtors and prepayments and cross-checks the net against the control account. A mismatch returns 409 with the full report so the discrepancy can be investigated.
// @Tags reconciliation
// @Produce  json
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 409 {object} map[string]interface{} "Control account disagrees with sub-ledger"
// @Failure 500 {object} map[string]string "Failed to reconcile balances"
// @Router /reconciliation/students [get]
func (h *reconciliationHandler) reconcileStudents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reconciliationService.ReconcileStudentBalances(c.Request.Context())
	if err != nil {
		var mismatch *apperrors.ReconciliationMismatchError
		if errors.As(err, &mismatch) && report != nil {
			logger.Warn("Sub-ledger reconciliation mismatch",
				slog.String("controlAccountCode", mismatch.ControlAccountCode),
				slog.Int64("controlBalanceMinor", mismatch.ControlBalanceMinor),
				slog.Int64("subLedgerNetMinor", mismatch.SubLedgerNetMinor),
				slog.Int64("discrepancyMinor", mismatch.DiscrepancyMinor()),
			)
			c.JSON(http.StatusConflict, gin.H{
				"error":            mismatch.Error(),
				"discrepancyMinor": mismatch.DiscrepancyMinor(),
				"report":           dto.ToReconciliationResponse(report),
			})
			return
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Control account not found"})
			return
		}
		logger.Error("Failed to reconcile student balances", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile student balances"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(report))
}

// upsertSubLedger godoc
// @Summary Apply an enrollment status feed row
// @Description Creates or updates a student sub-ledger row. The opening balance is honored only on first creation; thereafter only posted transactions move it.
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   studentID path string true "Student ID"
// @Param   enrollmentID path string true "Enrollment ID"
// @Param   row body dto.UpsertSubLedgerRequest true "Enrollment feed row"
// @Success 200 {object} dto.SubLedgerResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Failed to upsert sub-ledger row"
// @Router /subledger/{studentID}/{enrollmentID} [put]
func (h *reconciliationHandler) upsertSubLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")
	enrollmentID := c.Param("enrollmentID")

	var req dto.UpsertSubLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for upsertSubLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := middleware.GetActorFromContext(c)

	row, err := h.reconciliationService.UpsertSubLedger(c.Request.Context(), studentID, enrollmentID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to upsert sub-ledger row", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upsert sub-ledger row"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSubLedgerResponse(row))
}
