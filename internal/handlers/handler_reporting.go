package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	portssvc "github.com/casafin/boarding_ledger_app/internal/core/ports/services"
	"github.com/casafin/boarding_ledger_app/internal/dto"
	"github.com/casafin/boarding_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// defaultReportPrecision is used when the reporting currency is not present
// in the registry, which only happens on a freshly migrated database.
const defaultReportPrecision = 2

// reportingHandler handles HTTP requests for financial reports and ledger
// health checks.
type reportingHandler struct {
	reportingService  portssvc.ReportingService
	balanceService    portssvc.BalanceSvcFacade
	currencyService   portssvc.CurrencySvcFacade
	reportingCurrency string
}

// registerReportingRoutes registers routes for reports and ledger verification.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, balanceService portssvc.BalanceSvcFacade, currencyService portssvc.CurrencySvcFacade, reportingCurrency string) {
	h := &reportingHandler{
		reportingService:  reportingService,
		balanceService:    balanceService,
		currencyService:   currencyService,
		reportingCurrency: reportingCurrency,
	}

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/balance-sheet", h.getBalanceSheet)
	}

	rg.GET("/ledger/verify", h.verifyLedger)
}

// reportPrecision resolves the minor-unit precision of the reporting currency.
func (h *reportingHandler) reportPrecision(c *gin.Context) int {
	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), h.reportingCurrency)
	if err != nil {
		return defaultReportPrecision
	}
	return currency.Precision
}

// mapReportError translates report generation failures to HTTP statuses. A
// ledger that fails the fundamental identity check is a data integrity
// incident, surfaced as 409 with the measured discrepancy.
func mapReportError(c *gin.Context, logger *slog.Logger, err error, failMsg string) {
	var imbalance *apperrors.LedgerImbalanceError
	switch {
	case errors.As(err, &imbalance):
		logger.Error("Ledger identity check failed",
			slog.Int64("totalAssetsMinor", imbalance.TotalAssetsMinor),
			slog.Int64("totalLiabilitiesAndEquityMinor", imbalance.TotalLiabilitiesAndEquityMinor),
			slog.Int64("discrepancyMinor", imbalance.DiscrepancyMinor()),
		)
		c.JSON(http.StatusConflict, gin.H{
			"error":                          "Ledger is out of balance; report refused",
			"totalAssetsMinor":               imbalance.TotalAssetsMinor,
			"totalLiabilitiesAndEquityMinor": imbalance.TotalLiabilitiesAndEquityMinor,
			"discrepancyMinor":               imbalance.DiscrepancyMinor(),
		})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(failMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
	}
}

// parseAsOf reads an optional asOf query parameter, defaulting to now.
func parseAsOf(c *gin.Context) (time.Time, bool) {
	raw := c.Query("asOf")
	if raw == "" {
		return time.Now().UTC(), true
	}
	parsed, err := parseFlexibleTime(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date: " + raw})
		return time.Time{}, false
	}
	return parsed, true
}

// getTrialBalance godoc
// @Summary Generate a trial balance
// @Description Lists every account with activity in debit/credit columns as of a date
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Report date (RFC 3339 or YYYY-MM-DD, default now)"
// @Param   boardingHouseID query string false "Scope to one boarding house"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 409 {object} map[string]string "Ledger is out of balance"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), c.Query("boardingHouseID"), asOf)
	if err != nil {
		mapReportError(c, logger, err, "Failed to generate trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getIncomeStatement godoc
// @Summary Generate an income statement
// @Description Nets revenue and expenses over a period
// @Tags reports
// @Produce  json
// @Param   fromDate query string true "Period start (RFC 3339 or YYYY-MM-DD)"
// @Param   toDate query string true "Period end (RFC 3339 or YYYY-MM-DD)"
// @Param   boardingHouseID query string false "Scope to one boarding house"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} map[string]string "Invalid or inverted period"
// @Failure 409 {object} map[string]string "Ledger is out of balance"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, err := parseFlexibleTime(c.Query("fromDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fromDate: " + c.Query("fromDate")})
		return
	}
	to, err := parseFlexibleTime(c.Query("toDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid toDate: " + c.Query("toDate")})
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), c.Query("boardingHouseID"), from, to)
	if err != nil {
		mapReportError(c, logger, err, "Failed to generate income statement")
		return
	}

	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(report, h.reportPrecision(c)))
}

// getBalanceSheet godoc
// @Summary Generate a balance sheet
// @Description Groups balances into assets, liabilities and equity as of a date
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Report date (RFC 3339 or YYYY-MM-DD, default now)"
// @Param   boardingHouseID query string false "Scope to one boarding house"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 409 {object} map[string]string "Ledger is out of balance"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), c.Query("boardingHouseID"), asOf)
	if err != nil {
		mapReportError(c, logger, err, "Failed to generate balance sheet")
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report, h.reportPrecision(c)))
}

// verifyLedger godoc
// @Summary Verify cached balances against the journal
// @Description Recomputes every account balance from posted entries and reports drift
// @Tags reports
// @Produce  json
// @Success 200 {object} dto.BalanceVerificationResponse
// @Failure 500 {object} map[string]string "Failed to verify balances"
// @Router /ledger/verify [get]
func (h *reportingHandler) verifyLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	drift, err := h.balanceService.VerifyBalances(c.Request.Context())
	if err != nil {
		logger.Error("Failed to verify balances", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify balances"})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceVerificationResponse{
		Consistent: len(drift) == 0,
		Drift:      drift,
	})
}
