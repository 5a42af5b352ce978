package dto

import (
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	"github.com/casafin/boarding_ledger_app/internal/utils"
)

// TrialBalanceRowResponse represents one row of the trial balance response.
type TrialBalanceRowResponse struct {
	AccountCode string `json:"accountCode"`
	AccountName string `json:"accountName"`
	AccountType string `json:"accountType"`
	DebitMinor  int64  `json:"debitMinor"`
	CreditMinor int64  `json:"creditMinor"`
}

// TrialBalanceResponse represents the trial balance report response.
type TrialBalanceResponse struct {
	AsOf         string                    `json:"asOf"`
	CurrencyCode string                    `json:"currencyCode"`
	Rows         []TrialBalanceRowResponse `json:"rows"`
	Totals       struct {
		DebitMinor  int64 `json:"debitMinor"`
		CreditMinor int64 `json:"creditMinor"`
	} `json:"totals"`
}

// AccountAmountResponse represents an account with its net amount in a report.
type AccountAmountResponse struct {
	AccountCode string `json:"accountCode"`
	Name        string `json:"name"`
	NetMinor    int64  `json:"netMinor"`
	Display     string `json:"display,omitempty"`
}

// IncomeStatementResponse represents the income statement report response.
type IncomeStatementResponse struct {
	FromDate     string                  `json:"fromDate"`
	ToDate       string                  `json:"toDate"`
	CurrencyCode string                  `json:"currencyCode"`
	Revenue      []AccountAmountResponse `json:"revenue"`
	Expenses     []AccountAmountResponse `json:"expenses"`
	Summary      struct {
		TotalRevenueMinor  int64 `json:"totalRevenueMinor"`
		TotalExpensesMinor int64 `json:"totalExpensesMinor"`
		NetIncomeMinor     int64 `json:"netIncomeMinor"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response.
type BalanceSheetResponse struct {
	AsOf         string                  `json:"asOf"`
	CurrencyCode string                  `json:"currencyCode"`
	Assets       []AccountAmountResponse `json:"assets"`
	Liabilities  []AccountAmountResponse `json:"liabilities"`
	Equity       []AccountAmountResponse `json:"equity"`
	Summary      struct {
		TotalAssetsMinor               int64 `json:"totalAssetsMinor"`
		TotalLiabilitiesMinor          int64 `json:"totalLiabilitiesMinor"`
		TotalEquityMinor               int64 `json:"totalEquityMinor"`
		NetIncomeMinor                 int64 `json:"netIncomeMinor"`
		TotalLiabilitiesAndEquityMinor int64 `json:"totalLiabilitiesAndEquityMinor"`
	} `json:"summary"`
	IsBalanced bool `json:"isBalanced"`
}

// BalanceVerificationResponse reports cache-vs-journal drift per account.
type BalanceVerificationResponse struct {
	Consistent bool                            `json:"consistent"`
	Drift      []domain.BalanceVerificationRow `json:"drift"`
}

const reportDateLayout = "2006-01-02"

// ToTrialBalanceResponse converts a domain trial balance to its response DTO.
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:         report.AsOf.Format(reportDateLayout),
		CurrencyCode: report.CurrencyCode,
		Rows:         make([]TrialBalanceRowResponse, len(report.Rows)),
	}
	for i, row := range report.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			DebitMinor:  row.DebitMinor,
			CreditMinor: row.CreditMinor,
		}
	}
	response.Totals.DebitMinor = report.TotalDebitMinor
	response.Totals.CreditMinor = report.TotalCreditMinor
	return response
}

func toAccountAmountResponses(amounts []domain.AccountAmount, precision int) []AccountAmountResponse {
	res := make([]AccountAmountResponse, len(amounts))
	for i, a := range amounts {
		res[i] = AccountAmountResponse{
			AccountCode: a.AccountCode,
			Name:        a.Name,
			NetMinor:    a.NetMinor,
			Display:     utils.FormatMinorUnits(a.NetMinor, precision),
		}
	}
	return res
}

// ToIncomeStatementResponse converts a domain income statement to its
// response DTO, formatting display amounts with the currency precision.
func ToIncomeStatementResponse(report *domain.IncomeStatementReport, precision int) IncomeStatementResponse {
	response := IncomeStatementResponse{
		FromDate:     report.FromDate.Format(reportDateLayout),
		ToDate:       report.ToDate.Format(reportDateLayout),
		CurrencyCode: report.CurrencyCode,
		Revenue:      toAccountAmountResponses(report.Revenue, precision),
		Expenses:     toAccountAmountResponses(report.Expenses, precision),
	}
	response.Summary.TotalRevenueMinor = report.TotalRevenueMinor
	response.Summary.TotalExpensesMinor = report.TotalExpensesMinor
	response.Summary.NetIncomeMinor = report.NetIncomeMinor
	return response
}

// ToBalanceSheetResponse converts a domain balance sheet to its response DTO.
func ToBalanceSheetResponse(report *domain.BalanceSheetReport, precision int) BalanceSheetResponse {
	response := BalanceSheetResponse{
		AsOf:         report.AsOf.Format(reportDateLayout),
		CurrencyCode: report.CurrencyCode,
		Assets:       toAccountAmountResponses(report.Assets, precision),
		Liabilities:  toAccountAmountResponses(report.Liabilities, precision),
		Equity:       toAccountAmountResponses(report.Equity, precision),
		IsBalanced:   report.IsBalanced,
	}
	response.Summary.TotalAssetsMinor = report.TotalAssetsMinor
	response.Summary.TotalLiabilitiesMinor = report.TotalLiabilitiesMinor
	response.Summary.TotalEquityMinor = report.TotalEquityMinor
	response.Summary.NetIncomeMinor = report.NetIncomeMinor
	response.Summary.TotalLiabilitiesAndEquityMinor = report.TotalLiabilitiesAndEquityMinor
	return response
}
