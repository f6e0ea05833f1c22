package reports

import (
	"sort"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/tax"
)

// TrialBalanceRow is one account's line in the trial balance.
type TrialBalanceRow struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Opening float64 `json:"opening"`
	Debit   float64 `json:"debit"`
	Credit  float64 `json:"credit"`
	Closing float64 `json:"closing"`
}

// TrialBalance lists every account with period movement and totals. A ledger
// that satisfies the balanced-entry invariant yields equal debit and credit
// totals here.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  float64           `json:"total_debit"`
	TotalCredit float64           `json:"total_credit"`
	Balanced    bool              `json:"balanced"`
}

// BuildTrialBalance lists accounts with activity or a non-zero balance,
// ordered by code.
func BuildTrialBalance(accounts []AccountBalance) TrialBalance {
	var result TrialBalance
	for _, acc := range accounts {
		if acc.Opening == 0 && acc.Debit == 0 && acc.Credit == 0 {
			continue
		}
		result.Rows = append(result.Rows, TrialBalanceRow{
			Code:    acc.Code,
			Name:    acc.Name,
			Opening: acc.Opening,
			Debit:   acc.Debit,
			Credit:  acc.Credit,
			Closing: acc.Closing(),
		})
		result.TotalDebit = tax.Round(result.TotalDebit + acc.Debit)
		result.TotalCredit = tax.Round(result.TotalCredit + acc.Credit)
	}
	sort.Slice(result.Rows, func(i, j int) bool { return result.Rows[i].Code < result.Rows[j].Code })
	result.Balanced = tax.Equal(result.TotalDebit, result.TotalCredit)
	return result
}
