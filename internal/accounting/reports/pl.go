package reports

import (
	"sort"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/chart"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/tax"
)

// StatementLine is one labelled amount on a financial statement.
type StatementLine struct {
	Code   string  `json:"code,omitempty"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// StatementSection groups statement lines under a heading with a total.
type StatementSection struct {
	Label string          `json:"label"`
	Lines []StatementLine `json:"lines"`
	Total float64         `json:"total"`
}

func (s *StatementSection) add(line StatementLine) {
	s.Lines = append(s.Lines, line)
	s.Total = tax.Round(s.Total + line.Amount)
}

func (s *StatementSection) sortByCode() {
	sort.Slice(s.Lines, func(i, j int) bool { return s.Lines[i].Code < s.Lines[j].Code })
}

// ProfitAndLoss is revenue against expenses for a period.
type ProfitAndLoss struct {
	Revenue   StatementSection `json:"revenue"`
	Expenses  StatementSection `json:"expenses"`
	NetIncome float64          `json:"net_income"`
}

// BuildProfitAndLoss aggregates revenue and expense accounts on their normal
// sides. Period movement only; the opening balance of a revenue or expense
// account belongs to prior periods.
func BuildProfitAndLoss(accounts []AccountBalance) ProfitAndLoss {
	revenue := StatementSection{Label: "Revenue"}
	expenses := StatementSection{Label: "Expenses"}

	for _, acc := range accounts {
		movement := tax.Round(acc.Debit - acc.Credit)
		if movement == 0 {
			continue
		}
		switch acc.Type {
		case chart.AccountTypeRevenue:
			revenue.add(StatementLine{Code: acc.Code, Label: acc.Name, Amount: -movement})
		case chart.AccountTypeExpense:
			expenses.add(StatementLine{Code: acc.Code, Label: acc.Name, Amount: movement})
		}
	}
	revenue.sortByCode()
	expenses.sortByCode()

	return ProfitAndLoss{
		Revenue:   revenue,
		Expenses:  expenses,
		NetIncome: tax.Round(revenue.Total - expenses.Total),
	}
}
