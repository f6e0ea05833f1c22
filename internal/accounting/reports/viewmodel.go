package reports

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with thousands separators at two decimals.
func FormatAmount(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// StatementViewModel is the presentation wrapper around a full statement run:
// raw report structures plus pre-formatted headline figures.
type StatementViewModel struct {
	PeriodLabel   string        `json:"period_label"`
	GeneratedAt   time.Time     `json:"generated_at"`
	TrialBalance  TrialBalance  `json:"trial_balance"`
	ProfitAndLoss ProfitAndLoss `json:"profit_and_loss"`
	BalanceSheet  BalanceSheet  `json:"balance_sheet"`
	CashFlow      CashFlow      `json:"cash_flow"`

	NetIncomeDisplay   string `json:"net_income_display"`
	TotalAssetsDisplay string `json:"total_assets_display"`
	NetCashDisplay     string `json:"net_cash_display"`
}

// NewStatementViewModel assembles the wrapper with formatted headline totals.
func NewStatementViewModel(period Period, generatedAt time.Time, tb TrialBalance, pl ProfitAndLoss, bs BalanceSheet, cf CashFlow) StatementViewModel {
	return StatementViewModel{
		PeriodLabel:        period.From.Format("2006-01-02") + " to " + period.To.Format("2006-01-02"),
		GeneratedAt:        generatedAt,
		TrialBalance:       tb,
		ProfitAndLoss:      pl,
		BalanceSheet:       bs,
		CashFlow:           cf,
		NetIncomeDisplay:   FormatAmount(pl.NetIncome),
		TotalAssetsDisplay: FormatAmount(bs.Assets.Total),
		NetCashDisplay:     FormatAmount(cf.Net),
	}
}
