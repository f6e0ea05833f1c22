package reports

import (
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/chart"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/tax"
)

// BalanceSheetMemo carries valuation lines that are not accounts themselves
// but belong on the statement: register-derived fixed asset value, the store
// inventory valuation, and payables as seen by the supplier ledger. They are
// presentation only and excluded from the balancing totals.
type BalanceSheetMemo struct {
	FixedAssetNetBookValue float64 `json:"fixed_asset_net_book_value"`
	StoreInventoryValue    float64 `json:"store_inventory_value"`
	SupplierLedgerPayables float64 `json:"supplier_ledger_payables"`
}

// BalanceSheet presents assets against liabilities and equity at a date.
// Current-period earnings are folded into equity so the statement balances
// without a closing entry.
type BalanceSheet struct {
	Assets      StatementSection `json:"assets"`
	Liabilities StatementSection `json:"liabilities"`
	Equity      StatementSection `json:"equity"`
	Memo        BalanceSheetMemo `json:"memo"`
	Balanced    bool             `json:"balanced"`
}

// BuildBalanceSheet classifies closing balances on their normal sides and
// appends retained earnings computed from the revenue and expense accounts.
func BuildBalanceSheet(accounts []AccountBalance, memo BalanceSheetMemo) BalanceSheet {
	assets := StatementSection{Label: "Assets"}
	liabilities := StatementSection{Label: "Liabilities"}
	equity := StatementSection{Label: "Equity"}

	var earnings float64
	for _, acc := range accounts {
		closing := acc.Closing()
		if closing == 0 {
			continue
		}
		switch acc.Type {
		case chart.AccountTypeAsset:
			assets.add(StatementLine{Code: acc.Code, Label: acc.Name, Amount: acc.Presented()})
		case chart.AccountTypeLiability:
			liabilities.add(StatementLine{Code: acc.Code, Label: acc.Name, Amount: acc.Presented()})
		case chart.AccountTypeEquity:
			equity.add(StatementLine{Code: acc.Code, Label: acc.Name, Amount: acc.Presented()})
		case chart.AccountTypeRevenue, chart.AccountTypeExpense:
			earnings = tax.Round(earnings - closing)
		}
	}
	assets.sortByCode()
	liabilities.sortByCode()
	equity.sortByCode()
	if earnings != 0 {
		equity.add(StatementLine{Label: "Current Earnings", Amount: earnings})
	}

	return BalanceSheet{
		Assets:      assets,
		Liabilities: liabilities,
		Equity:      equity,
		Memo:        memo,
		Balanced:    tax.Equal(assets.Total, liabilities.Total+equity.Total),
	}
}
