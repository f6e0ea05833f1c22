package reports

import (
	"sort"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/tax"
)

// CashFlowLine sums cash and bank movement for one business event type.
type CashFlowLine struct {
	ReferenceType string  `json:"reference_type"`
	Inflow        float64 `json:"inflow"`
	Outflow       float64 `json:"outflow"`
	Net           float64 `json:"net"`
}

// CashFlow groups period cash and bank activity by what caused it.
type CashFlow struct {
	Lines        []CashFlowLine `json:"lines"`
	TotalInflow  float64        `json:"total_inflow"`
	TotalOutflow float64        `json:"total_outflow"`
	Net          float64        `json:"net"`
}

// BuildCashFlow aggregates cash-account ledger rows per reference type.
// Debits to a cash account are inflows.
func BuildCashFlow(rows []CashRow) CashFlow {
	byRef := make(map[string]*CashFlowLine)
	for _, row := range rows {
		line, ok := byRef[row.ReferenceType]
		if !ok {
			line = &CashFlowLine{ReferenceType: row.ReferenceType}
			byRef[row.ReferenceType] = line
		}
		line.Inflow = tax.Round(line.Inflow + row.Debit)
		line.Outflow = tax.Round(line.Outflow + row.Credit)
	}

	var result CashFlow
	for _, line := range byRef {
		line.Net = tax.Round(line.Inflow - line.Outflow)
		result.Lines = append(result.Lines, *line)
		result.TotalInflow = tax.Round(result.TotalInflow + line.Inflow)
		result.TotalOutflow = tax.Round(result.TotalOutflow + line.Outflow)
	}
	sort.Slice(result.Lines, func(i, j int) bool { return result.Lines[i].ReferenceType < result.Lines[j].ReferenceType })
	result.Net = tax.Round(result.TotalInflow - result.TotalOutflow)
	return result
}
