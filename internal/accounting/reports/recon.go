package reports

import "github.com/tillpoint-erp/tillpoint-erp/internal/accounting/tax"

// ControlComparison compares a control account against the sum of its
// subsidiary ledger, both as positive magnitudes.
type ControlComparison struct {
	ControlBalance  float64 `json:"control_balance"`
	SubsidiaryTotal float64 `json:"subsidiary_total"`
	Difference      float64 `json:"difference"`
	InSync          bool    `json:"in_sync"`
}

// Reconciliation reports how the AR and AP control accounts compare with the
// client and supplier subsidiary ledgers. It is a read-only view: postings
// never consult it, and a transient difference between the two sides is a
// finding, not an error.
type Reconciliation struct {
	Receivables ControlComparison `json:"receivables"`
	Payables    ControlComparison `json:"payables"`
}

func compare(control, subsidiary float64) ControlComparison {
	diff := tax.Round(control - subsidiary)
	return ControlComparison{
		ControlBalance:  tax.Round(control),
		SubsidiaryTotal: tax.Round(subsidiary),
		Difference:      diff,
		InSync:          diff == 0,
	}
}

// BuildReconciliation takes the signed closing balance of each control
// account (debits positive) and the signed sum of each subsidiary ledger, and
// normalises both onto the side the book is kept on: receivables debit,
// payables credit.
func BuildReconciliation(arControl, clientLedgerTotal, apControl, supplierLedgerTotal float64) Reconciliation {
	return Reconciliation{
		Receivables: compare(arControl, clientLedgerTotal),
		Payables:    compare(-apControl, -supplierLedgerTotal),
	}
}
