package reports

import (
	"time"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/chart"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
)

// AccountBalance aggregates one account's ledger activity for a period:
// opening balance before the period, movement inside it.
type AccountBalance struct {
	AccountID int64
	Code      string
	Name      string
	Type      chart.AccountType
	Kind      chart.AccountKind
	Opening   float64
	Debit     float64
	Credit    float64
}

// Closing is the signed balance at period end, debits positive.
func (a AccountBalance) Closing() float64 {
	return a.Opening + a.Debit - a.Credit
}

// Presented flips the closing balance onto the account's normal side, so
// liabilities, equity, and revenue read as positive magnitudes.
func (a AccountBalance) Presented() float64 {
	account := chart.Account{Type: a.Type, Kind: a.Kind}
	if account.NormalSide() == chart.SideCredit {
		return -a.Closing()
	}
	return a.Closing()
}

// AgingRow is one subsidiary ledger row feeding the aging report.
type AgingRow struct {
	SubjectID   int64
	SubjectName string
	Date        time.Time
	Debit       float64
	Credit      float64
}

// CashRow is one cash or bank ledger row feeding the cash flow report.
type CashRow struct {
	ReferenceType string
	Debit         float64
	Credit        float64
}

// Period bounds a report. From is inclusive, To is inclusive at day level.
type Period struct {
	From time.Time
	To   time.Time
}

// SubjectKind aliases the posting-side kind for report parameters.
type SubjectKind = posting.SubjectKind
