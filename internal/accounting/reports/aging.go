package reports

import (
	"sort"
	"time"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/tax"
)

// AgingBuckets splits an outstanding balance by days since transaction date.
type AgingBuckets struct {
	Current    float64 `json:"current"`
	Days1To30  float64 `json:"days_1_30"`
	Days31To60 float64 `json:"days_31_60"`
	Days61To90 float64 `json:"days_61_90"`
	Over90     float64 `json:"over_90"`
}

func (b *AgingBuckets) add(days int, amount float64) {
	switch {
	case days <= 0:
		b.Current = tax.Round(b.Current + amount)
	case days <= 30:
		b.Days1To30 = tax.Round(b.Days1To30 + amount)
	case days <= 60:
		b.Days31To60 = tax.Round(b.Days31To60 + amount)
	case days <= 90:
		b.Days61To90 = tax.Round(b.Days61To90 + amount)
	default:
		b.Over90 = tax.Round(b.Over90 + amount)
	}
}

// AgingLine is one counterparty's bucketed outstanding balance.
type AgingLine struct {
	SubjectID   int64        `json:"subject_id"`
	SubjectName string       `json:"subject_name"`
	Buckets     AgingBuckets `json:"buckets"`
	Total       float64      `json:"total"`
}

// Aging is the bucketed outstanding-balance report for one counterparty kind.
type Aging struct {
	Kind  SubjectKind  `json:"kind"`
	AsOf  time.Time    `json:"as_of"`
	Lines []AgingLine  `json:"lines"`
	Total AgingBuckets `json:"total"`
}

// BuildAging buckets each subsidiary row by asOf minus row date. Client
// balances are debit-normal, supplier balances credit-normal, so the signed
// amount per row flips by kind. Counterparties whose total is not positive
// are omitted.
func BuildAging(kind SubjectKind, asOf time.Time, rows []AgingRow) Aging {
	type acc struct {
		name    string
		buckets AgingBuckets
		total   float64
	}
	bySubject := make(map[int64]*acc)
	order := make([]int64, 0)
	for _, row := range rows {
		amount := row.Debit - row.Credit
		if kind == posting.SubjectSupplier {
			amount = -amount
		}
		a, ok := bySubject[row.SubjectID]
		if !ok {
			a = &acc{name: row.SubjectName}
			bySubject[row.SubjectID] = a
			order = append(order, row.SubjectID)
		}
		a.buckets.add(daysBetween(row.Date, asOf), amount)
		a.total = tax.Round(a.total + amount)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	report := Aging{Kind: kind, AsOf: asOf}
	for _, id := range order {
		a := bySubject[id]
		if a.total <= 0 {
			continue
		}
		report.Lines = append(report.Lines, AgingLine{
			SubjectID:   id,
			SubjectName: a.name,
			Buckets:     a.buckets,
			Total:       a.total,
		})
		report.Total.Current = tax.Round(report.Total.Current + a.buckets.Current)
		report.Total.Days1To30 = tax.Round(report.Total.Days1To30 + a.buckets.Days1To30)
		report.Total.Days31To60 = tax.Round(report.Total.Days31To60 + a.buckets.Days31To60)
		report.Total.Days61To90 = tax.Round(report.Total.Days61To90 + a.buckets.Days61To90)
		report.Total.Over90 = tax.Round(report.Total.Over90 + a.buckets.Over90)
	}
	return report
}

// daysBetween counts whole calendar days from a row date to the report date,
// ignoring clock time.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
