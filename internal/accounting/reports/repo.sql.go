package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
)

// Repository serves the read-only aggregation queries behind every report.
// All queries run at pool level: reports never join a posting transaction.
type Repository interface {
	AccountBalances(ctx context.Context, period Period) ([]AccountBalance, error)
	SubsidiaryRows(ctx context.Context, kind SubjectKind, asOf time.Time) ([]AgingRow, error)
	SubsidiaryTotal(ctx context.Context, kind SubjectKind, asOf time.Time) (float64, error)
	CashRows(ctx context.Context, period Period) ([]CashRow, error)
	InventoryValue(ctx context.Context, asOf time.Time) (float64, error)
	FixedAssetNetBookValue(ctx context.Context) (float64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// AccountBalances returns opening balance and period movement per account.
// Accounts with no activity at all still appear, with zeros, so statement
// builders see the full chart.
func (r *repository) AccountBalances(ctx context.Context, period Period) ([]AccountBalance, error) {
	rows, err := r.pool.Query(ctx, `SELECT a.id, a.code, a.name, a.type, a.kind,
  COALESCE(SUM(l.debit - l.credit) FILTER (WHERE l.date < $1), 0) AS opening,
  COALESCE(SUM(l.debit) FILTER (WHERE l.date >= $1 AND l.date <= $2), 0) AS debit,
  COALESCE(SUM(l.credit) FILTER (WHERE l.date >= $1 AND l.date <= $2), 0) AS credit
FROM accounts a
LEFT JOIN account_ledger l ON l.account_id = a.id
GROUP BY a.id, a.code, a.name, a.type, a.kind
ORDER BY a.code`, period.From, period.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountBalance
	for rows.Next() {
		var b AccountBalance
		if err := rows.Scan(&b.AccountID, &b.Code, &b.Name, &b.Type, &b.Kind, &b.Opening, &b.Debit, &b.Credit); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SubsidiaryRows returns every subsidiary ledger row up to asOf for one
// counterparty kind, with the counterparty name for presentation.
func (r *repository) SubsidiaryRows(ctx context.Context, kind SubjectKind, asOf time.Time) ([]AgingRow, error) {
	table := "customers"
	if kind == posting.SubjectSupplier {
		table = "suppliers"
	}
	rows, err := r.pool.Query(ctx, `SELECT s.subject_id, c.name, s.date, s.debit, s.credit
FROM subsidiary_ledger s
JOIN `+table+` c ON c.id = s.subject_id
WHERE s.subject_kind = $1 AND s.date <= $2
ORDER BY s.subject_id, s.date, s.id`, kind, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AgingRow
	for rows.Next() {
		var row AgingRow
		if err := rows.Scan(&row.SubjectID, &row.SubjectName, &row.Date, &row.Debit, &row.Credit); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SubsidiaryTotal sums one subsidiary ledger, debits positive.
func (r *repository) SubsidiaryTotal(ctx context.Context, kind SubjectKind, asOf time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(debit - credit), 0)
FROM subsidiary_ledger WHERE subject_kind = $1 AND date <= $2`, kind, asOf).Scan(&total)
	return total, err
}

// CashRows returns ledger rows of cash and bank accounts within the period.
func (r *repository) CashRows(ctx context.Context, period Period) ([]CashRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT l.reference_type, l.debit, l.credit
FROM account_ledger l
JOIN accounts a ON a.id = l.account_id
WHERE a.kind IN ('CASH','BANK') AND l.date >= $1 AND l.date <= $2
ORDER BY l.date, l.id`, period.From, period.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CashRow
	for rows.Next() {
		var row CashRow
		if err := rows.Scan(&row.ReferenceType, &row.Debit, &row.Credit); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// InventoryValue is the inventory control account balance at asOf, used as
// the store-inventory memo line on the balance sheet.
func (r *repository) InventoryValue(ctx context.Context, asOf time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(l.debit - l.credit), 0)
FROM account_ledger l JOIN accounts a ON a.id = l.account_id
WHERE a.kind = 'INVENTORY' AND l.date <= $1`, asOf).Scan(&total)
	return total, err
}

// FixedAssetNetBookValue sums cost less accumulated depreciation over the
// active asset register.
func (r *repository) FixedAssetNetBookValue(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(cost - accumulated_depreciation), 0)
FROM fixed_assets WHERE is_active`).Scan(&total)
	return total, err
}
