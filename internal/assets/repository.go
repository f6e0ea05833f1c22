package assets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/db"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
)

// Repository persists the fixed asset register.
type Repository interface {
	Register(ctx context.Context, input RegisterInput) (Asset, error)
	Get(ctx context.Context, id int64) (Asset, error)
	List(ctx context.Context) ([]Asset, error)
	// WithTx runs a depreciation run's register updates and its ledger posting
	// in one transaction.
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the register operations of one depreciation run.
type TxRepository interface {
	// ListActiveForUpdate locks and returns the active register so concurrent
	// runs cannot double-charge an asset.
	ListActiveForUpdate(ctx context.Context) ([]Asset, error)
	ApplyCharge(ctx context.Context, assetID int64, amount float64) error
	// Posting returns the ledger write surface bound to the same transaction.
	Posting() posting.Tx
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const assetColumns = `id, name, description, acquired_on, cost, residual_value, useful_life_months, accumulated_depreciation, is_active, created_at, updated_at`

func (r *repository) Register(ctx context.Context, input RegisterInput) (Asset, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO fixed_assets (name, description, acquired_on, cost, residual_value, useful_life_months)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING `+assetColumns,
		input.Name, input.Description, input.AcquiredOn, toNumeric(input.Cost), toNumeric(input.ResidualValue), input.UsefulLifeMonths)
	return scanAsset(row)
}

func (r *repository) Get(ctx context.Context, id int64) (Asset, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+assetColumns+` FROM fixed_assets WHERE id=$1`, id)
	asset, err := scanAsset(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Asset{}, fmt.Errorf("asset %d: %w", id, httpx.ErrNotFound)
	}
	return asset, err
}

func (r *repository) List(ctx context.Context) ([]Asset, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+assetColumns+` FROM fixed_assets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectAssets(rows)
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) ListActiveForUpdate(ctx context.Context) ([]Asset, error) {
	rows, err := r.tx.Query(ctx, `SELECT `+assetColumns+` FROM fixed_assets WHERE is_active ORDER BY id FOR UPDATE`)
	if err != nil {
		return nil, err
	}
	return collectAssets(rows)
}

func (r *txRepository) ApplyCharge(ctx context.Context, assetID int64, amount float64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE fixed_assets
SET accumulated_depreciation = accumulated_depreciation + $2, updated_at = NOW()
WHERE id=$1`, assetID, toNumeric(amount))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("asset %d: %w", assetID, httpx.ErrNotFound)
	}
	return nil
}

func (r *txRepository) Posting() posting.Tx {
	return posting.NewTx(r.tx)
}

func scanAsset(row pgx.Row) (Asset, error) {
	var a Asset
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.AcquiredOn, &a.Cost, &a.ResidualValue,
		&a.UsefulLifeMonths, &a.AccumulatedDepreciation, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func collectAssets(rows pgx.Rows) ([]Asset, error) {
	defer rows.Close()
	var out []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.AcquiredOn, &a.Cost, &a.ResidualValue,
			&a.UsefulLifeMonths, &a.AccumulatedDepreciation, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func toNumeric(v float64) any {
	return fmt.Sprintf("%.2f", v)
}
