package masterdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/shared"
)

type Repository interface {
	Create(ctx context.Context, kind posting.SubjectKind, input CreateInput) (Counterparty, error)
	Get(ctx context.Context, kind posting.SubjectKind, id int64) (Counterparty, error)
	List(ctx context.Context, kind posting.SubjectKind) ([]Counterparty, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func tableFor(kind posting.SubjectKind) (string, error) {
	switch kind {
	case posting.SubjectClient:
		return "customers", nil
	case posting.SubjectSupplier:
		return "suppliers", nil
	default:
		return "", fmt.Errorf("masterdata: unknown counterparty kind %q", kind)
	}
}

func (r *repository) Create(ctx context.Context, kind posting.SubjectKind, input CreateInput) (Counterparty, error) {
	table, err := tableFor(kind)
	if err != nil {
		return Counterparty{}, err
	}
	cp := Counterparty{Kind: kind, Name: input.Name, Phone: input.Phone, Email: input.Email, IsActive: true}
	err = r.db.QueryRow(ctx, `INSERT INTO `+table+` (name, phone, email, balance, is_active)
VALUES ($1,$2,$3,0,true) RETURNING id, created_at, updated_at`, input.Name, input.Phone, input.Email).
		Scan(&cp.ID, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		return Counterparty{}, err
	}
	return cp, nil
}

func (r *repository) Get(ctx context.Context, kind posting.SubjectKind, id int64) (Counterparty, error) {
	table, err := tableFor(kind)
	if err != nil {
		return Counterparty{}, err
	}
	cp := Counterparty{Kind: kind}
	err = r.db.QueryRow(ctx, `SELECT id, name, phone, email, balance, is_active, created_at, updated_at
FROM `+table+` WHERE id=$1`, id).
		Scan(&cp.ID, &cp.Name, &cp.Phone, &cp.Email, &cp.Balance, &cp.IsActive, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Counterparty{}, fmt.Errorf("%w: %s %d", shared.ErrCounterpartyNotFound, kind, id)
		}
		return Counterparty{}, err
	}
	return cp, nil
}

func (r *repository) List(ctx context.Context, kind posting.SubjectKind) ([]Counterparty, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, name, phone, email, balance, is_active, created_at, updated_at
FROM `+table+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Counterparty
	for rows.Next() {
		cp := Counterparty{Kind: kind}
		if err := rows.Scan(&cp.ID, &cp.Name, &cp.Phone, &cp.Email, &cp.Balance, &cp.IsActive, &cp.CreatedAt, &cp.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}
