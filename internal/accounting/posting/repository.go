package posting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/shared"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/db"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
)

// Repository encapsulates DB operations for the posting engine.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Tx) error) error
	GetEntry(ctx context.Context, entryID int64) (JournalEntry, error)
	SetCounterpartyBalance(ctx context.Context, kind SubjectKind, subjectID int64, balance float64) error
}

// Tx exposes the operations available within one posting transaction.
type Tx interface {
	NextEntryNumber(ctx context.Context) (int64, error)
	InsertEntry(ctx context.Context, entry *JournalEntry) error
	InsertLines(ctx context.Context, entryID int64, lines []JournalLine) error
	AccountLedger(accountID int64) Ledger
	SubsidiaryLedger(kind SubjectKind, subjectID int64) Ledger
}

// Ledger is one running-balance sequence: either a chart account's ledger or a
// single counterparty's subsidiary ledger. Both sides share the maintenance
// algorithm, so the engine only ever talks to this interface.
type Ledger interface {
	// Lock serializes concurrent postings to the same account or subject.
	Lock(ctx context.Context) error
	// Latest returns the last row at or before the given date in (date, id)
	// order, or nil when the ledger is empty up to that point.
	Latest(ctx context.Context, onOrBefore time.Time) (*RowCore, error)
	Insert(ctx context.Context, row RowCore, entryID int64) (int64, error)
	// RowsAfter returns rows that follow (date, rowID) in (date, id) order.
	RowsAfter(ctx context.Context, date time.Time, rowID int64) ([]RowCore, error)
	UpdateBalance(ctx context.Context, rowID int64, balance float64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Tx) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

func (r *repository) GetEntry(ctx context.Context, entryID int64) (JournalEntry, error) {
	var entry JournalEntry
	err := r.pool.QueryRow(ctx, `SELECT id, entry_number, date, reference_type, reference_id, description, total_debit, total_credit, status, created_by, created_at
FROM journal_entries WHERE id=$1`, entryID).
		Scan(&entry.ID, &entry.Number, &entry.Date, &entry.ReferenceType, &entry.ReferenceID, &entry.Description, &entry.TotalDebit, &entry.TotalCredit, &entry.Status, &entry.CreatedBy, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, fmt.Errorf("journal entry %d: %w", entryID, httpx.ErrNotFound)
		}
		return JournalEntry{}, err
	}
	rows, err := r.pool.Query(ctx, `SELECT id, entry_id, account_id, debit, credit, description
FROM journal_entry_lines WHERE entry_id=$1 ORDER BY id ASC`, entryID)
	if err != nil {
		return JournalEntry{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var line JournalLine
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountID, &line.Debit, &line.Credit, &line.Description); err != nil {
			return JournalEntry{}, err
		}
		entry.Lines = append(entry.Lines, line)
	}
	return entry, rows.Err()
}

// SetCounterpartyBalance overwrites the denormalized balance column. Callers
// treat failures as non-fatal: the subsidiary ledger stays the source of truth.
func (r *repository) SetCounterpartyBalance(ctx context.Context, kind SubjectKind, subjectID int64, balance float64) error {
	table, err := counterpartyTable(kind)
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE `+table+` SET balance=$2, updated_at=NOW() WHERE id=$1`, subjectID, toNumeric(balance))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrCounterpartyNotFound
	}
	return nil
}

// NewTx wraps an open pgx transaction in the posting Tx interface so adapters
// can combine a posting with writes of their own in one transaction.
func NewTx(tx pgx.Tx) Tx {
	return &txRepository{tx: tx}
}

type txRepository struct {
	tx pgx.Tx
}

// NextEntryNumber atomically increments the journal counter. A dedicated
// sequence row keeps numbers monotonic under concurrent requests, unlike
// timestamp-derived schemes.
func (r *txRepository) NextEntryNumber(ctx context.Context) (int64, error) {
	var number int64
	err := r.tx.QueryRow(ctx, `INSERT INTO journal_sequences (name, value) VALUES ('journal_entry', 1)
ON CONFLICT (name) DO UPDATE SET value = journal_sequences.value + 1
RETURNING value`).Scan(&number)
	if err != nil {
		return 0, err
	}
	return number, nil
}

func (r *txRepository) InsertEntry(ctx context.Context, entry *JournalEntry) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (entry_number, date, reference_type, reference_id, description, total_debit, total_credit, status, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id, created_at`,
		entry.Number, entry.Date, entry.ReferenceType, entry.ReferenceID, entry.Description,
		toNumeric(entry.TotalDebit), toNumeric(entry.TotalCredit), entry.Status, nullInt(entry.CreatedBy)).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrDuplicateEntryNumber
		}
		return err
	}
	return nil
}

func (r *txRepository) InsertLines(ctx context.Context, entryID int64, lines []JournalLine) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_entry_lines (entry_id, account_id, debit, credit, description)
VALUES ($1,$2,$3,$4,$5)`, entryID, line.AccountID, toNumeric(line.Debit), toNumeric(line.Credit), line.Description); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) AccountLedger(accountID int64) Ledger {
	return &accountLedger{tx: r.tx, accountID: accountID}
}

func (r *txRepository) SubsidiaryLedger(kind SubjectKind, subjectID int64) Ledger {
	return &subsidiaryLedger{tx: r.tx, kind: kind, subjectID: subjectID}
}

type accountLedger struct {
	tx        pgx.Tx
	accountID int64
}

// Lock takes a row lock on the account so the read-compute-insert sequence
// below cannot interleave with another posting to the same account.
func (l *accountLedger) Lock(ctx context.Context) error {
	var id int64
	err := l.tx.QueryRow(ctx, `SELECT id FROM accounts WHERE id=$1 FOR UPDATE`, l.accountID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("account %d: %w", l.accountID, httpx.ErrNotFound)
		}
		return err
	}
	return nil
}

func (l *accountLedger) Latest(ctx context.Context, onOrBefore time.Time) (*RowCore, error) {
	row := l.tx.QueryRow(ctx, `SELECT id, date, description, reference_type, reference_id, debit, credit, running_balance
FROM account_ledger WHERE account_id=$1 AND date <= $2 ORDER BY date DESC, id DESC LIMIT 1`, l.accountID, onOrBefore)
	return scanRowCore(row)
}

func (l *accountLedger) Insert(ctx context.Context, row RowCore, entryID int64) (int64, error) {
	var id int64
	err := l.tx.QueryRow(ctx, `INSERT INTO account_ledger (account_id, entry_id, date, description, reference_type, reference_id, debit, credit, running_balance, status)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,'POSTED') RETURNING id`,
		l.accountID, entryID, row.Date, row.Description, row.ReferenceType, row.ReferenceID,
		toNumeric(row.Debit), toNumeric(row.Credit), toNumeric(row.RunningBalance)).Scan(&id)
	return id, err
}

func (l *accountLedger) RowsAfter(ctx context.Context, date time.Time, rowID int64) ([]RowCore, error) {
	rows, err := l.tx.Query(ctx, `SELECT id, date, description, reference_type, reference_id, debit, credit, running_balance
FROM account_ledger WHERE account_id=$1 AND (date > $2 OR (date = $2 AND id > $3)) ORDER BY date ASC, id ASC`, l.accountID, date, rowID)
	if err != nil {
		return nil, err
	}
	return collectRowCores(rows)
}

func (l *accountLedger) UpdateBalance(ctx context.Context, rowID int64, balance float64) error {
	_, err := l.tx.Exec(ctx, `UPDATE account_ledger SET running_balance=$2 WHERE id=$1`, rowID, toNumeric(balance))
	return err
}

type subsidiaryLedger struct {
	tx        pgx.Tx
	kind      SubjectKind
	subjectID int64
}

func (l *subsidiaryLedger) Lock(ctx context.Context) error {
	table, err := counterpartyTable(l.kind)
	if err != nil {
		return err
	}
	var id int64
	err = l.tx.QueryRow(ctx, `SELECT id FROM `+table+` WHERE id=$1 FOR UPDATE`, l.subjectID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s %d", shared.ErrCounterpartyNotFound, l.kind, l.subjectID)
		}
		return err
	}
	return nil
}

func (l *subsidiaryLedger) Latest(ctx context.Context, onOrBefore time.Time) (*RowCore, error) {
	row := l.tx.QueryRow(ctx, `SELECT id, date, description, reference_type, reference_id, debit, credit, running_balance
FROM subsidiary_ledger WHERE subject_kind=$1 AND subject_id=$2 AND date <= $3 ORDER BY date DESC, id DESC LIMIT 1`, l.kind, l.subjectID, onOrBefore)
	return scanRowCore(row)
}

func (l *subsidiaryLedger) Insert(ctx context.Context, row RowCore, entryID int64) (int64, error) {
	var id int64
	err := l.tx.QueryRow(ctx, `INSERT INTO subsidiary_ledger (subject_kind, subject_id, entry_id, date, description, reference_type, reference_id, debit, credit, running_balance)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id`,
		l.kind, l.subjectID, entryID, row.Date, row.Description, row.ReferenceType, row.ReferenceID,
		toNumeric(row.Debit), toNumeric(row.Credit), toNumeric(row.RunningBalance)).Scan(&id)
	return id, err
}

func (l *subsidiaryLedger) RowsAfter(ctx context.Context, date time.Time, rowID int64) ([]RowCore, error) {
	rows, err := l.tx.Query(ctx, `SELECT id, date, description, reference_type, reference_id, debit, credit, running_balance
FROM subsidiary_ledger WHERE subject_kind=$1 AND subject_id=$2 AND (date > $3 OR (date = $3 AND id > $4)) ORDER BY date ASC, id ASC`, l.kind, l.subjectID, date, rowID)
	if err != nil {
		return nil, err
	}
	return collectRowCores(rows)
}

func (l *subsidiaryLedger) UpdateBalance(ctx context.Context, rowID int64, balance float64) error {
	_, err := l.tx.Exec(ctx, `UPDATE subsidiary_ledger SET running_balance=$2 WHERE id=$1`, rowID, toNumeric(balance))
	return err
}

func counterpartyTable(kind SubjectKind) (string, error) {
	switch kind {
	case SubjectClient:
		return "customers", nil
	case SubjectSupplier:
		return "suppliers", nil
	default:
		return "", fmt.Errorf("posting: unknown subject kind %q", kind)
	}
}

func scanRowCore(row pgx.Row) (*RowCore, error) {
	var core RowCore
	err := row.Scan(&core.ID, &core.Date, &core.Description, &core.ReferenceType, &core.ReferenceID, &core.Debit, &core.Credit, &core.RunningBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &core, nil
}

func collectRowCores(rows pgx.Rows) ([]RowCore, error) {
	defer rows.Close()
	var out []RowCore
	for rows.Next() {
		var core RowCore
		if err := rows.Scan(&core.ID, &core.Date, &core.Description, &core.ReferenceType, &core.ReferenceID, &core.Debit, &core.Credit, &core.RunningBalance); err != nil {
			return nil, err
		}
		out = append(out, core)
	}
	return out, rows.Err()
}

// Amounts travel as formatted strings so PostgreSQL numeric columns never see
// float noise.
func toNumeric(v float64) any {
	return fmt.Sprintf("%.2f", v)
}

func nullInt(val int64) any {
	if val == 0 {
		return nil
	}
	return val
}
