package posting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/tax"
	internalShared "github.com/tillpoint-erp/tillpoint-erp/internal/shared"
)

// BalanceCache mirrors counterparty balances into a fast read store.
type BalanceCache interface {
	SetBalance(ctx context.Context, kind SubjectKind, subjectID int64, balance float64) error
}

// Engine posts balanced documents. It is the only write path into the journal
// and both ledgers: every transaction source adapter builds a Document and
// hands it here, so the running-balance invariant is enforced in one place.
type Engine struct {
	repo   Repository
	cache  BalanceCache
	audit  internalShared.AuditRecorder
	logger *slog.Logger
	now    func() time.Time
}

func NewEngine(repo Repository, cache BalanceCache, audit internalShared.AuditRecorder, logger *slog.Logger) *Engine {
	return &Engine{repo: repo, cache: cache, audit: audit, logger: logger, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (e *Engine) WithNow(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// Post writes the journal entry, its account ledger rows, and the optional
// subsidiary row in one transaction. Validation failures abort before any
// write; storage failures roll the whole transaction back, so no partial
// entry or partial running-balance update is ever observable.
func (e *Engine) Post(ctx context.Context, doc Document) (JournalEntry, error) {
	if err := doc.Validate(); err != nil {
		return JournalEntry{}, err
	}
	var entry JournalEntry
	var subjectBalance float64
	err := e.repo.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		posted, balance, err := e.PostInTx(ctx, tx, doc)
		if err != nil {
			return err
		}
		entry = posted
		subjectBalance = balance
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}

	if sub := doc.Subsidiary; sub != nil {
		e.refreshCounterpartyBalance(ctx, sub.Kind, sub.SubjectID, subjectBalance)
	}
	if e.audit != nil {
		_ = e.audit.Record(ctx, internalShared.AuditLog{
			ActorID:  doc.CreatedBy,
			Action:   "ledger.post",
			Entity:   "journal_entry",
			EntityID: entry.Number,
			Meta: map[string]any{
				"reference_type": doc.ReferenceType,
				"reference_id":   doc.ReferenceID.String(),
				"total":          entry.TotalDebit,
			},
			At: e.now(),
		})
	}
	return entry, nil
}

// PostInTx writes a validated document inside an existing transaction. Used by
// adapters that must combine a posting with writes of their own, such as the
// depreciation run updating the asset register. The counterparty balance cache
// is NOT refreshed here; that is Post's responsibility after commit.
func (e *Engine) PostInTx(ctx context.Context, tx Tx, doc Document) (JournalEntry, float64, error) {
	if err := doc.Validate(); err != nil {
		return JournalEntry{}, 0, err
	}
	number, err := tx.NextEntryNumber(ctx)
	if err != nil {
		return JournalEntry{}, 0, fmt.Errorf("posting: entry number: %w", err)
	}
	entry := JournalEntry{
		Number:        fmt.Sprintf("JE-%06d", number),
		Date:          doc.Date,
		ReferenceType: doc.ReferenceType,
		ReferenceID:   doc.ReferenceID,
		Description:   doc.Description,
		TotalDebit:    doc.TotalDebit(),
		TotalCredit:   doc.TotalCredit(),
		Status:        EntryStatusPosted,
		CreatedBy:     doc.CreatedBy,
	}
	if err := tx.InsertEntry(ctx, &entry); err != nil {
		return JournalEntry{}, 0, err
	}
	lines := make([]JournalLine, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lines = append(lines, JournalLine{
			EntryID:     entry.ID,
			AccountID:   line.AccountID,
			Debit:       tax.Round(line.Debit),
			Credit:      tax.Round(line.Credit),
			Description: line.Description,
		})
	}
	if err := tx.InsertLines(ctx, entry.ID, lines); err != nil {
		return JournalEntry{}, 0, err
	}
	entry.Lines = lines

	for _, line := range doc.Lines {
		row := RowCore{
			Date:          doc.Date,
			Description:   doc.Description,
			ReferenceType: doc.ReferenceType,
			ReferenceID:   doc.ReferenceID,
			Debit:         tax.Round(line.Debit),
			Credit:        tax.Round(line.Credit),
		}
		if _, err := e.postRow(ctx, tx.AccountLedger(line.AccountID), row, entry.ID); err != nil {
			return JournalEntry{}, 0, err
		}
	}

	var subjectBalance float64
	if sub := doc.Subsidiary; sub != nil {
		row := RowCore{
			Date:          doc.Date,
			Description:   doc.Description,
			ReferenceType: doc.ReferenceType,
			ReferenceID:   doc.ReferenceID,
			Debit:         tax.Round(sub.Debit),
			Credit:        tax.Round(sub.Credit),
		}
		balance, err := e.postRow(ctx, tx.SubsidiaryLedger(sub.Kind, sub.SubjectID), row, entry.ID)
		if err != nil {
			return JournalEntry{}, 0, err
		}
		subjectBalance = balance
	}
	return entry, subjectBalance, nil
}

// GetEntry loads a posted entry with its lines.
func (e *Engine) GetEntry(ctx context.Context, entryID int64) (JournalEntry, error) {
	return e.repo.GetEntry(ctx, entryID)
}

// postRow appends one row to a ledger and repairs the tail when the row lands
// in the past. Returns the ledger's current (latest) running balance.
//
// The sequence is: lock the subject, read the last row at or before the new
// date, insert with cumulative balance, then recompute every row that follows
// the insertion point in (date, id) order. The recompute is bounded by the
// rows dated after the new row, not the whole ledger.
func (e *Engine) postRow(ctx context.Context, ledger Ledger, row RowCore, entryID int64) (float64, error) {
	if err := ledger.Lock(ctx); err != nil {
		return 0, err
	}
	prev, err := ledger.Latest(ctx, row.Date)
	if err != nil {
		return 0, err
	}
	var balance float64
	if prev != nil {
		balance = prev.RunningBalance
	}
	balance = tax.Round(balance + row.Debit - row.Credit)
	row.RunningBalance = balance

	rowID, err := ledger.Insert(ctx, row, entryID)
	if err != nil {
		return 0, err
	}

	tail, err := ledger.RowsAfter(ctx, row.Date, rowID)
	if err != nil {
		return 0, err
	}
	running := balance
	for _, next := range tail {
		running = tax.Round(running + next.Debit - next.Credit)
		if !tax.Equal(running, next.RunningBalance) {
			if err := ledger.UpdateBalance(ctx, next.ID, running); err != nil {
				return 0, err
			}
		}
	}
	return running, nil
}

// refreshCounterpartyBalance overwrites the denormalized balance column and
// the redis mirror. Both writes are best-effort: the subsidiary ledger is the
// record, the cache only serves O(1) reads, so failures are logged and
// swallowed rather than failing a posting that already committed.
func (e *Engine) refreshCounterpartyBalance(ctx context.Context, kind SubjectKind, subjectID int64, balance float64) {
	if err := e.repo.SetCounterpartyBalance(ctx, kind, subjectID, balance); err != nil {
		e.logger.Warn("counterparty balance column update failed",
			slog.String("kind", string(kind)), slog.Int64("subject_id", subjectID), slog.Any("error", err))
	}
	if e.cache != nil {
		if err := e.cache.SetBalance(ctx, kind, subjectID, balance); err != nil {
			e.logger.Warn("counterparty balance cache update failed",
				slog.String("kind", string(kind)), slog.Int64("subject_id", subjectID), slog.Any("error", err))
		}
	}
}
