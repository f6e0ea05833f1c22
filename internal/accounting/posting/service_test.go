package posting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/shared"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
)

type memoryState struct {
	seq          int64
	nextEntryID  int64
	nextRowID    int64
	entries      []JournalEntry
	accountRows  []LedgerRow
	subjectRows  []SubsidiaryRow
	accounts     map[int64]bool
	subjects     map[string]bool
	balances     map[string]float64
	failBalances bool
}

func subjectKey(kind SubjectKind, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

type memoryRepo struct {
	state memoryState
}

func newMemoryRepo(accountIDs []int64, subjects map[SubjectKind][]int64) *memoryRepo {
	repo := &memoryRepo{state: memoryState{
		accounts: make(map[int64]bool),
		subjects: make(map[string]bool),
		balances: make(map[string]float64),
	}}
	for _, id := range accountIDs {
		repo.state.accounts[id] = true
	}
	for kind, ids := range subjects {
		for _, id := range ids {
			repo.state.subjects[subjectKey(kind, id)] = true
		}
	}
	return repo
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Tx) error) error {
	snapshot := r.snapshot()
	if err := fn(ctx, &memoryTx{state: &r.state}); err != nil {
		r.state = snapshot
		return err
	}
	return nil
}

func (r *memoryRepo) snapshot() memoryState {
	s := r.state
	s.entries = append([]JournalEntry(nil), r.state.entries...)
	s.accountRows = append([]LedgerRow(nil), r.state.accountRows...)
	s.subjectRows = append([]SubsidiaryRow(nil), r.state.subjectRows...)
	s.balances = make(map[string]float64, len(r.state.balances))
	for k, v := range r.state.balances {
		s.balances[k] = v
	}
	return s
}

func (r *memoryRepo) GetEntry(ctx context.Context, entryID int64) (JournalEntry, error) {
	for _, e := range r.state.entries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return JournalEntry{}, fmt.Errorf("journal entry %d: %w", entryID, httpx.ErrNotFound)
}

func (r *memoryRepo) SetCounterpartyBalance(ctx context.Context, kind SubjectKind, subjectID int64, balance float64) error {
	if r.state.failBalances {
		return errors.New("balance column unavailable")
	}
	key := subjectKey(kind, subjectID)
	if !r.state.subjects[key] {
		return shared.ErrCounterpartyNotFound
	}
	r.state.balances[key] = balance
	return nil
}

type memoryTx struct {
	state *memoryState
}

func (t *memoryTx) NextEntryNumber(ctx context.Context) (int64, error) {
	t.state.seq++
	return t.state.seq, nil
}

func (t *memoryTx) InsertEntry(ctx context.Context, entry *JournalEntry) error {
	for _, existing := range t.state.entries {
		if existing.Number == entry.Number {
			return shared.ErrDuplicateEntryNumber
		}
	}
	t.state.nextEntryID++
	entry.ID = t.state.nextEntryID
	entry.CreatedAt = time.Now()
	t.state.entries = append(t.state.entries, *entry)
	return nil
}

func (t *memoryTx) InsertLines(ctx context.Context, entryID int64, lines []JournalLine) error {
	for i := range t.state.entries {
		if t.state.entries[i].ID == entryID {
			t.state.entries[i].Lines = lines
			return nil
		}
	}
	return fmt.Errorf("journal entry %d: %w", entryID, httpx.ErrNotFound)
}

func (t *memoryTx) AccountLedger(accountID int64) Ledger {
	return &memoryAccountLedger{state: t.state, accountID: accountID}
}

func (t *memoryTx) SubsidiaryLedger(kind SubjectKind, subjectID int64) Ledger {
	return &memorySubjectLedger{state: t.state, kind: kind, subjectID: subjectID}
}

type memoryAccountLedger struct {
	state     *memoryState
	accountID int64
}

func (l *memoryAccountLedger) Lock(ctx context.Context) error {
	if !l.state.accounts[l.accountID] {
		return fmt.Errorf("account %d: %w", l.accountID, httpx.ErrNotFound)
	}
	return nil
}

func (l *memoryAccountLedger) rows() []RowCore {
	var out []RowCore
	for _, r := range l.state.accountRows {
		if r.AccountID == l.accountID {
			out = append(out, r.RowCore)
		}
	}
	sortRows(out)
	return out
}

func (l *memoryAccountLedger) Latest(ctx context.Context, onOrBefore time.Time) (*RowCore, error) {
	return latestRow(l.rows(), onOrBefore), nil
}

func (l *memoryAccountLedger) Insert(ctx context.Context, row RowCore, entryID int64) (int64, error) {
	l.state.nextRowID++
	row.ID = l.state.nextRowID
	l.state.accountRows = append(l.state.accountRows, LedgerRow{RowCore: row, AccountID: l.accountID, EntryID: entryID})
	return row.ID, nil
}

func (l *memoryAccountLedger) RowsAfter(ctx context.Context, date time.Time, rowID int64) ([]RowCore, error) {
	return rowsAfter(l.rows(), date, rowID), nil
}

func (l *memoryAccountLedger) UpdateBalance(ctx context.Context, rowID int64, balance float64) error {
	for i := range l.state.accountRows {
		if l.state.accountRows[i].ID == rowID {
			l.state.accountRows[i].RunningBalance = balance
			return nil
		}
	}
	return fmt.Errorf("ledger row %d: %w", rowID, httpx.ErrNotFound)
}

type memorySubjectLedger struct {
	state     *memoryState
	kind      SubjectKind
	subjectID int64
}

func (l *memorySubjectLedger) Lock(ctx context.Context) error {
	if !l.state.subjects[subjectKey(l.kind, l.subjectID)] {
		return fmt.Errorf("%w: %s %d", shared.ErrCounterpartyNotFound, l.kind, l.subjectID)
	}
	return nil
}

func (l *memorySubjectLedger) rows() []RowCore {
	var out []RowCore
	for _, r := range l.state.subjectRows {
		if r.SubjectKind == l.kind && r.SubjectID == l.subjectID {
			out = append(out, r.RowCore)
		}
	}
	sortRows(out)
	return out
}

func (l *memorySubjectLedger) Latest(ctx context.Context, onOrBefore time.Time) (*RowCore, error) {
	return latestRow(l.rows(), onOrBefore), nil
}

func (l *memorySubjectLedger) Insert(ctx context.Context, row RowCore, entryID int64) (int64, error) {
	l.state.nextRowID++
	row.ID = l.state.nextRowID
	l.state.subjectRows = append(l.state.subjectRows, SubsidiaryRow{RowCore: row, SubjectKind: l.kind, SubjectID: l.subjectID, EntryID: entryID})
	return row.ID, nil
}

func (l *memorySubjectLedger) RowsAfter(ctx context.Context, date time.Time, rowID int64) ([]RowCore, error) {
	return rowsAfter(l.rows(), date, rowID), nil
}

func (l *memorySubjectLedger) UpdateBalance(ctx context.Context, rowID int64, balance float64) error {
	for i := range l.state.subjectRows {
		if l.state.subjectRows[i].ID == rowID {
			l.state.subjectRows[i].RunningBalance = balance
			return nil
		}
	}
	return fmt.Errorf("ledger row %d: %w", rowID, httpx.ErrNotFound)
}

func sortRows(rows []RowCore) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].ID < rows[j].ID
	})
}

func latestRow(rows []RowCore, onOrBefore time.Time) *RowCore {
	var latest *RowCore
	for i := range rows {
		if rows[i].Date.After(onOrBefore) {
			continue
		}
		latest = &rows[i]
	}
	if latest == nil {
		return nil
	}
	row := *latest
	return &row
}

func rowsAfter(rows []RowCore, date time.Time, rowID int64) []RowCore {
	var out []RowCore
	for _, r := range rows {
		if r.Date.After(date) || (r.Date.Equal(date) && r.ID > rowID) {
			out = append(out, r)
		}
	}
	return out
}

type recordingCache struct {
	balances map[string]float64
	fail     bool
}

func (c *recordingCache) SetBalance(ctx context.Context, kind SubjectKind, subjectID int64, balance float64) error {
	if c.fail {
		return errors.New("cache down")
	}
	if c.balances == nil {
		c.balances = make(map[string]float64)
	}
	c.balances[subjectKey(kind, subjectID)] = balance
	return nil
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func newTestEngine(repo *memoryRepo, cache BalanceCache) *Engine {
	return NewEngine(repo, cache, nil, slog.New(slog.NewTextHandler(testWriter{}, nil)))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func simpleDoc(date time.Time, lines []DocumentLine) Document {
	return Document{
		Date:          date,
		ReferenceType: "TEST",
		ReferenceID:   uuid.New(),
		Description:   "test posting",
		CreatedBy:     7,
		Lines:         lines,
	}
}

func TestPostBalancedEntry(t *testing.T) {
	repo := newMemoryRepo([]int64{1, 2}, nil)
	engine := newTestEngine(repo, nil)

	entry, err := engine.Post(context.Background(), simpleDoc(day(1), []DocumentLine{
		{AccountID: 1, Debit: 116},
		{AccountID: 2, Credit: 116},
	}))
	require.NoError(t, err)
	require.Equal(t, "JE-000001", entry.Number)
	require.Equal(t, EntryStatusPosted, entry.Status)
	require.Equal(t, 116.0, entry.TotalDebit)
	require.Equal(t, entry.TotalDebit, entry.TotalCredit)
	require.Len(t, entry.Lines, 2)

	require.Len(t, repo.state.accountRows, 2)
	require.Equal(t, 116.0, repo.state.accountRows[0].RunningBalance)
	require.Equal(t, -116.0, repo.state.accountRows[1].RunningBalance)
}

func TestPostRejectsUnbalancedBeforeWrites(t *testing.T) {
	repo := newMemoryRepo([]int64{1, 2}, nil)
	engine := newTestEngine(repo, nil)

	_, err := engine.Post(context.Background(), simpleDoc(day(1), []DocumentLine{
		{AccountID: 1, Debit: 100},
		{AccountID: 2, Credit: 99.99},
	}))
	require.ErrorIs(t, err, shared.ErrUnbalanced)
	require.Empty(t, repo.state.entries)
	require.Empty(t, repo.state.accountRows)
}

func TestPostRejectsLineShapes(t *testing.T) {
	repo := newMemoryRepo([]int64{1, 2}, nil)
	engine := newTestEngine(repo, nil)
	ctx := context.Background()

	_, err := engine.Post(ctx, simpleDoc(day(1), nil))
	require.ErrorIs(t, err, shared.ErrNoLines)

	_, err = engine.Post(ctx, simpleDoc(day(1), []DocumentLine{
		{AccountID: 1, Debit: 10, Credit: 10},
		{AccountID: 2},
	}))
	require.ErrorIs(t, err, shared.ErrBothSides)

	_, err = engine.Post(ctx, simpleDoc(day(1), []DocumentLine{
		{AccountID: 1, Debit: -5},
		{AccountID: 2, Credit: -5},
	}))
	require.ErrorIs(t, err, shared.ErrNegativeAmount)
}

func TestRunningBalanceRecurrence(t *testing.T) {
	repo := newMemoryRepo([]int64{1, 9}, nil)
	engine := newTestEngine(repo, nil)
	ctx := context.Background()

	amounts := []float64{100, 40.25, 19.75, 300}
	for i, amount := range amounts {
		_, err := engine.Post(ctx, simpleDoc(day(i+1), []DocumentLine{
			{AccountID: 1, Debit: amount},
			{AccountID: 9, Credit: amount},
		}))
		require.NoError(t, err)
	}

	requireRecurrence(t, accountRows(repo, 1))
	requireRecurrence(t, accountRows(repo, 9))
	rows := accountRows(repo, 1)
	require.Equal(t, 460.0, rows[len(rows)-1].RunningBalance)
}

func TestOutOfOrderInsertRepairsTail(t *testing.T) {
	repo := newMemoryRepo([]int64{1, 9}, nil)
	engine := newTestEngine(repo, nil)
	ctx := context.Background()

	for _, d := range []int{1, 3, 5} {
		_, err := engine.Post(ctx, simpleDoc(day(d), []DocumentLine{
			{AccountID: 1, Debit: 100},
			{AccountID: 9, Credit: 100},
		}))
		require.NoError(t, err)
	}

	// A payment confirmed late but dated day 2 lands in the past.
	_, err := engine.Post(ctx, simpleDoc(day(2), []DocumentLine{
		{AccountID: 1, Credit: 30},
		{AccountID: 9, Debit: 30},
	}))
	require.NoError(t, err)

	rows := accountRows(repo, 1)
	require.Len(t, rows, 4)
	requireRecurrence(t, rows)
	require.Equal(t, []float64{100, 70, 170, 270}, balances(rows))
}

func TestSubsidiaryMirroredPosting(t *testing.T) {
	repo := newMemoryRepo([]int64{1, 2}, map[SubjectKind][]int64{SubjectSupplier: {42}})
	cache := &recordingCache{}
	engine := newTestEngine(repo, cache)

	doc := simpleDoc(day(1), []DocumentLine{
		{AccountID: 1, Debit: 232},
		{AccountID: 2, Credit: 232},
	})
	doc.Subsidiary = &SubsidiaryPosting{Kind: SubjectSupplier, SubjectID: 42, Credit: 232}

	_, err := engine.Post(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, repo.state.subjectRows, 1)
	require.Equal(t, -232.0, repo.state.subjectRows[0].RunningBalance)
	require.Equal(t, -232.0, repo.state.balances[subjectKey(SubjectSupplier, 42)])
	require.Equal(t, -232.0, cache.balances[subjectKey(SubjectSupplier, 42)])
}

func TestSubsidiaryAmountMustMatchEntryTotal(t *testing.T) {
	repo := newMemoryRepo([]int64{1, 2}, map[SubjectKind][]int64{SubjectClient: {8}})
	engine := newTestEngine(repo, nil)

	doc := simpleDoc(day(1), []DocumentLine{
		{AccountID: 1, Debit: 100},
		{AccountID: 2, Credit: 100},
	})
	doc.Subsidiary = &SubsidiaryPosting{Kind: SubjectClient, SubjectID: 8, Debit: 90}

	_, err := engine.Post(context.Background(), doc)
	require.ErrorIs(t, err, shared.ErrSubsidiaryMismatch)
	require.Empty(t, repo.state.entries)
}

func TestUnknownCounterpartyRollsBackEverything(t *testing.T) {
	repo := newMemoryRepo([]int64{1, 2}, nil)
	engine := newTestEngine(repo, nil)

	doc := simpleDoc(day(1), []DocumentLine{
		{AccountID: 1, Debit: 50},
		{AccountID: 2, Credit: 50},
	})
	doc.Subsidiary = &SubsidiaryPosting{Kind: SubjectClient, SubjectID: 99, Debit: 50}

	_, err := engine.Post(context.Background(), doc)
	require.ErrorIs(t, err, shared.ErrCounterpartyNotFound)
	require.Empty(t, repo.state.entries)
	require.Empty(t, repo.state.accountRows)
	require.Empty(t, repo.state.subjectRows)
}

func TestUnknownAccountRollsBackEverything(t *testing.T) {
	repo := newMemoryRepo([]int64{1}, nil)
	engine := newTestEngine(repo, nil)

	_, err := engine.Post(context.Background(), simpleDoc(day(1), []DocumentLine{
		{AccountID: 1, Debit: 10},
		{AccountID: 777, Credit: 10},
	}))
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.Empty(t, repo.state.entries)
	require.Empty(t, repo.state.accountRows)
}

func TestBalanceCacheFailureIsSwallowed(t *testing.T) {
	repo := newMemoryRepo([]int64{1, 2}, map[SubjectKind][]int64{SubjectClient: {8}})
	repo.state.failBalances = true
	cache := &recordingCache{fail: true}
	engine := newTestEngine(repo, cache)

	doc := simpleDoc(day(1), []DocumentLine{
		{AccountID: 1, Debit: 75},
		{AccountID: 2, Credit: 75},
	})
	doc.Subsidiary = &SubsidiaryPosting{Kind: SubjectClient, SubjectID: 8, Debit: 75}

	entry, err := engine.Post(context.Background(), doc)
	require.NoError(t, err)
	require.NotZero(t, entry.ID)
	require.Len(t, repo.state.subjectRows, 1)
}

func TestEntryNumbersAreMonotonic(t *testing.T) {
	repo := newMemoryRepo([]int64{1, 2}, nil)
	engine := newTestEngine(repo, nil)
	ctx := context.Background()

	first, err := engine.Post(ctx, simpleDoc(day(1), []DocumentLine{
		{AccountID: 1, Debit: 10}, {AccountID: 2, Credit: 10},
	}))
	require.NoError(t, err)
	second, err := engine.Post(ctx, simpleDoc(day(1), []DocumentLine{
		{AccountID: 1, Debit: 20}, {AccountID: 2, Credit: 20},
	}))
	require.NoError(t, err)
	require.Equal(t, "JE-000001", first.Number)
	require.Equal(t, "JE-000002", second.Number)
}

func accountRows(repo *memoryRepo, accountID int64) []RowCore {
	ledger := &memoryAccountLedger{state: &repo.state, accountID: accountID}
	return ledger.rows()
}

func balances(rows []RowCore) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.RunningBalance)
	}
	return out
}

func requireRecurrence(t *testing.T, rows []RowCore) {
	t.Helper()
	var prev float64
	for i, r := range rows {
		expected := prev + r.Debit - r.Credit
		require.InDelta(t, expected, r.RunningBalance, 0.001, "row %d violates running balance recurrence", i)
		prev = r.RunningBalance
	}
}
