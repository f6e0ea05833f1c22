package posting

import (
	"time"

	"github.com/google/uuid"
)

// EntryStatus enumerates journal entry lifecycle values. Posted entries are
// immutable; corrections are new reversing entries, never edits.
type EntryStatus string

const (
	EntryStatusPosted EntryStatus = "POSTED"
)

// SubjectKind selects the client or supplier side of the subsidiary ledger.
type SubjectKind string

const (
	SubjectClient   SubjectKind = "CLIENT"
	SubjectSupplier SubjectKind = "SUPPLIER"
)

// JournalEntry captures one balanced business event.
type JournalEntry struct {
	ID            int64
	Number        string
	Date          time.Time
	ReferenceType string
	ReferenceID   uuid.UUID
	Description   string
	TotalDebit    float64
	TotalCredit   float64
	Status        EntryStatus
	CreatedBy     int64
	CreatedAt     time.Time
	Lines         []JournalLine
}

// JournalLine stores a debit or credit amount for an account. Exactly one of
// Debit and Credit is nonzero.
type JournalLine struct {
	ID          int64
	EntryID     int64
	AccountID   int64
	Debit       float64
	Credit      float64
	Description string
}

// RowCore carries the fields common to account and subsidiary ledger rows.
// RunningBalance is the cumulative balance in (date, id) order.
type RowCore struct {
	ID             int64
	Date           time.Time
	Description    string
	ReferenceType  string
	ReferenceID    uuid.UUID
	Debit          float64
	Credit         float64
	RunningBalance float64
}

// LedgerRow is one posting to a chart account.
type LedgerRow struct {
	RowCore
	AccountID int64
	EntryID   int64
}

// SubsidiaryRow is one posting to a client or supplier.
type SubsidiaryRow struct {
	RowCore
	SubjectKind SubjectKind
	SubjectID   int64
	EntryID     int64
}
