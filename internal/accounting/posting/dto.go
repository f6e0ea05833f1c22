package posting

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/shared"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/tax"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
)

// DocumentLine is one journal line of a business event.
type DocumentLine struct {
	AccountID   int64
	Debit       float64
	Credit      float64
	Description string
}

// SubsidiaryPosting mirrors the event into the client or supplier ledger.
type SubsidiaryPosting struct {
	Kind      SubjectKind
	SubjectID int64
	Debit     float64
	Credit    float64
}

// Document is the single input every transaction source adapter produces: one
// balanced journal entry, matching account ledger rows, and zero or one
// subsidiary ledger row, all posted atomically.
type Document struct {
	Date          time.Time
	ReferenceType string
	ReferenceID   uuid.UUID
	Description   string
	CreatedBy     int64
	Lines         []DocumentLine
	Subsidiary    *SubsidiaryPosting
}

// Validate checks the document before any write happens.
func (d Document) Validate() error {
	if d.Date.IsZero() {
		return fmt.Errorf("%w: document date required", httpx.ErrValidation)
	}
	if d.ReferenceType == "" || d.ReferenceID == uuid.Nil {
		return fmt.Errorf("%w: document reference required", httpx.ErrValidation)
	}
	if len(d.Lines) == 0 {
		return shared.ErrNoLines
	}
	var debit, credit float64
	for idx, line := range d.Lines {
		if line.AccountID == 0 {
			return fmt.Errorf("%w: line %d missing account", httpx.ErrValidation, idx)
		}
		if line.Debit < 0 || line.Credit < 0 {
			return fmt.Errorf("line %d: %w", idx, shared.ErrNegativeAmount)
		}
		if line.Debit > 0 && line.Credit > 0 {
			return fmt.Errorf("line %d: %w", idx, shared.ErrBothSides)
		}
		if line.Debit == 0 && line.Credit == 0 {
			return fmt.Errorf("line %d: %w", idx, shared.ErrEmptyLine)
		}
		debit += line.Debit
		credit += line.Credit
	}
	if !tax.Equal(debit, credit) {
		return shared.ErrUnbalanced
	}
	if sub := d.Subsidiary; sub != nil {
		if sub.SubjectID == 0 {
			return fmt.Errorf("%w: subsidiary subject required", httpx.ErrValidation)
		}
		if sub.Kind != SubjectClient && sub.Kind != SubjectSupplier {
			return fmt.Errorf("%w: unknown subsidiary kind %q", httpx.ErrValidation, sub.Kind)
		}
		if sub.Debit < 0 || sub.Credit < 0 {
			return fmt.Errorf("subsidiary: %w", shared.ErrNegativeAmount)
		}
		if sub.Debit > 0 && sub.Credit > 0 {
			return fmt.Errorf("subsidiary: %w", shared.ErrBothSides)
		}
		if sub.Debit == 0 && sub.Credit == 0 {
			return fmt.Errorf("subsidiary: %w", shared.ErrEmptyLine)
		}
		if !tax.Equal(sub.Debit+sub.Credit, debit) {
			return shared.ErrSubsidiaryMismatch
		}
	}
	return nil
}

// TotalDebit sums the debit side at currency precision.
func (d Document) TotalDebit() float64 {
	var total float64
	for _, line := range d.Lines {
		total += line.Debit
	}
	return tax.Round(total)
}

// TotalCredit sums the credit side at currency precision.
func (d Document) TotalCredit() float64 {
	var total float64
	for _, line := range d.Lines {
		total += line.Credit
	}
	return tax.Round(total)
}
