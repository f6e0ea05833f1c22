package shared

import (
	"fmt"

	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/httpx"
)

var (
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = fmt.Errorf("%w: journal lines must balance", httpx.ErrValidation)
	// ErrNoLines indicates an empty posting.
	ErrNoLines = fmt.Errorf("%w: journal requires at least one line", httpx.ErrValidation)
	// ErrBothSides indicates a line carrying both a debit and a credit.
	ErrBothSides = fmt.Errorf("%w: line must be debit or credit, not both", httpx.ErrValidation)
	// ErrEmptyLine indicates a line with neither side set.
	ErrEmptyLine = fmt.Errorf("%w: line must carry a debit or a credit", httpx.ErrValidation)
	// ErrNegativeAmount indicates a negative debit or credit.
	ErrNegativeAmount = fmt.Errorf("%w: amounts must not be negative", httpx.ErrValidation)
	// ErrAccountNotConfigured indicates a required chart code missing or inactive.
	ErrAccountNotConfigured = fmt.Errorf("%w in chart of accounts", httpx.ErrNotConfigured)
	// ErrSubsidiaryMismatch indicates a subsidiary amount diverging from the entry total.
	ErrSubsidiaryMismatch = fmt.Errorf("%w: subsidiary amount must equal entry total", httpx.ErrValidation)
	// ErrDuplicateEntryNumber indicates an entry number collision.
	ErrDuplicateEntryNumber = fmt.Errorf("%w: journal entry number", httpx.ErrConflict)
	// ErrUnknownTaxCode indicates a tax code outside the fixed rate table.
	ErrUnknownTaxCode = fmt.Errorf("%w: unknown tax code", httpx.ErrValidation)
	// ErrCounterpartyNotFound indicates an unknown client or supplier.
	ErrCounterpartyNotFound = fmt.Errorf("counterparty %w", httpx.ErrNotFound)
)
