package sales

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod selects the cash or bank account a client receipt lands on.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentBank PaymentMethod = "BANK"
)

// InvoiceLine is one billed item group. Amounts are tax-exclusive as priced;
// the tax code drives the output tax added on top.
type InvoiceLine struct {
	Description string  `json:"description" validate:"required"`
	NetAmount   float64 `json:"net_amount" validate:"required,gt=0"`
	TaxCode     string  `json:"tax_code" validate:"required"`
}

// InvoiceInput is the validated payload for a client sales invoice.
type InvoiceInput struct {
	ClientID    int64         `json:"client_id" validate:"required,gt=0"`
	InvoiceID   uuid.UUID     `json:"invoice_id" validate:"required"`
	Date        time.Time     `json:"date" validate:"required"`
	Description string        `json:"description"`
	Lines       []InvoiceLine `json:"lines" validate:"required,min=1,dive"`
	CreatedBy   int64         `json:"-"`
}

// CreditNoteInput reverses a previously invoiced amount for returned goods.
type CreditNoteInput struct {
	ClientID     int64         `json:"client_id" validate:"required,gt=0"`
	CreditNoteID uuid.UUID     `json:"credit_note_id" validate:"required"`
	Date         time.Time     `json:"date" validate:"required"`
	Description  string        `json:"description"`
	Lines        []InvoiceLine `json:"lines" validate:"required,min=1,dive"`
	CreatedBy    int64         `json:"-"`
}

// ReceiptInput records money received from a client against their balance.
type ReceiptInput struct {
	ClientID  int64         `json:"client_id" validate:"required,gt=0"`
	PaymentID uuid.UUID     `json:"payment_id" validate:"required"`
	Date      time.Time     `json:"date" validate:"required"`
	Amount    float64       `json:"amount" validate:"required,gt=0"`
	Method    PaymentMethod `json:"method" validate:"required,oneof=CASH BANK"`
	CreatedBy int64         `json:"-"`
}
