package treasury

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod selects the cash or bank account money moves through.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentBank PaymentMethod = "BANK"
)

// SupplierPaymentInput settles part of a supplier's balance.
type SupplierPaymentInput struct {
	SupplierID int64         `json:"supplier_id" validate:"required,gt=0"`
	PaymentID  uuid.UUID     `json:"payment_id" validate:"required"`
	Date       time.Time     `json:"date" validate:"required"`
	Amount     float64       `json:"amount" validate:"required,gt=0"`
	Method     PaymentMethod `json:"method" validate:"required,oneof=CASH BANK"`
	CreatedBy  int64         `json:"-"`
}

// ExpenseInput records an operating expense paid immediately. The amount is
// tax-inclusive as on the receipt; the tax code splits out claimable input tax.
type ExpenseInput struct {
	ExpenseID   uuid.UUID     `json:"expense_id" validate:"required"`
	Date        time.Time     `json:"date" validate:"required"`
	Description string        `json:"description" validate:"required"`
	GrossAmount float64       `json:"gross_amount" validate:"required,gt=0"`
	TaxCode     string        `json:"tax_code" validate:"required"`
	Method      PaymentMethod `json:"method" validate:"required,oneof=CASH BANK"`
	CreatedBy   int64         `json:"-"`
}

// EquityContributionInput records owner capital paid into the business.
type EquityContributionInput struct {
	ContributionID uuid.UUID     `json:"contribution_id" validate:"required"`
	Date           time.Time     `json:"date" validate:"required"`
	Description    string        `json:"description"`
	Amount         float64       `json:"amount" validate:"required,gt=0"`
	Method         PaymentMethod `json:"method" validate:"required,oneof=CASH BANK"`
	CreatedBy      int64         `json:"-"`
}
