package procurement

import (
	"time"

	"github.com/google/uuid"
)

// ReceiptLine is one received item group on a supplier document. Amounts are
// tax-inclusive as they appear on the supplier invoice; the tax code drives
// the net/tax split. Capital lines are capitalised to fixed assets instead of
// inventory.
type ReceiptLine struct {
	Description string  `json:"description" validate:"required"`
	GrossAmount float64 `json:"gross_amount" validate:"required,gt=0"`
	TaxCode     string  `json:"tax_code" validate:"required"`
	Capital     bool    `json:"capital"`
}

// GoodsReceiptInput is the validated payload for a goods receipt event.
type GoodsReceiptInput struct {
	SupplierID  int64         `json:"supplier_id" validate:"required,gt=0"`
	ReceiptID   uuid.UUID     `json:"receipt_id" validate:"required"`
	Date        time.Time     `json:"date" validate:"required"`
	Description string        `json:"description"`
	Lines       []ReceiptLine `json:"lines" validate:"required,min=1,dive"`
	CreatedBy   int64         `json:"-"`
}
