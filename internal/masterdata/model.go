package masterdata

import (
	"time"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
)

// Counterparty is a customer or supplier tracked in the subsidiary ledger.
// Balance is a denormalized copy of the latest subsidiary running balance and
// may lag the ledger; the subsidiary ledger itself is the record.
type Counterparty struct {
	ID        int64               `json:"id"`
	Kind      posting.SubjectKind `json:"kind"`
	Name      string              `json:"name"`
	Phone     string              `json:"phone,omitempty"`
	Email     string              `json:"email,omitempty"`
	Balance   float64             `json:"balance"`
	IsActive  bool                `json:"is_active"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CreateInput carries the fields accepted when registering a counterparty.
type CreateInput struct {
	Name  string `json:"name" validate:"required,min=2"`
	Phone string `json:"phone" validate:"omitempty,min=7"`
	Email string `json:"email" validate:"omitempty,email"`
}
