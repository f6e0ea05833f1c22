package assets

import (
	"time"

	"github.com/google/uuid"
)

// Asset is one row in the fixed asset register. Cost and residual value are
// set at registration; accumulated depreciation grows with each run until the
// depreciable base (cost minus residual) is consumed.
type Asset struct {
	ID                      int64     `json:"id"`
	Name                    string    `json:"name"`
	Description             string    `json:"description"`
	AcquiredOn              time.Time `json:"acquired_on"`
	Cost                    float64   `json:"cost"`
	ResidualValue           float64   `json:"residual_value"`
	UsefulLifeMonths        int       `json:"useful_life_months"`
	AccumulatedDepreciation float64   `json:"accumulated_depreciation"`
	IsActive                bool      `json:"is_active"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// NetBookValue is cost less accumulated depreciation.
func (a Asset) NetBookValue() float64 {
	return a.Cost - a.AccumulatedDepreciation
}

// RegisterInput is the validated payload for adding an asset to the register.
type RegisterInput struct {
	Name             string    `json:"name" validate:"required"`
	Description      string    `json:"description"`
	AcquiredOn       time.Time `json:"acquired_on" validate:"required"`
	Cost             float64   `json:"cost" validate:"required,gt=0"`
	ResidualValue    float64   `json:"residual_value" validate:"gte=0"`
	UsefulLifeMonths int       `json:"useful_life_months" validate:"required,gt=0"`
}

// RunInput triggers a depreciation run dated at the given posting date.
type RunInput struct {
	RunID     uuid.UUID `json:"run_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	CreatedBy int64     `json:"-"`
}

// Charge is one asset's share of a depreciation run.
type Charge struct {
	AssetID int64   `json:"asset_id"`
	Amount  float64 `json:"amount"`
}

// RunResult reports what a depreciation run posted.
type RunResult struct {
	EntryNumber string   `json:"entry_number"`
	Total       float64  `json:"total"`
	Charges     []Charge `json:"charges"`
}
