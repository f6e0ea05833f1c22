package assets

import "github.com/tillpoint-erp/tillpoint-erp/internal/accounting/tax"

// MonthlyCharge computes one straight-line depreciation charge for an asset.
// The charge is capped so accumulated depreciation never exceeds the
// depreciable base; fully depreciated assets yield zero.
func MonthlyCharge(a Asset) float64 {
	if a.UsefulLifeMonths <= 0 {
		return 0
	}
	base := tax.Round(a.Cost - a.ResidualValue)
	remaining := tax.Round(base - a.AccumulatedDepreciation)
	if remaining <= 0 {
		return 0
	}
	charge := tax.Round(base / float64(a.UsefulLifeMonths))
	if charge > remaining {
		charge = remaining
	}
	return charge
}

// PlanCharges computes the per-asset charges of a run over the active
// register. Assets with nothing left to depreciate are skipped.
func PlanCharges(register []Asset) ([]Charge, float64) {
	var charges []Charge
	var total float64
	for _, a := range register {
		amount := MonthlyCharge(a)
		if amount <= 0 {
			continue
		}
		charges = append(charges, Charge{AssetID: a.ID, Amount: amount})
		total = tax.Round(total + amount)
	}
	return charges, total
}
