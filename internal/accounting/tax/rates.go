// Package tax implements the fixed VAT rate table applied to purchase and
// sales document lines.
package tax

import (
	"fmt"
	"math"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/shared"
)

// Code identifies an entry in the fixed rate table.
type Code string

const (
	CodeStandard  Code = "16%"
	CodeZeroRated Code = "zero_rated"
	CodeExempted  Code = "exempted"
)

var rates = map[Code]float64{
	CodeStandard:  0.16,
	CodeZeroRated: 0,
	CodeExempted:  0,
}

// Rate returns the fraction for a code.
func Rate(code Code) (float64, error) {
	rate, ok := rates[code]
	if !ok {
		return 0, fmt.Errorf("%w %q", shared.ErrUnknownTaxCode, code)
	}
	return rate, nil
}

// Split holds the per-line decomposition of an amount.
type Split struct {
	Net   float64
	Tax   float64
	Gross float64
}

// SplitGross decomposes a tax-inclusive amount: net = gross/(1+rate).
func SplitGross(gross float64, code Code) (Split, error) {
	rate, err := Rate(code)
	if err != nil {
		return Split{}, err
	}
	net := Round(gross / (1 + rate))
	return Split{Net: net, Tax: Round(gross - net), Gross: Round(gross)}, nil
}

// SplitNet builds up from a tax-exclusive amount: tax = net*rate.
func SplitNet(net float64, code Code) (Split, error) {
	rate, err := Rate(code)
	if err != nil {
		return Split{}, err
	}
	taxAmount := Round(net * rate)
	return Split{Net: Round(net), Tax: taxAmount, Gross: Round(net + taxAmount)}, nil
}

// Add accumulates another split into s, rounding each total to cents.
func (s Split) Add(other Split) Split {
	return Split{
		Net:   Round(s.Net + other.Net),
		Tax:   Round(s.Tax + other.Tax),
		Gross: Round(s.Gross + other.Gross),
	}
}

// Round normalises an amount to currency precision (two decimal places).
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Equal compares two amounts at currency precision with no tolerance beyond it.
func Equal(a, b float64) bool {
	return Round(a) == Round(b)
}
