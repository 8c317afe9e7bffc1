// Package money implements exact-decimal monetary arithmetic: VAT
// computation and invoice line aggregation. Amounts are carried as
// shopspring decimals so repeated computations never accumulate binary
// float drift.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// TaxRate is a VAT percentage from the closed Spanish IVA tier set.
type TaxRate int64

const (
	TaxRateExempt       TaxRate = 0
	TaxRateSuperReduced TaxRate = 4
	TaxRateReduced      TaxRate = 10
	TaxRateGeneral      TaxRate = 21
)

var (
	ErrNegativeAmount = errors.New("negative_amount")
	ErrInvalidTaxRate = errors.New("invalid_tax_rate")
	ErrEmptyLineSet   = errors.New("empty_line_set")
	ErrInvalidLine    = errors.New("invalid_line")
)

// Valid reports whether the rate belongs to the closed tier set.
func (r TaxRate) Valid() bool {
	switch r {
	case TaxRateExempt, TaxRateSuperReduced, TaxRateReduced, TaxRateGeneral:
		return true
	}
	return false
}

// Round2 rounds to 2 decimal places, half up. Currency display convention,
// not banker's rounding; totals must reproduce bit-identically everywhere.
func Round2(d decimal.Decimal) decimal.Decimal {
	// decimal.Round is half away from zero, which is half up for the
	// non-negative amounts this package accepts.
	return d.Round(2)
}

// ComputeTax returns the tax amount and grand total for a taxable base.
// tax = round2(base * rate / 100), total = base + tax.
func ComputeTax(base decimal.Decimal, rate TaxRate) (taxAmount, total decimal.Decimal, err error) {
	if base.IsNegative() {
		return decimal.Zero, decimal.Zero, ErrNegativeAmount
	}
	if !rate.Valid() {
		return decimal.Zero, decimal.Zero, ErrInvalidTaxRate
	}

	taxAmount = Round2(base.Mul(decimal.NewFromInt(int64(rate))).Div(decimal.NewFromInt(100)))
	total = base.Add(taxAmount)
	return taxAmount, total, nil
}

// Line is one priced entry of a multi-line invoice.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Total is the line subtotal: round2(quantity * unit price).
func (l Line) Total() decimal.Decimal {
	return Round2(l.Quantity.Mul(l.UnitPrice))
}

// Validate rejects negative quantities and unit prices.
func (l Line) Validate() error {
	if l.Quantity.IsNegative() || l.UnitPrice.IsNegative() {
		return ErrInvalidLine
	}
	return nil
}

// AggregateLines reduces invoice lines into the document taxable base.
// Each line total is rounded before summation so the base matches the sum
// of the per-line subtotals shown to the user. An invoice must always
// carry at least one line.
func AggregateLines(lines []Line) (decimal.Decimal, error) {
	if len(lines) == 0 {
		return decimal.Zero, ErrEmptyLineSet
	}

	base := decimal.Zero
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return decimal.Zero, err
		}
		base = base.Add(line.Total())
	}
	return base, nil
}
