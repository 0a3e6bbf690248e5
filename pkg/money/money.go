// Package money does all monetary arithmetic on decimals and hands back
// float64 only at the storage boundary (columns are decimal(18,2)).
// Float math is never used for ledger mutations.
package money

import "github.com/shopspring/decimal"

// Round snaps an amount to the currency's minor unit (2 decimals).
func Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Add returns a+b exactly, rounded to the minor unit.
func Add(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// Sub returns a-b exactly, rounded to the minor unit.
func Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// ClampSub returns max(0, a-b). Outstanding balances may settle a few
// minor units past zero because installment rounding drifts from the
// principal; the residue is absorbed here.
func ClampSub(a, b float64) float64 {
	d := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b))
	if d.IsNegative() {
		return 0
	}
	return d.Round(2).InexactFloat64()
}

// Cmp compares two amounts as decimals: -1 if a<b, 0 if equal, 1 if a>b.
func Cmp(a, b float64) int {
	return decimal.NewFromFloat(a).Cmp(decimal.NewFromFloat(b))
}

// IsMinorUnits reports whether v carries at most 2 decimal places.
func IsMinorUnits(v float64) bool {
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Round(2))
}

// Mul returns a*b exactly, rounded to the minor unit.
func Mul(a float64, b int) float64 {
	return decimal.NewFromFloat(a).Mul(decimal.NewFromInt(int64(b))).Round(2).InexactFloat64()
}

// Annuity computes the fixed installment for an annuity loan:
//
//	P * i * (1+i)^n / ((1+i)^n - 1)
//
// with i the per-period rate as a fraction and n the number of periods,
// rounded to the minor unit. A zero rate degenerates to P/n.
func Annuity(principal, ratePerPeriod float64, periods int) float64 {
	p := decimal.NewFromFloat(principal)
	n := int64(periods)
	if ratePerPeriod == 0 {
		return p.Div(decimal.NewFromInt(n)).Round(2).InexactFloat64()
	}
	i := decimal.NewFromFloat(ratePerPeriod)
	compound := decimal.NewFromInt(1).Add(i).Pow(decimal.NewFromInt(n))
	num := p.Mul(i).Mul(compound)
	den := compound.Sub(decimal.NewFromInt(1))
	return num.Div(den).Round(2).InexactFloat64()
}
