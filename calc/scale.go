// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

// Package calc provides scaled integer arithmetic for fee prices. Fee amounts
// are expressed in a chain's smallest unit and can exceed the range in which
// float64 represents integers exactly, so all price scaling goes through
// big.Int multiplication by a thousandths factor followed by floor division.
package calc

import "math/big"

// ScaleFactor is the fixed-point scale used for fractional fee multipliers. A
// multiplier of 1.2 is expressed as 1200 thousandths.
const ScaleFactor = 1000

var scaleFactorBig = big.NewInt(ScaleFactor)

// MulThousandths multiplies v by a fractional multiplier expressed in
// thousandths, taking the floor, i.e. floor(v * mult / 1000). The result is a
// new big.Int. v is not modified.
func MulThousandths(v *big.Int, thousandths int64) *big.Int {
	prod := new(big.Int).Mul(v, big.NewInt(thousandths))
	return prod.Quo(prod, scaleFactorBig)
}

// AvgFloor computes the floor of the arithmetic mean of the provided values.
// Returns zero for an empty input. The inputs are not modified.
func AvgFloor(vs ...*big.Int) *big.Int {
	sum := new(big.Int)
	if len(vs) == 0 {
		return sum
	}
	for _, v := range vs {
		sum.Add(sum, v)
	}
	return sum.Quo(sum, big.NewInt(int64(len(vs))))
}

// Float64 converts v to the nearest float64. Large values lose precision,
// which is acceptable for statistical ratios but never for prices.
func Float64(v *big.Int) float64 {
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
