package math

import (
	"errors"
	"math/big"

	"github.com/krazyTry/parallax-go/transmuter/shared"
)

// ApplyFee scales amount by (FeeBase - fee) / FeeBase. A negative fee is a
// rebate and increases the output. Curve validation bounds fee inside
// (-FeeBase, FeeBase), so the multiplier stays strictly positive.
func ApplyFee(amount *big.Int, fee int64, rounding shared.Rounding) (*big.Int, error) {
	if fee <= -shared.FeeBase || fee >= shared.FeeBase {
		return nil, errors.New("ApplyFee: fee out of range")
	}
	return MulDiv(amount, big.NewInt(shared.FeeBase-fee), big.NewInt(shared.FeeBase), rounding)
}

// InvertFee is the exact algebraic inverse of ApplyFee up to integer
// rounding: InvertFee(ApplyFee(x, f), f) == x.
func InvertFee(amount *big.Int, fee int64, rounding shared.Rounding) (*big.Int, error) {
	if fee <= -shared.FeeBase || fee >= shared.FeeBase {
		return nil, errors.New("InvertFee: fee out of range")
	}
	return MulDiv(amount, big.NewInt(shared.FeeBase), big.NewInt(shared.FeeBase-fee), rounding)
}

// MidFee is the effective rate for traversing a whole curve segment: the
// integral of a linear fee over the segment equals its midpoint value times
// the width.
func MidFee(current, upper int64) int64 {
	return (current + upper) / 2
}

// BlendedFee is the effective rate for consuming only the first `consumed`
// units of a segment of width `capacity`: a weighted blend of the upper fee
// and the current fee, proportional to how much of the segment is consumed.
func BlendedFee(current, upper int64, consumed, capacity *big.Int) int64 {
	num := new(big.Int).Mul(big.NewInt(upper-current), consumed)
	den := new(big.Int).Lsh(capacity, 1)
	adj := new(big.Int).Quo(num, den)
	return current + adj.Int64()
}
