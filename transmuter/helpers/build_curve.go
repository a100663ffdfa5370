package helpers

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/parallax-go/decimal_math"
	"github.com/krazyTry/parallax-go/transmuter/shared"
)

// BuildFeeCurve converts human-readable breakpoints to fixed-point curve
// arrays: exposures as fractions in [0, 1], fees as percentages (2 = 0.02%
// would be decimal.NewFromFloat(0.02)). The result is validated with
// CheckFees before being returned.
func BuildFeeCurve(exposures, feesPercent []decimal.Decimal, mint bool) ([]uint64, []int64, error) {
	if len(exposures) != len(feesPercent) {
		return nil, nil, errors.New("BuildFeeCurve: mismatched breakpoint arrays")
	}
	base := decimal.NewFromInt(shared.FeeBase)
	hundred := decimal.NewFromInt(100)

	xFee := make([]uint64, 0, len(exposures))
	yFee := make([]int64, 0, len(feesPercent))
	for i := range exposures {
		x := decimal_math.Quo(exposures[i].Mul(base), decimal.New(1, 0))
		if x.Sign() < 0 {
			return nil, nil, errors.New("BuildFeeCurve: negative exposure")
		}
		xFee = append(xFee, uint64(x.IntPart()))

		y := decimal_math.Quo(feesPercent[i].Mul(base), hundred)
		yFee = append(yFee, y.IntPart())
	}
	if err := CheckFees(xFee, yFee, mint); err != nil {
		return nil, nil, err
	}
	return xFee, yFee, nil
}
