package helpers

import (
	"errors"

	"github.com/krazyTry/parallax-go/transmuter/shared"
)

// CheckFees validates a fee curve at configuration time so the quote path can
// assume its conventions. Mint exposures rise strictly from 0 and stay below
// FeeBase; burn exposures fall strictly from FeeBase. Fee rates are
// non-decreasing along the direction of travel and bounded inside
// (-FeeBase, FeeBase) so that ApplyFee and InvertFee divisors stay strictly
// positive.
func CheckFees(xFee []uint64, yFee []int64, mint bool) error {
	n := len(xFee)
	if n == 0 || n > shared.MaxCurvePoint {
		return errors.New("CheckFees: invalid number of breakpoints")
	}
	if n != len(yFee) {
		return errors.New("CheckFees: mismatched breakpoint arrays")
	}
	if mint {
		if xFee[0] != 0 {
			return errors.New("CheckFees: mint curve must start at zero exposure")
		}
	} else {
		if xFee[0] != shared.FeeBase {
			return errors.New("CheckFees: burn curve must start at full exposure")
		}
	}
	for i := 0; i < n; i++ {
		if xFee[i] > shared.FeeBase {
			return errors.New("CheckFees: exposure above full scale")
		}
		if mint && xFee[i] == shared.FeeBase {
			return errors.New("CheckFees: mint exposure at full scale is unreachable")
		}
		if yFee[i] <= -shared.FeeBase || yFee[i] >= shared.FeeBase {
			return errors.New("CheckFees: fee rate out of range")
		}
		if i == 0 {
			continue
		}
		if mint && xFee[i] <= xFee[i-1] {
			return errors.New("CheckFees: mint exposures must be strictly increasing")
		}
		if !mint && xFee[i] >= xFee[i-1] {
			return errors.New("CheckFees: burn exposures must be strictly decreasing")
		}
		if yFee[i] < yFee[i-1] {
			return errors.New("CheckFees: fee rates must be non-decreasing")
		}
	}
	return nil
}
