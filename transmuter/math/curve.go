package math

import (
	"errors"
	"math/big"

	"github.com/krazyTry/parallax-go/transmuter/shared"
)

var feeBase = big.NewInt(shared.FeeBase)

// QuoteFees integrates a piecewise-linear fee curve across a swap. The curve
// is read against the collateral's exposure, which the swap itself shifts, so
// the amount is solved segment by segment over the curve's breakpoints rather
// than sampled once.
//
// The walk is measured in the ledger unit of the direction: stables minted
// (post-fee output) for mints, stables burned (pre-fee input) for burns. That
// is the quantity that moves both the per-asset and the global normalized
// counters. MintExactOutput and BurnExactInput request an amount already in
// ledger units; MintExactInput and BurnExactOutput request the fee-adjusted
// side and convert per segment.
//
// collatStables, totalStables and amountStable are in normalized-stable
// units. xFee and yFee must have passed helpers.CheckFees.
func QuoteFees(qt shared.QuoteType, xFee []uint64, yFee []int64, collatStables, totalStables, amountStable *big.Int) (*big.Int, error) {
	n := len(xFee)
	if n == 0 || n != len(yFee) {
		return nil, errors.New("QuoteFees: malformed curve")
	}
	if amountStable.Sign() < 0 {
		return nil, errors.New("QuoteFees: negative amount")
	}
	if amountStable.Sign() == 0 {
		return big.NewInt(0), nil
	}

	// First-ever swap or single-point curve: the fee is the first
	// breakpoint's value, there is no exposure history to interpolate over.
	if totalStables.Sign() == 0 || n == 1 {
		return computeFee(qt, amountStable, yFee[0])
	}

	isMint := qt.IsMint()
	exposure := currentExposure(collatStables, totalStables)
	i := segmentIndex(isMint, xFee, exposure)
	if i >= n-1 {
		// Past the final breakpoint: constant fee.
		return computeFee(qt, amountStable, yFee[n-1])
	}

	// Requested amount already in ledger units?
	exactLedger := qt == shared.MintExactOutput || qt == shared.BurnExactInput

	c := new(big.Int).Set(collatStables)
	total := new(big.Int).Set(totalStables)
	remaining := new(big.Int).Set(amountStable)
	acc := big.NewInt(0)

	for i < n-1 {
		upperX := xFee[i+1]
		upperFee := yFee[i+1]

		capacity, err := segmentCapacity(isMint, upperX, c, total)
		if err != nil {
			return nil, err
		}
		if capacity.Sign() <= 0 {
			// Sitting exactly on (or numerically past) the breakpoint.
			exposure = upperX
			i++
			continue
		}

		fee := interpolateFee(isMint, xFee[i], upperX, yFee[i], upperFee, exposure)

		comparable := capacity
		if !exactLedger {
			comparable, err = fromLedgerUnits(isMint, capacity, MidFee(fee, upperFee))
			if err != nil {
				return nil, err
			}
		}

		if remaining.Cmp(comparable) <= 0 {
			// The segment covers the rest of the swap: one blended rate
			// over the ledger sub-span actually consumed. When the
			// requested amount is on the fee-adjusted side the sub-span is
			// not known up front and has to be solved for instead, so that
			// both quote directions price the same sub-span at the same
			// rate.
			if exactLedger {
				out, err := computeFee(qt, remaining, BlendedFee(fee, upperFee, remaining, capacity))
				if err != nil {
					return nil, err
				}
				return acc.Add(acc, out), nil
			}
			out, err := solveLedgerSpan(isMint, fee, upperFee, remaining, capacity)
			if err != nil {
				return nil, err
			}
			return acc.Add(acc, out), nil
		}

		// Consume the whole segment at its midpoint rate.
		remaining.Sub(remaining, comparable)
		if exactLedger {
			converted, err := fromLedgerUnits(isMint, capacity, MidFee(fee, upperFee))
			if err != nil {
				return nil, err
			}
			acc.Add(acc, converted)
		} else {
			acc.Add(acc, capacity)
		}

		if isMint {
			c.Add(c, capacity)
			total.Add(total, capacity)
		} else {
			c.Sub(c, capacity)
			total.Sub(total, capacity)
		}
		exposure = upperX
		i++
	}

	// Walk exhausted: the remainder settles at the last breakpoint's fee.
	out, err := computeFee(qt, remaining, yFee[n-1])
	if err != nil {
		return nil, err
	}
	return acc.Add(acc, out), nil
}

// currentExposure is the collateral's normalized balance as a FeeBase
// fraction of the total normalized supply. totalStables must be non-zero.
func currentExposure(collatStables, totalStables *big.Int) uint64 {
	e := new(big.Int).Mul(collatStables, feeBase)
	e.Quo(e, totalStables)
	if !e.IsUint64() {
		return shared.FeeBase
	}
	return e.Uint64()
}

// segmentIndex locates the segment containing the exposure: the last index
// whose breakpoint has not yet been crossed in the direction of travel. Mint
// exposure rises through increasing x, burn exposure falls through
// decreasing x, so the first breakpoint (0 for mint, FeeBase for burn) means
// the search never lands before index 0.
func segmentIndex(isMint bool, xFee []uint64, exposure uint64) int {
	i := 0
	for i < len(xFee)-1 {
		if isMint && xFee[i+1] > exposure {
			break
		}
		if !isMint && xFee[i+1] < exposure {
			break
		}
		i++
	}
	return i
}

// segmentCapacity is the normalized-stable amount, in ledger units, that
// moves the exposure from its current position to the segment's target
// breakpoint. Derived from exposure = c/T with both counters moving by the
// same delta:
//
//	mint: (upperX*T - c*FeeBase) / (FeeBase - upperX)
//	burn: (c*FeeBase - upperX*T) / (FeeBase - upperX)
//
// upperX < FeeBase holds for every target breakpoint by curve convention.
func segmentCapacity(isMint bool, upperX uint64, c, total *big.Int) (*big.Int, error) {
	if upperX >= shared.FeeBase {
		return nil, errors.New("QuoteFees: breakpoint at full scale")
	}
	ux := new(big.Int).SetUint64(upperX)
	a := new(big.Int).Mul(total, ux)
	b := new(big.Int).Mul(c, feeBase)
	var num *big.Int
	if isMint {
		num = a.Sub(a, b)
	} else {
		num = b.Sub(b, a)
	}
	if num.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	return num.Quo(num, big.NewInt(shared.FeeBase-int64(upperX))), nil
}

// interpolateFee evaluates the instantaneous fee at the current exposure by
// linear interpolation between the segment's endpoints. Sitting exactly on
// the entry breakpoint yields its fee with no interpolation.
func interpolateFee(isMint bool, lowerX, upperX uint64, lowerFee, upperFee int64, exposure uint64) int64 {
	if exposure == lowerX || lowerX == upperX {
		return lowerFee
	}
	var num, den int64
	if isMint {
		num = int64(exposure) - int64(lowerX)
		den = int64(upperX) - int64(lowerX)
	} else {
		num = int64(lowerX) - int64(exposure)
		den = int64(lowerX) - int64(upperX)
	}
	if num <= 0 || den <= 0 {
		return lowerFee
	}
	if num >= den {
		return upperFee
	}
	adj := new(big.Int).Mul(big.NewInt(upperFee-lowerFee), big.NewInt(num))
	adj.Quo(adj, big.NewInt(den))
	return lowerFee + adj.Int64()
}

// solveLedgerSpan finds the ledger sub-span m whose blended rate
// BlendedFee(current, upper, m, capacity) converts m into exactly the
// remaining fee-adjusted amount. It is the inverse of the exact-ledger
// partial-segment settlement.
//
// Mint input relates to the span by m*B = in*(B - current - slope*m/2) with
// slope = (upper-current)/capacity, which stays linear in m. Burn output
// relates by out*B = m*(B - current) - slope*m^2/2, a quadratic solved on its
// smaller root.
func solveLedgerSpan(isMint bool, current, upper int64, remaining, capacity *big.Int) (*big.Int, error) {
	slope := big.NewInt(upper - current)
	twoCap := new(big.Int).Lsh(capacity, 1)
	if isMint {
		// m = in*(B-current)*2*capacity / (2*capacity*B + in*(upper-current))
		num := new(big.Int).Mul(remaining, big.NewInt(shared.FeeBase-current))
		num.Mul(num, twoCap)
		den := new(big.Int).Mul(twoCap, feeBase)
		den.Add(den, new(big.Int).Mul(remaining, slope))
		if den.Sign() <= 0 {
			return nil, errors.New("QuoteFees: degenerate segment")
		}
		return num.Quo(num, den), nil
	}
	if upper == current {
		return InvertFee(remaining, current, shared.RoundingUp)
	}
	// m = (capacity*(B-current) - sqrt(capacity^2*(B-current)^2
	//      - 2*capacity*(upper-current)*out*B)) / (upper-current)
	d := new(big.Int).Mul(capacity, big.NewInt(shared.FeeBase-current))
	disc := new(big.Int).Mul(d, d)
	sub := new(big.Int).Mul(twoCap, slope)
	sub.Mul(sub, remaining)
	sub.Mul(sub, feeBase)
	disc.Sub(disc, sub)
	if disc.Sign() < 0 {
		return nil, errors.New("QuoteFees: segment cannot cover amount")
	}
	num := d.Sub(d, disc.Sqrt(disc))
	num.Add(num, new(big.Int).Sub(slope, big.NewInt(1)))
	return num.Quo(num, slope), nil
}

// fromLedgerUnits converts a ledger-unit amount to the fee-adjusted side of
// the trade: the pre-fee input for mints, the post-fee output for burns.
func fromLedgerUnits(isMint bool, amount *big.Int, fee int64) (*big.Int, error) {
	if isMint {
		return InvertFee(amount, fee, shared.RoundingUp)
	}
	return ApplyFee(amount, fee, shared.RoundingDown)
}

// computeFee settles an amount at a single rate: exact-input quotes apply the
// fee to produce the counter-amount, exact-output quotes invert it.
func computeFee(qt shared.QuoteType, amount *big.Int, fee int64) (*big.Int, error) {
	if qt.IsExactInput() {
		return ApplyFee(amount, fee, shared.RoundingDown)
	}
	return InvertFee(amount, fee, shared.RoundingUp)
}
