package transmuter

import (
	"math/big"

	"github.com/gagliardetto/solana-go"

	tmath "github.com/krazyTry/parallax-go/transmuter/math"
	"github.com/krazyTry/parallax-go/transmuter/shared"
)

// SwapExactInput settles a swap with a fixed input amount. caller provides
// tokenIn, to receives tokenOut; deadline is a unix timestamp the settlement
// must not start after; amountOutMin is the slippage floor. Amounts are
// literal token units.
func (t *Transmuter) SwapExactInput(caller solana.PublicKey, amountIn, amountOutMin *big.Int, tokenIn, tokenOut, to solana.PublicKey, deadline int64) (shared.SwapResult, error) {
	mint, asset, err := t.prepareSwap(tokenIn, tokenOut, amountIn, deadline)
	if err != nil {
		return shared.SwapResult{}, err
	}
	var amountOut *big.Int
	if mint {
		amountOut, err = t.QuoteMintExactInput(asset, amountIn)
	} else {
		amountOut, err = t.QuoteBurnExactInput(asset, amountIn)
	}
	if err != nil {
		return shared.SwapResult{}, err
	}
	if amountOut.Cmp(amountOutMin) < 0 {
		return shared.SwapResult{}, shared.ErrTooSmallAmountOut
	}
	if err := t.settle(caller, to, asset, mint, amountIn, amountOut); err != nil {
		return shared.SwapResult{}, err
	}
	return shared.SwapResult{AmountIn: amountIn, AmountOut: amountOut}, nil
}

// SwapExactOutput settles a swap with a fixed output amount; amountInMax is
// the slippage ceiling.
func (t *Transmuter) SwapExactOutput(caller solana.PublicKey, amountOut, amountInMax *big.Int, tokenIn, tokenOut, to solana.PublicKey, deadline int64) (shared.SwapResult, error) {
	mint, asset, err := t.prepareSwap(tokenIn, tokenOut, amountOut, deadline)
	if err != nil {
		return shared.SwapResult{}, err
	}
	var amountIn *big.Int
	if mint {
		amountIn, err = t.QuoteMintExactOutput(asset, amountOut)
	} else {
		amountIn, err = t.QuoteBurnExactOutput(asset, amountOut)
	}
	if err != nil {
		return shared.SwapResult{}, err
	}
	if amountIn.Cmp(amountInMax) > 0 {
		return shared.SwapResult{}, shared.ErrTooBigAmountIn
	}
	if err := t.settle(caller, to, asset, mint, amountIn, amountOut); err != nil {
		return shared.SwapResult{}, err
	}
	return shared.SwapResult{AmountIn: amountIn, AmountOut: amountOut}, nil
}

// direction resolves mint-vs-burn from the ordered token pair: the side that
// is the stablecoin singleton fixes the direction, the other side is the
// collateral asset.
func (t *Transmuter) direction(tokenIn, tokenOut solana.PublicKey) (bool, solana.PublicKey, error) {
	inIsStable := tokenIn.Equals(t.stableMint)
	outIsStable := tokenOut.Equals(t.stableMint)
	if inIsStable == outIsStable {
		return false, solana.PublicKey{}, shared.ErrInvalidTokens
	}
	if outIsStable {
		return true, tokenIn, nil
	}
	return false, tokenOut, nil
}

func (t *Transmuter) prepareSwap(tokenIn, tokenOut solana.PublicKey, amount *big.Int, deadline int64) (bool, solana.PublicKey, error) {
	mint, asset, err := t.direction(tokenIn, tokenOut)
	if err != nil {
		return false, solana.PublicKey{}, err
	}
	col, err := t.collateral(asset)
	if err != nil {
		return false, solana.PublicKey{}, err
	}
	if (mint && col.PausedMint) || (!mint && col.PausedBurn) {
		return false, solana.PublicKey{}, shared.ErrPaused
	}
	if amount == nil || amount.Sign() <= 0 {
		return false, solana.PublicKey{}, shared.ErrInvalidSwap
	}
	if t.clock().Unix() > deadline {
		return false, solana.PublicKey{}, shared.ErrTooLate
	}
	return mint, asset, nil
}

// settle mutates the ledger and delegates token movement. The stable-side
// amount is converted to normalized units once and the same delta is applied
// to the per-asset and the global counter, preserving
// sum(collateral.normalizedStables) == global.normalizedStables.
func (t *Transmuter) settle(caller, to, asset solana.PublicKey, mint bool, amountIn, amountOut *big.Int) error {
	col := t.collaterals[asset]

	var stableSide *big.Int
	if mint {
		stableSide = amountOut
	} else {
		stableSide = amountIn
	}
	delta := t.normalize(stableSide)

	if mint {
		col.NormalizedStables.Add(col.NormalizedStables, delta)
		t.normalizedStables.Add(t.normalizedStables, delta)
	} else {
		// Deployed collateral must be immediately available; a shortfall
		// is a swap failure, never a partial fill.
		if col.ManagerEnabled && t.manager != nil {
			avail, err := t.manager.MaxAvailable(asset)
			if err != nil {
				return err
			}
			if avail.Cmp(amountOut) < 0 {
				return shared.ErrInvalidSwap
			}
		}
		newCol, err := tmath.Sub(col.NormalizedStables, delta)
		if err != nil {
			return shared.ErrInvalidSwap
		}
		newTotal, err := tmath.Sub(t.normalizedStables, delta)
		if err != nil {
			return shared.ErrInvalidSwap
		}
		col.NormalizedStables.Set(newCol)
		t.normalizedStables.Set(newTotal)
	}

	if err := t.moveTokens(caller, to, asset, mint, amountIn, amountOut, col.ManagerEnabled); err != nil {
		// Failed transfers abort the settlement; the counters roll back
		// so no partial state survives.
		if mint {
			col.NormalizedStables.Sub(col.NormalizedStables, delta)
			t.normalizedStables.Sub(t.normalizedStables, delta)
		} else {
			col.NormalizedStables.Add(col.NormalizedStables, delta)
			t.normalizedStables.Add(t.normalizedStables, delta)
		}
		return err
	}
	return nil
}

func (t *Transmuter) moveTokens(caller, to, asset solana.PublicKey, mint bool, amountIn, amountOut *big.Int, managed bool) error {
	if mint {
		if err := t.mover.TransferCollateral(asset, caller, solana.PublicKey{}, amountIn, managed); err != nil {
			return err
		}
		return t.mover.MintStable(to, amountOut)
	}
	if err := t.mover.BurnStable(caller, amountIn); err != nil {
		return err
	}
	return t.mover.TransferCollateral(asset, solana.PublicKey{}, to, amountOut, false)
}
