package transmuter

import (
	"errors"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/parallax-go/oracle"
	tmath "github.com/krazyTry/parallax-go/transmuter/math"
	"github.com/krazyTry/parallax-go/transmuter/shared"
)

var (
	priceBase = big.NewInt(shared.PriceBase)
	feeBase   = big.NewInt(shared.FeeBase)
)

// QuoteMintExactInput quotes the stablecoin amount minted for a collateral
// amount, after integrating the mint fee curve. amountIn is in the
// collateral's token units, the result in stable token units.
func (t *Transmuter) QuoteMintExactInput(asset solana.PublicKey, amountIn *big.Int) (*big.Int, error) {
	col, err := t.collateral(asset)
	if err != nil {
		return nil, err
	}
	price, err := t.priceSource.ReadMint(col.OracleConfig)
	if err != nil {
		return nil, err
	}
	// The raw collateral amount reaches the normalized-stable unit once,
	// before the fee walk: fees are defined on stable amounts.
	in18 := tmath.ConvertDecimalTo(amountIn, col.Decimals, shared.StableDecimals)
	v, err := tmath.MulDiv(in18, price, priceBase, shared.RoundingDown)
	if err != nil {
		return nil, err
	}
	out, err := tmath.QuoteFees(shared.MintExactInput, col.XFeeMint, col.YFeeMint, col.NormalizedStables, t.normalizedStables, t.normalize(v))
	if err != nil {
		return nil, err
	}
	return t.denormalize(out), nil
}

// QuoteMintExactOutput quotes the collateral amount required to mint an exact
// stablecoin amount.
func (t *Transmuter) QuoteMintExactOutput(asset solana.PublicKey, amountOut *big.Int) (*big.Int, error) {
	col, err := t.collateral(asset)
	if err != nil {
		return nil, err
	}
	price, err := t.priceSource.ReadMint(col.OracleConfig)
	if err != nil {
		return nil, err
	}
	v, err := tmath.QuoteFees(shared.MintExactOutput, col.XFeeMint, col.YFeeMint, col.NormalizedStables, t.normalizedStables, t.normalize(amountOut))
	if err != nil {
		return nil, err
	}
	in18, err := tmath.MulDiv(t.denormalize(v), priceBase, price, shared.RoundingUp)
	if err != nil {
		return nil, err
	}
	return tmath.ConvertDecimalTo(in18, shared.StableDecimals, col.Decimals), nil
}

// QuoteBurnExactInput quotes the collateral amount paid out for burning an
// exact stablecoin amount, priced conservatively across correlated assets.
func (t *Transmuter) QuoteBurnExactInput(asset solana.PublicKey, amountIn *big.Int) (*big.Int, error) {
	col, err := t.collateral(asset)
	if err != nil {
		return nil, err
	}
	price, minDev, err := t.burnPrice(col)
	if err != nil {
		return nil, err
	}
	s, err := tmath.QuoteFees(shared.BurnExactInput, col.XFeeBurn, col.YFeeBurn, col.NormalizedStables, t.normalizedStables, t.normalize(amountIn))
	if err != nil {
		return nil, err
	}
	// stable value -> collateral units at the deviation-scaled price.
	scaled := new(big.Int).Mul(minDev, priceBase)
	den := new(big.Int).Mul(price, feeBase)
	out18, err := tmath.MulDiv(t.denormalize(s), scaled, den, shared.RoundingDown)
	if err != nil {
		return nil, err
	}
	return tmath.ConvertDecimalTo(out18, shared.StableDecimals, col.Decimals), nil
}

// QuoteBurnExactOutput quotes the stablecoin amount that must be burned to
// receive an exact collateral amount.
func (t *Transmuter) QuoteBurnExactOutput(asset solana.PublicKey, amountOut *big.Int) (*big.Int, error) {
	col, err := t.collateral(asset)
	if err != nil {
		return nil, err
	}
	price, minDev, err := t.burnPrice(col)
	if err != nil {
		return nil, err
	}
	out18 := tmath.ConvertDecimalTo(amountOut, col.Decimals, shared.StableDecimals)
	scaled := new(big.Int).Mul(price, feeBase)
	den := new(big.Int).Mul(minDev, priceBase)
	s, err := tmath.MulDiv(out18, scaled, den, shared.RoundingUp)
	if err != nil {
		return nil, err
	}
	in, err := tmath.QuoteFees(shared.BurnExactOutput, col.XFeeBurn, col.YFeeBurn, col.NormalizedStables, t.normalizedStables, t.normalize(s))
	if err != nil {
		return nil, err
	}
	return t.denormalize(in), nil
}

// QuoteIn quotes the counter-amount for an exact-input swap on an ordered
// token pair, resolving the direction from whichever side is the stablecoin.
func (t *Transmuter) QuoteIn(amountIn *big.Int, tokenIn, tokenOut solana.PublicKey) (*big.Int, error) {
	mint, asset, err := t.direction(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if mint {
		return t.QuoteMintExactInput(asset, amountIn)
	}
	return t.QuoteBurnExactInput(asset, amountIn)
}

// QuoteOut quotes the required input for an exact-output swap on an ordered
// token pair.
func (t *Transmuter) QuoteOut(amountOut *big.Int, tokenIn, tokenOut solana.PublicKey) (*big.Int, error) {
	mint, asset, err := t.direction(tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	if mint {
		return t.QuoteMintExactOutput(asset, amountOut)
	}
	return t.QuoteBurnExactOutput(asset, amountOut)
}

// burnPrice selects the burn-time price for an asset: its own oracle reading
// scaled by the worst (minimum) deviation observed across every registered
// collateral sharing its oracle configuration. If any correlated collateral
// has de-pegged, redemptions through this one price as if it had de-pegged
// too. A failing peer read fails the quote. O(collaterals) per call; no
// caching, deviation can change every block.
func (t *Transmuter) burnPrice(col *shared.Collateral) (*big.Int, *big.Int, error) {
	hash := oracle.ConfigHash(col.OracleConfig)
	price, minDev, err := t.priceSource.ReadBurn(col.OracleConfig)
	if err != nil {
		return nil, nil, err
	}
	if price.Sign() <= 0 {
		return nil, nil, errors.New("burnPrice: non-positive oracle price")
	}
	for _, asset := range t.collateralList {
		peer := t.collaterals[asset]
		if peer == nil || peer.Decimals == 0 {
			continue
		}
		if oracle.ConfigHash(peer.OracleConfig) != hash {
			continue
		}
		_, dev, err := t.priceSource.ReadBurn(peer.OracleConfig)
		if err != nil {
			return nil, nil, err
		}
		if dev.Cmp(minDev) < 0 {
			minDev = dev
		}
	}
	if minDev.Sign() <= 0 {
		return nil, nil, errors.New("burnPrice: degenerate deviation")
	}
	return price, minDev, nil
}
