package transmuter

import (
	"errors"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/parallax-go/oracle"
	"github.com/krazyTry/parallax-go/transmuter/helpers"
	tmath "github.com/krazyTry/parallax-go/transmuter/math"
	"github.com/krazyTry/parallax-go/transmuter/shared"
)

// AddCollateral registers a new collateral asset. It starts with a zero
// balance and both directions paused until fee curves are set and unpaused.
func (t *Transmuter) AddCollateral(asset solana.PublicKey, decimals uint8, oracleConfig []byte) error {
	if decimals == 0 || decimals > shared.MaxCollateralDecimals {
		return errors.New("AddCollateral: invalid decimals")
	}
	if asset.Equals(t.stableMint) {
		return shared.ErrInvalidTokens
	}
	if col, ok := t.collaterals[asset]; ok && col.Decimals != 0 {
		return errors.New("AddCollateral: already registered")
	}
	if _, err := oracle.ParseConfig(oracleConfig); err != nil {
		return err
	}
	t.collaterals[asset] = &shared.Collateral{
		Decimals:          decimals,
		NormalizedStables: big.NewInt(0),
		OracleConfig:      oracleConfig,
		PausedMint:        true,
		PausedBurn:        true,
	}
	t.collateralList = append(t.collateralList, asset)
	return nil
}

// AddCollateralFromConfig registers a collateral from a parsed registry
// entry, fee curves included.
func (t *Transmuter) AddCollateralFromConfig(decimals uint8, asset solana.PublicKey, oracleConfig []byte, xMint []uint64, yMint []int64, xBurn []uint64, yBurn []int64) error {
	if err := t.AddCollateral(asset, decimals, oracleConfig); err != nil {
		return err
	}
	if err := t.SetFees(asset, xMint, yMint, true); err != nil {
		return err
	}
	return t.SetFees(asset, xBurn, yBurn, false)
}

// RevokeCollateral removes an asset entirely. Permitted only when its
// normalized balance is exactly zero; any manager funds are pulled back
// first. Removal swaps with the last list entry and pops.
func (t *Transmuter) RevokeCollateral(asset solana.PublicKey) error {
	col, err := t.collateral(asset)
	if err != nil {
		return err
	}
	if col.NormalizedStables.Sign() != 0 {
		return errors.New("RevokeCollateral: collateral still backs supply")
	}
	if col.ManagerEnabled && t.manager != nil {
		if err := t.manager.PullAll(asset, col.ManagerConfig); err != nil {
			return err
		}
	}
	delete(t.collaterals, asset)
	for i, a := range t.collateralList {
		if a.Equals(asset) {
			last := len(t.collateralList) - 1
			t.collateralList[i] = t.collateralList[last]
			t.collateralList = t.collateralList[:last]
			break
		}
	}
	return nil
}

// SetFees replaces one of an asset's fee curves after validating the
// breakpoint conventions the quote path relies on.
func (t *Transmuter) SetFees(asset solana.PublicKey, xFee []uint64, yFee []int64, mint bool) error {
	col, err := t.collateral(asset)
	if err != nil {
		return err
	}
	if err := helpers.CheckFees(xFee, yFee, mint); err != nil {
		return err
	}
	if mint {
		col.XFeeMint = append([]uint64(nil), xFee...)
		col.YFeeMint = append([]int64(nil), yFee...)
	} else {
		col.XFeeBurn = append([]uint64(nil), xFee...)
		col.YFeeBurn = append([]int64(nil), yFee...)
	}
	return nil
}

// TogglePause flips the pause flag of one direction for an asset.
func (t *Transmuter) TogglePause(asset solana.PublicKey, mint bool) error {
	col, err := t.collateral(asset)
	if err != nil {
		return err
	}
	if mint {
		col.PausedMint = !col.PausedMint
	} else {
		col.PausedBurn = !col.PausedBurn
	}
	return nil
}

// SetOracleConfig replaces an asset's oracle descriptor.
func (t *Transmuter) SetOracleConfig(asset solana.PublicKey, config []byte) error {
	col, err := t.collateral(asset)
	if err != nil {
		return err
	}
	if _, err := oracle.ParseConfig(config); err != nil {
		return err
	}
	col.OracleConfig = config
	return nil
}

// SetManagerConfig attaches or updates an asset's manager linkage; a nil
// config detaches the manager and pulls all deployed funds back.
func (t *Transmuter) SetManagerConfig(asset solana.PublicKey, config []byte) error {
	col, err := t.collateral(asset)
	if err != nil {
		return err
	}
	if config == nil {
		if col.ManagerEnabled && t.manager != nil {
			if err := t.manager.PullAll(asset, col.ManagerConfig); err != nil {
				return err
			}
		}
		col.ManagerEnabled = false
		col.ManagerConfig = nil
		return nil
	}
	col.ManagerEnabled = true
	col.ManagerConfig = config
	return nil
}

// ToggleTrusted flips an address's membership in one of the trusted sets.
func (t *Transmuter) ToggleTrusted(addr solana.PublicKey, kind shared.TrustKind) {
	switch kind {
	case shared.TrustKindSeller:
		t.trustedSellers[addr] = !t.trustedSellers[addr]
	default:
		t.trusted[addr] = !t.trusted[addr]
	}
}

// AdjustStablecoins directly corrects an asset's backing, applying the same
// delta to the per-asset and global counters. Trusted callers only.
func (t *Transmuter) AdjustStablecoins(caller, asset solana.PublicKey, amount *big.Int, increase bool) error {
	if !t.trusted[caller] {
		return shared.ErrNotTrusted
	}
	col, err := t.collateral(asset)
	if err != nil {
		return err
	}
	delta := t.normalize(amount)
	if increase {
		col.NormalizedStables.Add(col.NormalizedStables, delta)
		t.normalizedStables.Add(t.normalizedStables, delta)
		return nil
	}
	newCol, err := tmath.Sub(col.NormalizedStables, delta)
	if err != nil {
		return err
	}
	newTotal, err := tmath.Sub(t.normalizedStables, delta)
	if err != nil {
		return err
	}
	col.NormalizedStables.Set(newCol)
	t.normalizedStables.Set(newTotal)
	return nil
}

// UpdateNormalizer rebases the scale factor between normalized units and
// literal stable units, e.g. after interest accrual. The normalizer and the
// counters it scales form one atomic unit: when the rebase pushes the
// normalizer outside its working range, every counter is refolded and the
// normalizer reset in the same operation. Trusted callers only.
func (t *Transmuter) UpdateNormalizer(caller solana.PublicKey, amount *big.Int, increase bool) error {
	if !t.trusted[caller] {
		return shared.ErrNotTrusted
	}
	if t.normalizedStables.Sign() == 0 {
		return errors.New("UpdateNormalizer: no supply to rebase")
	}
	// normalizer' = normalizer * (issued ± amount) / issued, with issued
	// in literal units.
	issued := t.denormalize(t.normalizedStables)
	var target *big.Int
	if increase {
		target = new(big.Int).Add(issued, amount)
	} else {
		var err error
		target, err = tmath.Sub(issued, amount)
		if err != nil {
			return err
		}
		if target.Sign() == 0 {
			return errors.New("UpdateNormalizer: rebase to zero supply")
		}
	}
	newNormalizer, err := tmath.MulDiv(t.normalizer, target, issued, shared.RoundingDown)
	if err != nil {
		return err
	}

	if newNormalizer.Cmp(shared.MinNormalizer) <= 0 || newNormalizer.Cmp(shared.MaxNormalizer) >= 0 {
		// Fold the drift into the counters and reset the scale. The global
		// counter is rebuilt from the folded parts: each fold truncates on
		// its own, and truncating the global independently would let it
		// drift away from the per-asset sum.
		total := big.NewInt(0)
		for _, asset := range t.collateralList {
			col := t.collaterals[asset]
			v := new(big.Int).Mul(col.NormalizedStables, newNormalizer)
			col.NormalizedStables = v.Quo(v, shared.NormalizerBase)
			total.Add(total, col.NormalizedStables)
		}
		t.normalizedStables = total
		newNormalizer = new(big.Int).Set(shared.NormalizerBase)
	}
	t.normalizer = newNormalizer
	return nil
}
