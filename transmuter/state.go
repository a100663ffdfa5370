package transmuter

import (
	"math/big"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/parallax-go/manager"
	"github.com/krazyTry/parallax-go/oracle"
	"github.com/krazyTry/parallax-go/transmuter/shared"
)

// TokenMover is the token-movement collaborator: it pulls collateral in and
// mints stables on a mint, burns stables and pushes collateral out on a
// burn. Amounts are literal token units.
type TokenMover interface {
	// TransferCollateral moves collateral between the caller, the engine
	// and the recipient. toManager routes an inbound transfer to the
	// asset's manager target instead of the engine's own account.
	TransferCollateral(asset, from, to solana.PublicKey, amount *big.Int, toManager bool) error
	MintStable(to solana.PublicKey, amount *big.Int) error
	BurnStable(from solana.PublicKey, amount *big.Int) error
}

// Transmuter is the pricing core of the protocol: the global ledger, the
// per-collateral records and the collaborators quoting and settlement need.
// It is a single owned aggregate; callers serialize state-changing calls.
type Transmuter struct {
	stableMint solana.PublicKey

	// normalizedStables is the total stablecoin supply in normalized
	// units; normalizer converts normalized units to literal token units
	// and changes only through UpdateNormalizer.
	normalizedStables *big.Int
	normalizer        *big.Int

	collateralList []solana.PublicKey
	collaterals    map[solana.PublicKey]*shared.Collateral

	trusted        map[solana.PublicKey]bool
	trustedSellers map[solana.PublicKey]bool

	priceSource oracle.PriceSource
	manager     manager.Manager
	mover       TokenMover
	clock       func() time.Time
}

func NewTransmuter(stableMint solana.PublicKey, priceSource oracle.PriceSource, mover TokenMover) *Transmuter {
	return &Transmuter{
		stableMint:        stableMint,
		normalizedStables: big.NewInt(0),
		normalizer:        new(big.Int).Set(shared.NormalizerBase),
		collaterals:       make(map[solana.PublicKey]*shared.Collateral),
		trusted:           make(map[solana.PublicKey]bool),
		trustedSellers:    make(map[solana.PublicKey]bool),
		priceSource:       priceSource,
		mover:             mover,
		clock:             time.Now,
	}
}

// SetManager attaches the idle-capital manager used by availability checks
// and collateral revocation.
func (t *Transmuter) SetManager(m manager.Manager) {
	t.manager = m
}

// SetClock overrides the deadline clock.
func (t *Transmuter) SetClock(clock func() time.Time) {
	t.clock = clock
}

func (t *Transmuter) StableMint() solana.PublicKey {
	return t.stableMint
}

// GetCollateralList returns the registered collateral assets. Order carries
// no meaning beyond the swap-and-pop deletion rule.
func (t *Transmuter) GetCollateralList() []solana.PublicKey {
	out := make([]solana.PublicKey, len(t.collateralList))
	copy(out, t.collateralList)
	return out
}

// GetCollateralInfo returns a copy of the per-asset record.
func (t *Transmuter) GetCollateralInfo(asset solana.PublicKey) (shared.Collateral, error) {
	col, err := t.collateral(asset)
	if err != nil {
		return shared.Collateral{}, err
	}
	out := *col
	out.NormalizedStables = new(big.Int).Set(col.NormalizedStables)
	return out, nil
}

// GetIssuedByCollateral reports the stablecoin amount backed by one asset and
// the total issued, both in literal stable units.
func (t *Transmuter) GetIssuedByCollateral(asset solana.PublicKey) (*big.Int, *big.Int, error) {
	col, err := t.collateral(asset)
	if err != nil {
		return nil, nil, err
	}
	return t.denormalize(col.NormalizedStables), t.denormalize(t.normalizedStables), nil
}

func (t *Transmuter) IsTrusted(addr solana.PublicKey) bool {
	return t.trusted[addr]
}

func (t *Transmuter) IsTrustedSeller(addr solana.PublicKey) bool {
	return t.trustedSellers[addr]
}

func (t *Transmuter) collateral(asset solana.PublicKey) (*shared.Collateral, error) {
	col, ok := t.collaterals[asset]
	if !ok || col.Decimals == 0 {
		return nil, shared.ErrNotCollateral
	}
	return col, nil
}

// normalize converts literal stable units to normalized ledger units.
func (t *Transmuter) normalize(amount *big.Int) *big.Int {
	v := new(big.Int).Mul(amount, shared.NormalizerBase)
	return v.Quo(v, t.normalizer)
}

// denormalize converts normalized ledger units to literal stable units.
func (t *Transmuter) denormalize(amount *big.Int) *big.Int {
	v := new(big.Int).Mul(amount, t.normalizer)
	return v.Quo(v, shared.NormalizerBase)
}
