package shared

import (
	"math/big"
)

const (
	MaxCurvePoint = 16

	// FeeBase is the fixed-point unit for fee rates, exposure fractions and
	// oracle deviation ratios. A fee of FeeBase would be 100%.
	FeeBase = 1_000_000_000

	// PriceBase is the fixed-point unit for oracle prices, expressed as
	// stable units per collateral unit at 18 decimals.
	PriceBase = 1_000_000_000_000_000_000

	// StableDecimals is the native precision of the stablecoin; every token
	// amount is renormalized to it before a price or fee step.
	StableDecimals = 18

	MaxCollateralDecimals = 18
)

// NormalizerBase converts normalized ledger units to literal stable units.
// The normalizer starts here and is folded back here whenever a rebase pushes
// it outside (MinNormalizer, MaxNormalizer).
var (
	NormalizerBase = new(big.Int).Exp(big.NewInt(10), big.NewInt(27), nil)
	MinNormalizer  = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	MaxNormalizer  = new(big.Int).Exp(big.NewInt(10), big.NewInt(36), nil)
)

type Rounding uint8

const (
	RoundingDown Rounding = 0
	RoundingUp   Rounding = 1
)

// QuoteType fixes which side of a swap is given and which is solved for.
type QuoteType uint8

const (
	MintExactInput  QuoteType = 0
	MintExactOutput QuoteType = 1
	BurnExactInput  QuoteType = 2
	BurnExactOutput QuoteType = 3
)

func (q QuoteType) IsMint() bool {
	return q == MintExactInput || q == MintExactOutput
}

func (q QuoteType) IsExactInput() bool {
	return q == MintExactInput || q == BurnExactInput
}

type TrustKind uint8

const (
	TrustKindGovernance TrustKind = 0
	TrustKindSeller     TrustKind = 1
)

// Collateral is the per-asset ledger record. Decimals == 0 doubles as the
// "not registered" sentinel, so registered assets must carry 1..18 decimals.
type Collateral struct {
	Decimals          uint8
	NormalizedStables *big.Int

	// OracleConfig is an opaque JSON descriptor owned by the oracle package.
	OracleConfig []byte

	// Piecewise-linear fee curves. X values are exposure fractions in
	// FeeBase units, Y values are signed fee rates in FeeBase units.
	// Mint X is strictly increasing from 0; burn X is strictly decreasing
	// from FeeBase.
	XFeeMint []uint64
	YFeeMint []int64
	XFeeBurn []uint64
	YFeeBurn []int64

	PausedMint bool
	PausedBurn bool

	ManagerEnabled bool
	ManagerConfig  []byte
}

// SwapResult reports both legs of a settled swap in literal token units.
type SwapResult struct {
	AmountIn  *big.Int
	AmountOut *big.Int
}
