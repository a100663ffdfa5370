package helpers

import (
	"errors"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/tidwall/gjson"

	"github.com/krazyTry/parallax-go/transmuter/shared"
	"github.com/krazyTry/parallax-go/u128"
)

// CollateralConfig is the parsed form of one entry of a JSON collateral
// registry:
//
//	{
//	  "asset": "<base58 mint>",
//	  "decimals": 6,
//	  "oracle": { ... },
//	  "feeMint": {"x": [0, 400000000], "y": [0, 2000000]},
//	  "feeBurn": {"x": [1000000000, 400000000], "y": [2000000, 5000000]}
//	}
type CollateralConfig struct {
	Asset        solana.PublicKey
	Decimals     uint8
	OracleConfig []byte
	XFeeMint     []uint64
	YFeeMint     []int64
	XFeeBurn     []uint64
	YFeeBurn     []int64
}

// ParseCollateralConfig parses and validates one collateral registry entry.
func ParseCollateralConfig(doc []byte) (*CollateralConfig, error) {
	if !gjson.ValidBytes(doc) {
		return nil, errors.New("ParseCollateralConfig: invalid JSON")
	}
	root := gjson.ParseBytes(doc)

	asset, err := solana.PublicKeyFromBase58(root.Get("asset").String())
	if err != nil {
		return nil, err
	}
	decimals := root.Get("decimals").Uint()
	if decimals == 0 || decimals > shared.MaxCollateralDecimals {
		return nil, errors.New("ParseCollateralConfig: invalid decimals")
	}
	oracleCfg := root.Get("oracle")
	if !oracleCfg.Exists() {
		return nil, errors.New("ParseCollateralConfig: missing oracle config")
	}

	xMint, yMint, err := parseCurve(root.Get("feeMint"), true)
	if err != nil {
		return nil, err
	}
	xBurn, yBurn, err := parseCurve(root.Get("feeBurn"), false)
	if err != nil {
		return nil, err
	}

	return &CollateralConfig{
		Asset:        asset,
		Decimals:     uint8(decimals),
		OracleConfig: []byte(oracleCfg.Raw),
		XFeeMint:     xMint,
		YFeeMint:     yMint,
		XFeeBurn:     xBurn,
		YFeeBurn:     yBurn,
	}, nil
}

func parseCurve(node gjson.Result, mint bool) ([]uint64, []int64, error) {
	if !node.Exists() {
		return nil, nil, errors.New("ParseCollateralConfig: missing fee curve")
	}
	var xFee []uint64
	var yFee []int64
	for _, v := range node.Get("x").Array() {
		xFee = append(xFee, v.Uint())
	}
	for _, v := range node.Get("y").Array() {
		yFee = append(yFee, v.Int())
	}
	if err := CheckFees(xFee, yFee, mint); err != nil {
		return nil, nil, err
	}
	return xFee, yFee, nil
}

// ParseNormalizer reads a 27-decimal normalizer value, which does not fit in
// 64 bits, from a JSON document's "normalizer" field.
func ParseNormalizer(doc []byte) (*big.Int, error) {
	if !gjson.ValidBytes(doc) {
		return nil, errors.New("ParseNormalizer: invalid JSON")
	}
	raw := gjson.GetBytes(doc, "normalizer").String()
	if raw == "" {
		return new(big.Int).Set(shared.NormalizerBase), nil
	}
	v, err := u128.FromString(raw)
	if err != nil {
		return nil, err
	}
	n := v.BigInt()
	if n.Cmp(shared.MinNormalizer) <= 0 || n.Cmp(shared.MaxNormalizer) >= 0 {
		return nil, errors.New("ParseNormalizer: normalizer out of range")
	}
	return n, nil
}
