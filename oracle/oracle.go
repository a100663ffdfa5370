package oracle

import (
	"errors"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/tidwall/gjson"
	"lukechampine.com/blake3"

	"github.com/krazyTry/parallax-go/transmuter/shared"
)

// PriceSource is the price-feed collaborator consumed by the quoting engine.
// ReadMint returns the collateral price in PriceBase units (stable per
// collateral unit at 18 decimals). ReadBurn additionally returns the feed's
// deviation from its target peg as a FeeBase ratio, FeeBase meaning no
// deviation; the deviation never exceeds FeeBase.
type PriceSource interface {
	ReadMint(config []byte) (*big.Int, error)
	ReadBurn(config []byte) (*big.Int, *big.Int, error)
}

// Config is the parsed form of a collateral's oracle descriptor:
//
//	{"feed": "<base58 account>", "target": "1000000000000000000", "group": "usd"}
//
// target is the peg price in PriceBase units used for deviation measurement.
// group is an optional correlation label consumed by ConfigHash.
type Config struct {
	Feed   solana.PublicKey
	Target *big.Int
}

func ParseConfig(raw []byte) (*Config, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("oracle: invalid config JSON")
	}
	root := gjson.ParseBytes(raw)
	feed, err := solana.PublicKeyFromBase58(root.Get("feed").String())
	if err != nil {
		return nil, err
	}
	target, ok := new(big.Int).SetString(root.Get("target").String(), 10)
	if !ok || target.Sign() <= 0 {
		return nil, errors.New("oracle: invalid target price")
	}
	return &Config{Feed: feed, Target: target}, nil
}

// ConfigHash groups collateral assets that share one oracle configuration.
// Configs carrying a "group" label hash by the label, so correlated assets
// with distinct feed accounts still land in one group; otherwise the whole
// document is hashed. The conservative burn-price scan treats assets with
// equal hashes as correlated.
func ConfigHash(raw []byte) [32]byte {
	if g := gjson.GetBytes(raw, "group"); g.Exists() {
		return blake3.Sum256([]byte(g.String()))
	}
	return blake3.Sum256(raw)
}

// Deviation measures how far a reported price has fallen below its target
// peg, as a FeeBase ratio capped at FeeBase. Prices above target do not
// grant a premium.
func Deviation(price, target *big.Int) *big.Int {
	if price.Cmp(target) >= 0 {
		return big.NewInt(shared.FeeBase)
	}
	dev := new(big.Int).Mul(price, big.NewInt(shared.FeeBase))
	return dev.Quo(dev, target)
}
