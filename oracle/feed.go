package oracle

import (
	"context"
	"errors"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/krazyTry/parallax-go/transmuter/math"
)

// priceAccountLayout is the on-chain layout of a feed account: a price
// mantissa with a decimal exponent plus staleness metadata.
type priceAccountLayout struct {
	Version     uint32
	Status      uint8
	Exponent    int32
	Price       int64
	Confidence  uint64
	PublishSlot uint64
}

const priceStatusTrading = 1

// FeedSource reads prices from feed accounts over RPC.
type FeedSource struct {
	rpcClient *rpc.Client
	ctx       context.Context
}

func NewFeedSource(ctx context.Context, rpcClient *rpc.Client) *FeedSource {
	return &FeedSource{rpcClient: rpcClient, ctx: ctx}
}

func (f *FeedSource) ReadMint(config []byte) (*big.Int, error) {
	cfg, err := ParseConfig(config)
	if err != nil {
		return nil, err
	}
	return f.readPrice(cfg.Feed)
}

func (f *FeedSource) ReadBurn(config []byte) (*big.Int, *big.Int, error) {
	cfg, err := ParseConfig(config)
	if err != nil {
		return nil, nil, err
	}
	price, err := f.readPrice(cfg.Feed)
	if err != nil {
		return nil, nil, err
	}
	return price, Deviation(price, cfg.Target), nil
}

func (f *FeedSource) readPrice(feed solana.PublicKey) (*big.Int, error) {
	out, err := f.rpcClient.GetAccountInfoWithOpts(f.ctx, feed, &rpc.GetAccountInfoOpts{Commitment: rpc.CommitmentFinalized})
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return nil, errors.New("oracle: feed account not found")
	}
	var layout priceAccountLayout
	if err := binary.NewBorshDecoder(out.Value.Data.GetBinary()).Decode(&layout); err != nil {
		return nil, err
	}
	return priceFromLayout(&layout)
}

// priceFromLayout rescales the feed mantissa to PriceBase (18 decimals).
func priceFromLayout(layout *priceAccountLayout) (*big.Int, error) {
	if layout.Status != priceStatusTrading {
		return nil, errors.New("oracle: feed is not trading")
	}
	if layout.Price <= 0 {
		return nil, errors.New("oracle: non-positive price")
	}
	price := big.NewInt(layout.Price)
	// Exponent is the feed's decimal scale: price * 10^exponent is the
	// literal value.
	decimals := -layout.Exponent
	if decimals < 0 {
		price.Mul(price, math.Pow10(uint(-decimals)))
		decimals = 0
	}
	if decimals > 38 {
		return nil, errors.New("oracle: exponent out of range")
	}
	return math.ConvertDecimalTo(price, uint8(decimals), 18), nil
}
