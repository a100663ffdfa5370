package oracle

import (
	"errors"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// StaticSource serves fixed prices keyed by feed account. Used in tests and
// by tooling that replays observed feed states.
type StaticSource struct {
	prices map[solana.PublicKey]*big.Int
}

func NewStaticSource() *StaticSource {
	return &StaticSource{prices: make(map[solana.PublicKey]*big.Int)}
}

// SetPrice pins a feed's price in PriceBase units.
func (s *StaticSource) SetPrice(feed solana.PublicKey, price *big.Int) {
	s.prices[feed] = new(big.Int).Set(price)
}

func (s *StaticSource) ReadMint(config []byte) (*big.Int, error) {
	cfg, err := ParseConfig(config)
	if err != nil {
		return nil, err
	}
	return s.lookup(cfg.Feed)
}

func (s *StaticSource) ReadBurn(config []byte) (*big.Int, *big.Int, error) {
	cfg, err := ParseConfig(config)
	if err != nil {
		return nil, nil, err
	}
	price, err := s.lookup(cfg.Feed)
	if err != nil {
		return nil, nil, err
	}
	return price, Deviation(price, cfg.Target), nil
}

func (s *StaticSource) lookup(feed solana.PublicKey) (*big.Int, error) {
	price, ok := s.prices[feed]
	if !ok {
		return nil, errors.New("oracle: no price pinned for feed")
	}
	if price.Sign() <= 0 {
		return nil, errors.New("oracle: non-positive price")
	}
	return new(big.Int).Set(price), nil
}
