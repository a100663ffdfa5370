package manager

import (
	"errors"
	"math/big"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Manager is the idle-capital collaborator: collateral under a manager may be
// deployed to yield strategies, and only the immediately available part can
// back a payout.
type Manager interface {
	// MaxAvailable reports the collateral amount (literal token units)
	// that can be paid out right now without unwinding a strategy.
	MaxAvailable(asset solana.PublicKey) (*big.Int, error)
	// PullAll recalls every deployed unit of an asset; used when a
	// manager is detached or a collateral revoked.
	PullAll(asset solana.PublicKey, config []byte) error
}

type vaultPosition struct {
	available *big.Int
	deployed  *big.Int
}

// Vault is an in-memory Manager that tracks available versus deployed
// balances per asset.
type Vault struct {
	mu        sync.Mutex
	positions map[solana.PublicKey]*vaultPosition
}

func NewVault() *Vault {
	return &Vault{positions: make(map[solana.PublicKey]*vaultPosition)}
}

// Fund credits an asset's available balance.
func (v *Vault) Fund(asset solana.PublicKey, amount *big.Int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.position(asset).available.Add(v.position(asset).available, amount)
}

// Deploy moves available balance into a strategy.
func (v *Vault) Deploy(asset solana.PublicKey, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	p := v.position(asset)
	if amount.Cmp(p.available) > 0 {
		return errors.New("manager: deploy exceeds available balance")
	}
	p.available.Sub(p.available, amount)
	p.deployed.Add(p.deployed, amount)
	return nil
}

func (v *Vault) MaxAvailable(asset solana.PublicKey) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return new(big.Int).Set(v.position(asset).available), nil
}

func (v *Vault) PullAll(asset solana.PublicKey, config []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	p := v.position(asset)
	p.available.Add(p.available, p.deployed)
	p.deployed.SetInt64(0)
	return nil
}

func (v *Vault) position(asset solana.PublicKey) *vaultPosition {
	p, ok := v.positions[asset]
	if !ok {
		p = &vaultPosition{available: big.NewInt(0), deployed: big.NewInt(0)}
		v.positions[asset] = p
	}
	return p
}
