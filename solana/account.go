package solana

import (
	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

type AccountState uint8

const (
	AccountStateUninitialized AccountState = 0
	AccountStateInitialized   AccountState = 1
	AccountStateFrozen        AccountState = 2
)

// Account is a decoded SPL token account, the custody unit the mover reads
// when checking balances before building a transfer.
type Account struct {
	Address solana.PublicKey
	Mint    solana.PublicKey
	Owner   solana.PublicKey
	Amount  uint64

	IsInitialized bool
	IsFrozen      bool
}

// tokenAccountLayout mirrors the SPL token account wire layout.
type tokenAccountLayout struct {
	Mint                 solana.PublicKey
	Owner                solana.PublicKey
	Amount               uint64
	DelegateOption       uint32
	Delegate             *solana.PublicKey
	State                uint8
	IsNativeOption       uint32
	IsNative             *uint64
	DelegatedAmount      uint64
	CloseAuthorityOption uint32
	CloseAuthority       *solana.PublicKey
}

type AccountLayout struct {
}

func (l *AccountLayout) Decode(data []byte) (*Account, error) {
	rawAccount := &tokenAccountLayout{}
	if err := binary.NewBinDecoder(data).Decode(rawAccount); err != nil {
		return nil, err
	}
	return &Account{
		Mint:          rawAccount.Mint,
		Owner:         rawAccount.Owner,
		Amount:        rawAccount.Amount,
		IsInitialized: AccountState(rawAccount.State) != AccountStateUninitialized,
		IsFrozen:      AccountState(rawAccount.State) == AccountStateFrozen,
	}, nil
}
