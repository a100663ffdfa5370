package solana

import (
	"context"
	"errors"
	"math/big"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// Mover implements the engine's token-movement contract by accumulating SPL
// token instructions. The caller drains Instructions() into a transaction
// after a successful settlement.
type Mover struct {
	ctx       context.Context
	rpcClient *rpc.Client

	payer solana.PublicKey
	// vault owns the engine's collateral custody accounts and is the
	// stablecoin mint authority.
	vault      solana.PublicKey
	stableMint solana.PublicKey

	decimals       map[solana.PublicKey]uint8
	managerTargets map[solana.PublicKey]solana.PublicKey

	instructions []solana.Instruction
}

func NewMover(ctx context.Context, rpcClient *rpc.Client, payer, vault, stableMint solana.PublicKey) *Mover {
	return &Mover{
		ctx:            ctx,
		rpcClient:      rpcClient,
		payer:          payer,
		vault:          vault,
		stableMint:     stableMint,
		decimals:       make(map[solana.PublicKey]uint8),
		managerTargets: make(map[solana.PublicKey]solana.PublicKey),
	}
}

// RegisterAsset records a collateral mint's decimals, needed by checked
// transfers.
func (m *Mover) RegisterAsset(asset solana.PublicKey, decimals uint8) {
	m.decimals[asset] = decimals
}

// SetManagerTarget routes inbound transfers of an asset to its manager's
// deposit account instead of the vault.
func (m *Mover) SetManagerTarget(asset, target solana.PublicKey) {
	m.managerTargets[asset] = target
}

// Instructions returns the accumulated instructions and resets the buffer.
func (m *Mover) Instructions() []solana.Instruction {
	out := m.instructions
	m.instructions = nil
	return out
}

// TransferCollateral moves collateral tokens. A zero `from` means the vault
// pays out; a zero `to` means the vault (or the asset's manager target when
// toManager is set) receives.
func (m *Mover) TransferCollateral(asset, from, to solana.PublicKey, amount *big.Int, toManager bool) error {
	decimals, ok := m.decimals[asset]
	if !ok {
		return errors.New("mover: unknown asset")
	}
	if !amount.IsUint64() {
		return errors.New("mover: amount overflows u64")
	}

	sender := from
	if sender.IsZero() {
		sender = m.vault
	}
	receiver := to
	if receiver.IsZero() {
		receiver = m.vault
		if toManager {
			if target, ok := m.managerTargets[asset]; ok {
				receiver = target
			}
		}
	}

	sendATA, err := m.prepareATA(sender, asset)
	if err != nil {
		return err
	}
	receiveATA, err := m.prepareATA(receiver, asset)
	if err != nil {
		return err
	}

	ix := token.NewTransferCheckedInstruction(
		amount.Uint64(),
		decimals,
		sendATA,
		asset,
		receiveATA,
		sender,
		[]solana.PublicKey{},
	).Build()
	m.instructions = append(m.instructions, ix)
	return nil
}

func (m *Mover) MintStable(to solana.PublicKey, amount *big.Int) error {
	if !amount.IsUint64() {
		return errors.New("mover: amount overflows u64")
	}
	toATA, err := m.prepareATA(to, m.stableMint)
	if err != nil {
		return err
	}
	ix := token.NewMintToInstruction(
		amount.Uint64(),
		m.stableMint,
		toATA,
		m.vault,
		[]solana.PublicKey{},
	).Build()
	m.instructions = append(m.instructions, ix)
	return nil
}

func (m *Mover) BurnStable(from solana.PublicKey, amount *big.Int) error {
	if !amount.IsUint64() {
		return errors.New("mover: amount overflows u64")
	}
	fromATA, err := m.prepareATA(from, m.stableMint)
	if err != nil {
		return err
	}
	ix := token.NewBurnInstruction(
		amount.Uint64(),
		fromATA,
		m.stableMint,
		from,
		[]solana.PublicKey{},
	).Build()
	m.instructions = append(m.instructions, ix)
	return nil
}

// prepareATA resolves an owner's associated token account, appending a
// create instruction when the account does not exist yet.
func (m *Mover) prepareATA(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	tokenATA, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if m.rpcClient == nil {
		return tokenATA, nil
	}
	exists, err := m.rpcClient.GetAccountInfoWithOpts(m.ctx, tokenATA, &rpc.GetAccountInfoOpts{Commitment: rpc.CommitmentFinalized})
	if err != nil && err != rpc.ErrNotFound {
		return solana.PublicKey{}, err
	}
	if exists == nil {
		ix := associatedtokenaccount.NewCreateInstruction(m.payer, owner, mint).Build()
		m.instructions = append(m.instructions, ix)
	}
	return tokenATA, nil
}

// Balance decodes the current token balance of an owner's associated
// account.
func (m *Mover) Balance(owner, mint solana.PublicKey) (*big.Int, error) {
	tokenATA, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	out, err := m.rpcClient.GetAccountInfoWithOpts(m.ctx, tokenATA, &rpc.GetAccountInfoOpts{Commitment: rpc.CommitmentFinalized})
	if err != nil {
		return nil, err
	}
	if out == nil || out.Value == nil {
		return big.NewInt(0), nil
	}
	account, err := new(AccountLayout).Decode(out.Value.Data.GetBinary())
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(account.Amount), nil
}
