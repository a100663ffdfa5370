package transmuter

import (
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/parallax-go/manager"
	"github.com/krazyTry/parallax-go/transmuter/shared"
)

// issued reads back the per-asset and total issued amounts and checks the
// sum invariant while at it.
func issued(t *testing.T, e *testEngine, asset solana.PublicKey) (*big.Int, *big.Int) {
	t.Helper()
	byAsset, total, err := e.tr.GetIssuedByCollateral(asset)
	if err != nil {
		t.Fatal("GetIssuedByCollateral() fail", err)
	}
	sum := big.NewInt(0)
	for _, a := range e.tr.GetCollateralList() {
		part, _, err := e.tr.GetIssuedByCollateral(a)
		if err != nil {
			t.Fatal("GetIssuedByCollateral() fail", err)
		}
		sum.Add(sum, part)
	}
	if sum.Cmp(total) != 0 {
		t.Fatalf("sum of per-asset issued = %s, total = %s", sum, total)
	}
	return byAsset, total
}

func TestSwapMintThenBurn(t *testing.T) {
	e, asset := newTestEngine(t)

	res, err := e.tr.SwapExactInput(e.caller, big.NewInt(10_000_000), big.NewInt(0), asset, e.stable, e.caller, 2_000)
	if err != nil {
		t.Fatal("SwapExactInput() fail", err)
	}
	wantOut := new(big.Int).SetUint64(10_000_000_000_000_000_000)
	if res.AmountOut.Cmp(wantOut) != 0 {
		t.Fatalf("amount out = %s, want %s", res.AmountOut, wantOut)
	}
	if e.mover.minted.Cmp(wantOut) != 0 || e.mover.transfers != 1 {
		t.Fatalf("mover minted %s across %d transfers", e.mover.minted, e.mover.transfers)
	}
	byAsset, total := issued(t, e, asset)
	if byAsset.Cmp(wantOut) != 0 || total.Cmp(wantOut) != 0 {
		t.Fatalf("issued = %s / %s", byAsset, total)
	}

	burnIn := big.NewInt(4_000_000_000_000_000_000)
	res, err = e.tr.SwapExactInput(e.caller, burnIn, big.NewInt(0), e.stable, asset, e.caller, 2_000)
	if err != nil {
		t.Fatal("SwapExactInput() fail", err)
	}
	if res.AmountOut.Cmp(big.NewInt(4_000_000)) != 0 {
		t.Fatalf("amount out = %s, want 4000000", res.AmountOut)
	}
	if e.mover.burned.Cmp(burnIn) != 0 {
		t.Fatalf("mover burned %s", e.mover.burned)
	}
	byAsset, total = issued(t, e, asset)
	want := big.NewInt(6_000_000_000_000_000_000)
	if byAsset.Cmp(want) != 0 || total.Cmp(want) != 0 {
		t.Fatalf("issued = %s / %s", byAsset, total)
	}
}

func TestSwapExactOutput(t *testing.T) {
	e, asset := newTestEngine(t)

	res, err := e.tr.SwapExactOutput(e.caller, big.NewInt(1_000_000_000_000_000_000), big.NewInt(1_000_000), asset, e.stable, e.caller, 2_000)
	if err != nil {
		t.Fatal("SwapExactOutput() fail", err)
	}
	if res.AmountIn.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("amount in = %s, want 1000000", res.AmountIn)
	}

	// Slippage ceiling.
	if _, err := e.tr.SwapExactOutput(e.caller, big.NewInt(1_000_000_000_000_000_000), big.NewInt(999_999), asset, e.stable, e.caller, 2_000); err != shared.ErrTooBigAmountIn {
		t.Fatalf("err = %v, want ErrTooBigAmountIn", err)
	}
}

func TestSwapSlippageFloor(t *testing.T) {
	e, asset := newTestEngine(t)
	min := big.NewInt(1_000_000_000_000_000_001)
	if _, err := e.tr.SwapExactInput(e.caller, big.NewInt(1_000_000), min, asset, e.stable, e.caller, 2_000); err != shared.ErrTooSmallAmountOut {
		t.Fatalf("err = %v, want ErrTooSmallAmountOut", err)
	}
}

func TestSwapDeadline(t *testing.T) {
	e, asset := newTestEngine(t)
	if _, err := e.tr.SwapExactInput(e.caller, big.NewInt(1_000_000), big.NewInt(0), asset, e.stable, e.caller, 999); err != shared.ErrTooLate {
		t.Fatalf("err = %v, want ErrTooLate", err)
	}
	// A deadline equal to the clock still settles.
	if _, err := e.tr.SwapExactInput(e.caller, big.NewInt(1_000_000), big.NewInt(0), asset, e.stable, e.caller, 1_000); err != nil {
		t.Fatal("SwapExactInput() fail", err)
	}
}

func TestSwapPaused(t *testing.T) {
	e, asset := newTestEngine(t)
	if err := e.tr.TogglePause(asset, true); err != nil {
		t.Fatal("TogglePause() fail", err)
	}
	if _, err := e.tr.SwapExactInput(e.caller, big.NewInt(1_000_000), big.NewInt(0), asset, e.stable, e.caller, 2_000); err != shared.ErrPaused {
		t.Fatalf("err = %v, want ErrPaused", err)
	}

	// Directions pause independently.
	if err := e.tr.TogglePause(asset, false); err != nil {
		t.Fatal("TogglePause() fail", err)
	}
	if _, err := e.tr.SwapExactInput(e.caller, big.NewInt(1_000_000_000_000_000_000), big.NewInt(0), e.stable, asset, e.caller, 2_000); err != shared.ErrPaused {
		t.Fatalf("err = %v, want ErrPaused", err)
	}
}

func TestSwapRejectsBadPairs(t *testing.T) {
	e, asset := newTestEngine(t)

	if _, err := e.tr.SwapExactInput(e.caller, big.NewInt(1), big.NewInt(0), e.stable, e.stable, e.caller, 2_000); err != shared.ErrInvalidTokens {
		t.Fatalf("err = %v, want ErrInvalidTokens", err)
	}
	if _, err := e.tr.SwapExactInput(e.caller, big.NewInt(1), big.NewInt(0), asset, asset, e.caller, 2_000); err != shared.ErrInvalidTokens {
		t.Fatalf("err = %v, want ErrInvalidTokens", err)
	}
	if _, err := e.tr.SwapExactInput(e.caller, big.NewInt(1), big.NewInt(0), solana.NewWallet().PublicKey(), e.stable, e.caller, 2_000); err != shared.ErrNotCollateral {
		t.Fatalf("err = %v, want ErrNotCollateral", err)
	}
	if _, err := e.tr.SwapExactInput(e.caller, big.NewInt(0), big.NewInt(0), asset, e.stable, e.caller, 2_000); err != shared.ErrInvalidSwap {
		t.Fatalf("err = %v, want ErrInvalidSwap", err)
	}
}

func TestSwapBurnExceedsBacking(t *testing.T) {
	e, asset := newTestEngine(t)
	e.mint(t, asset, 1_000_000)

	over := big.NewInt(2_000_000_000_000_000_000)
	if _, err := e.tr.SwapExactInput(e.caller, over, big.NewInt(0), e.stable, asset, e.caller, 2_000); err != shared.ErrInvalidSwap {
		t.Fatalf("err = %v, want ErrInvalidSwap", err)
	}
	byAsset, _ := issued(t, e, asset)
	if byAsset.Cmp(big.NewInt(1_000_000_000_000_000_000)) != 0 {
		t.Fatalf("issued = %s after failed burn", byAsset)
	}
}

func TestSwapManagerAvailability(t *testing.T) {
	e, asset := newTestEngine(t)
	e.mint(t, asset, 10_000_000)

	vault := manager.NewVault()
	e.tr.SetManager(vault)
	if err := e.tr.SetManagerConfig(asset, []byte(`{}`)); err != nil {
		t.Fatal("SetManagerConfig() fail", err)
	}

	// Everything deployed: the payout cannot be covered.
	vault.Fund(asset, big.NewInt(10_000_000))
	if err := vault.Deploy(asset, big.NewInt(9_800_000)); err != nil {
		t.Fatal("Deploy() fail", err)
	}
	burnIn := big.NewInt(1_000_000_000_000_000_000)
	if _, err := e.tr.SwapExactInput(e.caller, burnIn, big.NewInt(0), e.stable, asset, e.caller, 2_000); err != shared.ErrInvalidSwap {
		t.Fatalf("err = %v, want ErrInvalidSwap", err)
	}

	// Recalling the funds clears the guard.
	if err := vault.PullAll(asset, nil); err != nil {
		t.Fatal("PullAll() fail", err)
	}
	if _, err := e.tr.SwapExactInput(e.caller, burnIn, big.NewInt(0), e.stable, asset, e.caller, 2_000); err != nil {
		t.Fatal("SwapExactInput() fail", err)
	}
}

func TestSwapMintRoutesToManager(t *testing.T) {
	e, asset := newTestEngine(t)
	if err := e.tr.SetManagerConfig(asset, []byte(`{}`)); err != nil {
		t.Fatal("SetManagerConfig() fail", err)
	}
	e.mint(t, asset, 1_000_000)
	if !e.mover.lastManaged {
		t.Fatal("inbound collateral bypassed the manager target")
	}
}

func TestSwapRollbackOnMoverFailure(t *testing.T) {
	e, asset := newTestEngine(t)
	e.mint(t, asset, 10_000_000)
	before, _ := issued(t, e, asset)

	e.mover.failTransfer = true
	if _, err := e.tr.SwapExactInput(e.caller, big.NewInt(1_000_000_000_000_000_000), big.NewInt(0), e.stable, asset, e.caller, 2_000); err == nil {
		t.Fatal("SwapExactInput() settled through a failing mover")
	}
	after, _ := issued(t, e, asset)
	if before.Cmp(after) != 0 {
		t.Fatalf("issued drifted from %s to %s across a failed settlement", before, after)
	}

	// Mint leg fails after the collateral pull: same rollback.
	e.mover.failTransfer = false
	e.mover.failMint = true
	if _, err := e.tr.SwapExactInput(e.caller, big.NewInt(1_000_000), big.NewInt(0), asset, e.stable, e.caller, 2_000); err == nil {
		t.Fatal("SwapExactInput() settled through a failing mover")
	}
	after, _ = issued(t, e, asset)
	if before.Cmp(after) != 0 {
		t.Fatalf("issued drifted from %s to %s across a failed settlement", before, after)
	}
}
