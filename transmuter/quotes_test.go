package transmuter

import (
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/parallax-go/transmuter/shared"
)

func TestQuoteMintExactInput(t *testing.T) {
	e, asset := newTestEngine(t)

	// 1 collateral unit at peg price mints 1 stable, 6 -> 18 decimals.
	out, err := e.tr.QuoteMintExactInput(asset, big.NewInt(1_000_000))
	if err != nil {
		t.Fatal("QuoteMintExactInput() fail", err)
	}
	if out.Cmp(big.NewInt(1_000_000_000_000_000_000)) != 0 {
		t.Fatalf("out = %s, want 1e18", out)
	}

	// Price above peg mints proportionally more.
	e.src.SetPrice(asset, big.NewInt(2*shared.PriceBase))
	out, err = e.tr.QuoteMintExactInput(asset, big.NewInt(1_000_000))
	if err != nil {
		t.Fatal("QuoteMintExactInput() fail", err)
	}
	if out.Cmp(big.NewInt(2_000_000_000_000_000_000)) != 0 {
		t.Fatalf("out = %s, want 2e18", out)
	}
}

func TestQuoteMintExactOutput(t *testing.T) {
	e, asset := newTestEngine(t)

	in, err := e.tr.QuoteMintExactOutput(asset, big.NewInt(1_000_000_000_000_000_000))
	if err != nil {
		t.Fatal("QuoteMintExactOutput() fail", err)
	}
	if in.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("in = %s, want 1000000", in)
	}
}

func TestQuoteBurn(t *testing.T) {
	e, asset := newTestEngine(t)
	e.mint(t, asset, 10_000_000)

	out, err := e.tr.QuoteBurnExactInput(asset, big.NewInt(1_000_000_000_000_000_000))
	if err != nil {
		t.Fatal("QuoteBurnExactInput() fail", err)
	}
	if out.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("out = %s, want 1000000", out)
	}

	in, err := e.tr.QuoteBurnExactOutput(asset, big.NewInt(1_000_000))
	if err != nil {
		t.Fatal("QuoteBurnExactOutput() fail", err)
	}
	if in.Cmp(big.NewInt(1_000_000_000_000_000_000)) != 0 {
		t.Fatalf("in = %s, want 1e18", in)
	}
}

func TestQuoteBurnConservativePricing(t *testing.T) {
	e, asset := newTestEngine(t)
	e.mint(t, asset, 10_000_000)

	// A correlated peer trading 10% below peg drags this asset's burn
	// price down with it, even though its own feed reads at peg.
	depegged := big.NewInt(900_000_000_000_000_000)
	e.addAsset(t, "usd", 6, depegged)

	out, err := e.tr.QuoteBurnExactInput(asset, big.NewInt(1_000_000_000_000_000_000))
	if err != nil {
		t.Fatal("QuoteBurnExactInput() fail", err)
	}
	if out.Cmp(big.NewInt(900_000)) != 0 {
		t.Fatalf("out = %s, want 900000", out)
	}

	in, err := e.tr.QuoteBurnExactOutput(asset, big.NewInt(900_000))
	if err != nil {
		t.Fatal("QuoteBurnExactOutput() fail", err)
	}
	if in.Cmp(big.NewInt(1_000_000_000_000_000_000)) != 0 {
		t.Fatalf("in = %s, want 1e18", in)
	}

	// An uncorrelated group never contaminates the scan.
	e.addAsset(t, "eur", 6, big.NewInt(500_000_000_000_000_000))
	out, err = e.tr.QuoteBurnExactInput(asset, big.NewInt(1_000_000_000_000_000_000))
	if err != nil {
		t.Fatal("QuoteBurnExactInput() fail", err)
	}
	if out.Cmp(big.NewInt(900_000)) != 0 {
		t.Fatalf("out = %s, want 900000", out)
	}
}

func TestQuoteBurnPeerReadFailure(t *testing.T) {
	e, asset := newTestEngine(t)
	e.mint(t, asset, 10_000_000)

	// Register a correlated peer without pinning its feed: the scan cannot
	// prove it is healthy, so the quote fails closed.
	peer := solana.NewWallet().PublicKey()
	if err := e.tr.AddCollateralFromConfig(6, peer, oracleDoc(peer, "usd"), flatMintX, flatMintY, flatBurnX, flatBurnY); err != nil {
		t.Fatal("AddCollateralFromConfig() fail", err)
	}
	if _, err := e.tr.QuoteBurnExactInput(asset, big.NewInt(1_000_000_000_000_000_000)); err == nil {
		t.Fatal("QuoteBurnExactInput() ignored a failing peer read")
	}
}

func TestQuoteDispatch(t *testing.T) {
	e, asset := newTestEngine(t)
	e.mint(t, asset, 10_000_000)

	out, err := e.tr.QuoteIn(big.NewInt(1_000_000), asset, e.stable)
	if err != nil {
		t.Fatal("QuoteIn() fail", err)
	}
	if out.Cmp(big.NewInt(1_000_000_000_000_000_000)) != 0 {
		t.Fatalf("mint out = %s, want 1e18", out)
	}

	out, err = e.tr.QuoteIn(big.NewInt(1_000_000_000_000_000_000), e.stable, asset)
	if err != nil {
		t.Fatal("QuoteIn() fail", err)
	}
	if out.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("burn out = %s, want 1000000", out)
	}

	in, err := e.tr.QuoteOut(big.NewInt(1_000_000_000_000_000_000), asset, e.stable)
	if err != nil {
		t.Fatal("QuoteOut() fail", err)
	}
	if in.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("mint in = %s, want 1000000", in)
	}

	if _, err := e.tr.QuoteIn(big.NewInt(1), e.stable, e.stable); err != shared.ErrInvalidTokens {
		t.Fatalf("err = %v, want ErrInvalidTokens", err)
	}
	if _, err := e.tr.QuoteIn(big.NewInt(1), asset, asset); err != shared.ErrInvalidTokens {
		t.Fatalf("err = %v, want ErrInvalidTokens", err)
	}
	if _, err := e.tr.QuoteIn(big.NewInt(1), solana.NewWallet().PublicKey(), e.stable); err != shared.ErrNotCollateral {
		t.Fatalf("err = %v, want ErrNotCollateral", err)
	}
}
