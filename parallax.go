package parallax

import (
	"github.com/krazyTry/parallax-go/transmuter"
)

// NewTransmuter creates the pricing engine for the multi-collateral
// stablecoin.
//
// Example:
//
// engine := parallax.NewTransmuter(stableMint, priceSource, mover)
//
// engine.AddCollateralFromConfig(6, usdcMint, oracleCfg, xMint, yMint, xBurn, yBurn)
//
// engine.SwapExactInput(caller, amountIn, minOut, usdcMint, stableMint, caller, deadline)
var NewTransmuter = transmuter.NewTransmuter
