package shared

import "errors"

// Failure kinds surfaced by quoting and settlement. Every failure aborts the
// whole operation with no partial ledger mutation.
var (
	ErrPaused            = errors.New("Collateral is paused for this direction")
	ErrInvalidTokens     = errors.New("Neither side of the pair is the stablecoin")
	ErrNotCollateral     = errors.New("Asset is not a registered collateral")
	ErrTooLate           = errors.New("Deadline has passed")
	ErrTooSmallAmountOut = errors.New("Amount out is below the caller minimum")
	ErrTooBigAmountIn    = errors.New("Amount in is above the caller maximum")
	ErrInvalidSwap       = errors.New("Swap cannot be settled")
	ErrNotTrusted        = errors.New("Caller is not trusted")
)
