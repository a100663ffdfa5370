package math

import (
	"math/big"
)

// ConvertDecimalTo rescales amount from one token precision to another,
// truncating when precision shrinks.
func ConvertDecimalTo(amount *big.Int, fromDecimals, toDecimals uint8) *big.Int {
	if fromDecimals == toDecimals {
		return new(big.Int).Set(amount)
	}
	if fromDecimals < toDecimals {
		return new(big.Int).Mul(amount, Pow10(uint(toDecimals-fromDecimals)))
	}
	return new(big.Int).Quo(amount, Pow10(uint(fromDecimals-toDecimals)))
}
