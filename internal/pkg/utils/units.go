package utils

import (
	"math/big"
	"strings"
)

const gweiDecimals = 9

// FormatUnits converts an integer amount in base units to a decimal string
// with trailing zeros trimmed.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	neg := amount.Sign() < 0
	abs := new(big.Int).Abs(amount)
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(abs, divisor, new(big.Int))

	out := whole.String()
	if frac.Sign() != 0 {
		fracStr := frac.String()
		fracStr = strings.Repeat("0", int(decimals)-len(fracStr)) + fracStr
		out += "." + strings.TrimRight(fracStr, "0")
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatGasPrice renders a wei amount as gwei, e.g. 225000000000 => "225 gwei".
func FormatGasPrice(wei uint64) string {
	return FormatUnits(new(big.Int).SetUint64(wei), gweiDecimals) + " gwei"
}
