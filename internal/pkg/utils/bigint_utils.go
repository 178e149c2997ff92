package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// PlaceDecimalPoint converts a fixed-point integer amount to its decimal
// string by digit placement on the decimal representation. Amounts can be
// 18-decimal token quantities far beyond the exact integer range of a
// float64, so no floating-point division is involved: the digit string is
// padded and split directly.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func PlaceDecimalPoint(amount *big.Int, decimals uint8) (string, error) {
	if amount == nil || amount.Sign() == 0 {
		return "0", nil
	}
	if amount.Sign() < 0 {
		return "", fmt.Errorf("negative amount %s not supported", amount.String())
	}

	digits := amount.String()
	if decimals == 0 {
		return digits, nil
	}

	var placed string
	if len(digits) <= int(decimals) {
		placed = "0." + strings.Repeat("0", int(decimals)-len(digits)) + digits
	} else {
		split := len(digits) - int(decimals)
		placed = digits[:split] + "." + digits[split:]
	}

	// Trim trailing zeros after the point; "1.2000" reads as "1.2".
	placed = strings.TrimRight(placed, "0")
	placed = strings.TrimRight(placed, ".")
	return placed, nil
}

// ToDisplayDecimal returns the exact decimal value of a fixed-point integer
// amount. The placement step is exact; any rounding happens only in display
// formatting.
func ToDisplayDecimal(amount *big.Int, decimals uint8) (decimal.Decimal, error) {
	placed, err := PlaceDecimalPoint(amount, decimals)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(placed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse placed quantity %q: %w", placed, err)
	}
	return d, nil
}

// FormatDisplayQuantity renders a quantity with at least 2 and at most 6
// fractional digits.
func FormatDisplayQuantity(d decimal.Decimal) string {
	s := d.Round(6).StringFixed(6)
	point := strings.Index(s, ".")
	trimmed := strings.TrimRight(s, "0")
	if len(trimmed) < point+3 {
		// Keep the 2-digit minimum, e.g. "1500.00".
		return s[:point+3]
	}
	return trimmed
}
