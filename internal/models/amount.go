package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currency markers stripped before numeric parsing. Statements embed these
// inconsistently, sometimes glued to the digits.
var currencyMarkers = []string{
	"ZAR", "USD", "EUR", "GBP", "CHF", "R", "$", "€", "£",
}

// ParseDecimal converts a raw amount string into a decimal, stripping
// currency symbols, whitespace and thousands separators. Non-numeric or
// empty input yields decimal.Zero, never an error: downstream arithmetic
// assumes finite values.
func ParseDecimal(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")
	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}

	// Thousands separators: commas when a dot is the decimal point,
	// apostrophes always (Swiss style).
	s = strings.ReplaceAll(s, "'", "")
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		// Comma as decimal separator.
		s = strings.ReplaceAll(s, ",", ".")
	}

	// Trailing minus ("123.45-") used by some institutions.
	if strings.HasSuffix(s, "-") {
		s = "-" + strings.TrimSuffix(s, "-")
	}

	dec, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return dec
}
