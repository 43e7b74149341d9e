package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseDecimal(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "123.45", expected: "123.45"},
		{name: "thousands comma", input: "2,392.00", expected: "2392"},
		{name: "comma decimal separator", input: "1234,56", expected: "1234.56"},
		{name: "swiss thousands", input: "1'000.50", expected: "1000.5"},
		{name: "currency prefix", input: "R1,234.56", expected: "1234.56"},
		{name: "currency code", input: "ZAR 500.00", expected: "500"},
		{name: "negative", input: "-500", expected: "-500"},
		{name: "trailing minus", input: "5,534.00-", expected: "-5534"},
		{name: "embedded spaces", input: "1 234.56", expected: "1234.56"},
		{name: "empty", input: "", expected: "0"},
		{name: "garbage", input: "n/a", expected: "0"},
		{name: "whitespace only", input: "   ", expected: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDecimal(tc.input)
			expected, err := decimal.NewFromString(tc.expected)
			assert.NoError(t, err)
			assert.True(t, got.Equal(expected),
				"ParseDecimal(%q) = %s, want %s", tc.input, got, expected)
		})
	}
}

func TestSignedAmount(t *testing.T) {
	tx := BankTransaction{Credit: decimal.NewFromInt(100)}
	assert.True(t, tx.SignedAmount().Equal(decimal.NewFromInt(100)))
	assert.True(t, tx.IsCredit())
	assert.False(t, tx.IsDebit())

	tx = BankTransaction{Debit: decimal.NewFromInt(40)}
	assert.True(t, tx.SignedAmount().Equal(decimal.NewFromInt(-40)))

	entry := LedgerEntry{Debit: decimal.NewFromInt(100)}
	assert.True(t, entry.SignedAmount().Equal(decimal.NewFromInt(100)))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(MatchSuggested, MatchConfirmed))
	assert.True(t, CanTransition(MatchSuggested, MatchRejected))
	assert.False(t, CanTransition(MatchConfirmed, MatchSuggested))
	assert.False(t, CanTransition(MatchConfirmed, MatchRejected))
	assert.False(t, CanTransition(MatchRejected, MatchConfirmed))
}
