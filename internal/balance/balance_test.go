package balance

import (
	"testing"

	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func balanced(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func statement(opening, closing string, txs ...models.BankTransaction) *models.BankStatement {
	return &models.BankStatement{
		ID: "stmt-1",
		Summary: models.StatementSummary{
			OpeningBalance: dec(opening),
			ClosingBalance: dec(closing),
		},
		Transactions: txs,
	}
}

func TestFixReclassifiesMislabelledDebit(t *testing.T) {
	// The parser read "5,534.00" as a credit, but the balance dropped by
	// that amount. The progression wins.
	stmt := statement("10000.00", "4466.00", models.BankTransaction{
		Description: "POS PURCHASE",
		Credit:      dec("5534.00"),
		Balance:     balanced("4466.00"),
	})

	c := NewCorrector(&logging.MockLogger{})
	result := c.Fix(stmt)

	require.Equal(t, 1, result.TransactionsFixed)
	assert.Equal(t, "debit", result.Details[0].Field)
	assert.True(t, stmt.Transactions[0].Debit.Equal(dec("5534.00")))
	assert.True(t, stmt.Transactions[0].Credit.IsZero())
}

func TestFixLeavesCorrectRowsAlone(t *testing.T) {
	stmt := statement("10000.00", "11500.00",
		models.BankTransaction{
			Description: "SALARY",
			Credit:      dec("2000.00"),
			Balance:     balanced("12000.00"),
		},
		models.BankTransaction{
			Description: "RENT",
			Debit:       dec("500.00"),
			Balance:     balanced("11500.00"),
		},
	)

	c := NewCorrector(&logging.MockLogger{})
	result := c.Fix(stmt)

	assert.Equal(t, 0, result.TransactionsFixed)
	assert.True(t, stmt.Transactions[0].Credit.Equal(dec("2000.00")))
	assert.True(t, stmt.Transactions[1].Debit.Equal(dec("500.00")))
}

func TestFixAdvancesPastRowsWithoutBalance(t *testing.T) {
	// The middle row has no stated balance; the replay carries its own
	// signed amount forward so the third row's delta still computes.
	stmt := statement("1000.00", "1150.00",
		models.BankTransaction{
			Description: "DEPOSIT",
			Credit:      dec("300.00"),
			Balance:     balanced("1300.00"),
		},
		models.BankTransaction{
			Description: "CARD PAYMENT",
			Debit:       dec("250.00"),
		},
		models.BankTransaction{
			Description: "EFT IN",
			Debit:       dec("100.00"), // wrong side
			Balance:     balanced("1150.00"),
		},
	)

	c := NewCorrector(&logging.MockLogger{})
	result := c.Fix(stmt)

	require.Equal(t, 1, result.TransactionsFixed)
	assert.Equal(t, 2, result.Details[0].Index)
	assert.True(t, stmt.Transactions[2].Credit.Equal(dec("100.00")))
	assert.True(t, stmt.Transactions[2].Debit.IsZero())
	// Untouched rows keep their classification.
	assert.True(t, stmt.Transactions[1].Debit.Equal(dec("250.00")))
}

func TestFixClearsPhantomAmountOnZeroDelta(t *testing.T) {
	stmt := statement("500.00", "500.00", models.BankTransaction{
		Description: "BALANCE BROUGHT FORWARD",
		Debit:       dec("500.00"),
		Balance:     balanced("500.00"),
	})

	c := NewCorrector(&logging.MockLogger{})
	result := c.Fix(stmt)

	require.Equal(t, 1, result.TransactionsFixed)
	assert.Equal(t, "none", result.Details[0].Field)
	assert.True(t, stmt.Transactions[0].Debit.IsZero())
	assert.True(t, stmt.Transactions[0].Credit.IsZero())
}

func TestValidateReportsDiscrepancies(t *testing.T) {
	stmt := statement("10000.00", "4466.00", models.BankTransaction{
		Description: "POS PURCHASE",
		Credit:      dec("5534.00"),
		Balance:     balanced("4466.00"),
	})

	c := NewCorrector(&logging.MockLogger{})
	result := c.Validate(stmt)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.True(t, result.Errors[0].Expected.Equal(dec("15534.00")))
	assert.True(t, result.Errors[0].Stated.Equal(dec("4466.00")))

	// Validate never mutates: the misclassification is still there.
	assert.True(t, stmt.Transactions[0].Credit.Equal(dec("5534.00")))
}

func TestValidateResyncsAfterBadRow(t *testing.T) {
	// One bad row must not cascade into errors on every later row.
	stmt := statement("1000.00", "1400.00",
		models.BankTransaction{
			Description: "WRONG SIDE",
			Debit:       dec("500.00"),
			Balance:     balanced("1500.00"),
		},
		models.BankTransaction{
			Description: "FINE",
			Debit:       dec("100.00"),
			Balance:     balanced("1400.00"),
		},
	)

	c := NewCorrector(&logging.MockLogger{})
	result := c.Validate(stmt)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 0, result.Errors[0].Index)
}

func TestValidateWithinEpsilon(t *testing.T) {
	stmt := statement("100.00", "149.99", models.BankTransaction{
		Description: "ROUNDED INTEREST",
		Credit:      dec("50.00"),
		Balance:     balanced("149.99"),
	})

	c := NewCorrector(&logging.MockLogger{})
	result := c.Validate(stmt)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateClosingBalanceMismatch(t *testing.T) {
	stmt := statement("100.00", "999.00", models.BankTransaction{
		Description: "DEPOSIT",
		Credit:      dec("50.00"),
		Balance:     balanced("150.00"),
	})

	c := NewCorrector(&logging.MockLogger{})
	result := c.Validate(stmt)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "closing balance", result.Errors[0].Description)
	assert.Equal(t, 1, result.Errors[0].Index)
}
