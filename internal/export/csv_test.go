package export

import (
	"bytes"
	"strings"
	"testing"

	"finbooks/bankrecon/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatement(t *testing.T) {
	stmt := &models.BankStatement{
		Transactions: []models.BankTransaction{
			{
				Date:        "2024-11-21",
				Description: "POS PURCHASE",
				Debit:       decimal.NewFromFloat(5534.00),
				Balance:     decimal.NewNullDecimal(decimal.NewFromFloat(4466.00)),
				Type:        models.TypeWithdrawal,
				Category:    "Other",
			},
			{
				Date:        "2024-11-22",
				Description: "EFT RECEIVED SALARY",
				Credit:      decimal.NewFromFloat(2392.00),
				Reference:   "INV-42",
				Type:        models.TypeDeposit,
				Category:    "Payroll",
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Statement(&buf, stmt))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Description,Debit,Credit,Balance,Reference,Type,Category", lines[0])
	assert.Equal(t, "2024-11-21,POS PURCHASE,5534.00,,4466.00,,withdrawal,Other", lines[1])
	assert.Equal(t, "2024-11-22,EFT RECEIVED SALARY,,2392.00,,INV-42,deposit,Payroll", lines[2])
}

func TestStatementEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Statement(&buf, &models.BankStatement{}))
	// Header only.
	assert.Equal(t, "Date,Description,Debit,Credit,Balance,Reference,Type,Category",
		strings.TrimSpace(buf.String()))
}
