package batch

import (
	"testing"

	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stmt(account, from, to string, txs ...models.BankTransaction) models.BankStatement {
	return models.BankStatement{
		AccountInfo: models.AccountInfo{AccountNumber: account},
		Summary: models.StatementSummary{
			Period: models.StatementPeriod{From: from, To: to},
		},
		Transactions: txs,
	}
}

func tx(date, desc string, credit float64) models.BankTransaction {
	return models.BankTransaction{
		Date:        date,
		Description: desc,
		Credit:      decimal.NewFromFloat(credit),
	}
}

func TestMergePeriods(t *testing.T) {
	merged := MergePeriods(
		models.StatementPeriod{From: "2024-11-01", To: "2024-11-30"},
		models.StatementPeriod{From: "2024-10-01", To: "2024-10-31"},
	)
	assert.Equal(t, "2024-10-01", merged.From)
	assert.Equal(t, "2024-11-30", merged.To)

	// Empty sides do not shrink the range.
	merged = MergePeriods(models.StatementPeriod{}, models.StatementPeriod{From: "2024-11-01"})
	assert.Equal(t, "2024-11-01", merged.From)
	assert.Equal(t, "", merged.To)
}

func TestGroupByAccount(t *testing.T) {
	agg := NewAggregator(&logging.MockLogger{})

	groups := agg.GroupByAccount([]models.BankStatement{
		stmt("62012345678", "2024-11-01", "2024-11-30"),
		stmt("62012345678", "2024-10-01", "2024-10-31"),
		stmt("11122233344", "2024-11-01", "2024-11-30"),
		stmt("", "", ""),
	})

	require.Len(t, groups, 3)
	assert.Equal(t, "11122233344", groups[0].AccountNumber)
	assert.Equal(t, "62012345678", groups[1].AccountNumber)
	assert.Equal(t, "unknown", groups[2].AccountNumber)

	assert.Len(t, groups[1].Statements, 2)
	assert.Equal(t, "2024-10-01", groups[1].Period.From)
	assert.Equal(t, "2024-11-30", groups[1].Period.To)
}

func TestConsolidateOrdersChronologically(t *testing.T) {
	agg := NewAggregator(&logging.MockLogger{})
	group := Group{
		AccountNumber: "62012345678",
		Statements: []models.BankStatement{
			stmt("62012345678", "2024-11-01", "2024-11-30",
				tx("2024-11-21", "EFT", 100),
				tx("2024-11-05", "DEPOSIT", 50)),
			stmt("62012345678", "2024-10-01", "2024-10-31",
				tx("2024-10-15", "DEPOSIT", 75)),
		},
	}

	all := agg.Consolidate(group)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-10-15", all[0].Date)
	assert.Equal(t, "2024-11-05", all[1].Date)
	assert.Equal(t, "2024-11-21", all[2].Date)
}

func TestConsolidateFlagsDuplicatesButKeepsThem(t *testing.T) {
	mock := &logging.MockLogger{}
	agg := NewAggregator(mock)
	group := Group{
		AccountNumber: "62012345678",
		Statements: []models.BankStatement{
			stmt("62012345678", "2024-11-01", "2024-11-30", tx("2024-11-21", "EFT SALARY", 100)),
			stmt("62012345678", "2024-11-15", "2024-12-14", tx("2024-11-21", "eft salary", 100)),
		},
	}

	all := agg.Consolidate(group)
	assert.Len(t, all, 2)
	assert.Greater(t, mock.CountLevel("WARN"), 0)
}

func TestOutputName(t *testing.T) {
	agg := NewAggregator(&logging.MockLogger{})

	name := agg.OutputName(Group{
		AccountNumber: "62012345678",
		Period:        models.StatementPeriod{From: "2024-10-01", To: "2024-11-30"},
	})
	assert.Equal(t, "62012345678_2024-10-01_2024-11-30.csv", name)

	name = agg.OutputName(Group{AccountNumber: "CH93 0076 2011"})
	assert.Equal(t, "CH93-0076-2011.csv", name)
}
