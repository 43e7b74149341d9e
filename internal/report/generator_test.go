package report

import (
	"encoding/json"
	"testing"

	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() ([]models.BankTransaction, []models.LedgerEntry, []models.ReconciliationMatch) {
	txs := []models.BankTransaction{{ID: "tx-1"}, {ID: "tx-2"}, {ID: "tx-3"}, {ID: "tx-4"}}
	entries := []models.LedgerEntry{{ID: "le-1"}, {ID: "le-2"}, {ID: "le-3"}}
	matches := []models.ReconciliationMatch{
		{ID: "m-1", BankTransactionID: "tx-1", LedgerEntryID: "le-1", Status: models.MatchConfirmed, Confidence: 1.0},
		{ID: "m-2", BankTransactionID: "tx-2", LedgerEntryID: "le-2", Status: models.MatchSuggested, Confidence: 0.8},
		{ID: "m-3", BankTransactionID: "tx-3", LedgerEntryID: "le-3", Status: models.MatchRejected, Confidence: 0.7},
	}
	return txs, entries, matches
}

func TestBuild(t *testing.T) {
	g := NewGenerator(&logging.MockLogger{})
	txs, entries, matches := fixture()

	s := g.Build("sess-1", txs, entries, matches)

	assert.Equal(t, 4, s.BankTransactions)
	assert.Equal(t, 3, s.LedgerEntries)
	assert.Equal(t, 1, s.Suggested)
	assert.Equal(t, 1, s.Confirmed)
	assert.Equal(t, 1, s.Rejected)
	// The rejected match frees tx-3 and le-3.
	assert.Equal(t, 2, s.UnmatchedBank)
	assert.Equal(t, 1, s.UnmatchedLedger)
	assert.InDelta(t, 0.5, s.Coverage, 1e-9)
	assert.InDelta(t, 0.9, s.MeanConfidence, 1e-9)
}

func TestBuildEmpty(t *testing.T) {
	g := NewGenerator(&logging.MockLogger{})
	s := g.Build("sess-1", nil, nil, nil)
	assert.Zero(t, s.Coverage)
	assert.Zero(t, s.MeanConfidence)
}

func TestRenderJSON(t *testing.T) {
	g := NewGenerator(&logging.MockLogger{})
	txs, entries, matches := fixture()
	s := g.Build("sess-1", txs, entries, matches)

	out, err := g.Render(s, "json")
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, s, decoded)
}

func TestRenderText(t *testing.T) {
	g := NewGenerator(&logging.MockLogger{})
	txs, entries, matches := fixture()

	out, err := g.Render(g.Build("sess-1", txs, entries, matches), "text")
	require.NoError(t, err)
	assert.Contains(t, string(out), "sess-1")
	assert.Contains(t, string(out), "1 suggested, 1 confirmed, 1 rejected")
	assert.Contains(t, string(out), "50%")
}

func TestRenderUnsupportedFormat(t *testing.T) {
	g := NewGenerator(&logging.MockLogger{})
	_, err := g.Render(Summary{}, "xml")
	assert.Error(t, err)
}
