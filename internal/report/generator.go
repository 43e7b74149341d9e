// Package report renders reconciliation run summaries for hand-off to
// the accountant: how much of the statement is matched, at what
// confidence, and what remains open.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"
)

// Summary is the aggregate view of one reconciliation session.
type Summary struct {
	SessionID        string  `json:"sessionId"`
	BankTransactions int     `json:"bankTransactions"`
	LedgerEntries    int     `json:"ledgerEntries"`
	Suggested        int     `json:"suggested"`
	Confirmed        int     `json:"confirmed"`
	Rejected         int     `json:"rejected"`
	UnmatchedBank    int     `json:"unmatchedBank"`
	UnmatchedLedger  int     `json:"unmatchedLedger"`
	Coverage         float64 `json:"coverage"` // active matches / bank transactions
	MeanConfidence   float64 `json:"meanConfidence"`
}

// Generator builds and renders reconciliation summaries.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator. A nil logger falls back to a default
// adapter.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator{logger: logger}
}

// Build computes the summary for a session's transactions, candidate
// entries and match records.
func (g *Generator) Build(
	sessionID string,
	txs []models.BankTransaction,
	entries []models.LedgerEntry,
	matches []models.ReconciliationMatch,
) Summary {
	s := Summary{
		SessionID:        sessionID,
		BankTransactions: len(txs),
		LedgerEntries:    len(entries),
	}

	matchedBank := make(map[string]bool)
	matchedLedger := make(map[string]bool)
	confidenceSum := 0.0
	active := 0

	for i := range matches {
		m := &matches[i]
		switch m.Status {
		case models.MatchSuggested:
			s.Suggested++
		case models.MatchConfirmed:
			s.Confirmed++
		case models.MatchRejected:
			s.Rejected++
		}
		if !m.IsActive() {
			continue
		}
		active++
		confidenceSum += m.Confidence
		matchedBank[m.BankTransactionID] = true
		matchedLedger[m.LedgerEntryID] = true
	}

	for i := range txs {
		if !matchedBank[txs[i].ID] {
			s.UnmatchedBank++
		}
	}
	for i := range entries {
		if !matchedLedger[entries[i].ID] {
			s.UnmatchedLedger++
		}
	}

	if s.BankTransactions > 0 {
		s.Coverage = float64(active) / float64(s.BankTransactions)
	}
	if active > 0 {
		s.MeanConfidence = confidenceSum / float64(active)
	}

	g.logger.WithFields(
		logging.Field{Key: logging.FieldSession, Value: sessionID},
		logging.Field{Key: "coverage", Value: s.Coverage},
	).Debug("Built reconciliation summary")
	return s
}

// Render serializes a summary as "json" or "text".
func (g *Generator) Render(s Summary, format string) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(s, "", "  ")
	case "text":
		return []byte(renderText(s)), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func renderText(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reconciliation session %s\n", s.SessionID)
	fmt.Fprintf(&b, "  Bank transactions: %d (%d unmatched)\n", s.BankTransactions, s.UnmatchedBank)
	fmt.Fprintf(&b, "  Ledger entries:    %d (%d unmatched)\n", s.LedgerEntries, s.UnmatchedLedger)
	fmt.Fprintf(&b, "  Matches:           %d suggested, %d confirmed, %d rejected\n",
		s.Suggested, s.Confirmed, s.Rejected)
	fmt.Fprintf(&b, "  Coverage:          %.0f%%\n", s.Coverage*100)
	fmt.Fprintf(&b, "  Mean confidence:   %.2f\n", s.MeanConfidence)
	return b.String()
}
