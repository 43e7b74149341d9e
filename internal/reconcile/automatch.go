package reconcile

import (
	"time"

	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"

	"github.com/google/uuid"
)

// Suggestion is one algorithmically proposed pairing.
type Suggestion struct {
	BankTransaction models.BankTransaction
	LedgerEntry     models.LedgerEntry
	Confidence      float64
}

// AutoMatch proposes the best-scoring ledger entry for every unmatched
// bank transaction, greedily and in document order, keeping proposals at
// or above the threshold. Each ledger entry is proposed at most once.
func AutoMatch(
	txs []models.BankTransaction,
	entries []models.LedgerEntry,
	existing []models.ReconciliationMatch,
	threshold float64,
	logger logging.Logger,
) []Suggestion {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	matchedBank, matchedLedger := activeIDs(existing)
	usedEntries := make(map[string]bool)
	var out []Suggestion

	for i := range txs {
		tx := &txs[i]
		if matchedBank[tx.ID] {
			continue
		}

		bestIdx := -1
		bestConfidence := 0.0
		for j := range entries {
			entry := &entries[j]
			if matchedLedger[entry.ID] || usedEntries[entry.ID] {
				continue
			}
			confidence, _ := Score(tx, entry)
			if confidence > bestConfidence {
				bestConfidence = confidence
				bestIdx = j
			}
		}

		if bestIdx < 0 || bestConfidence < threshold {
			continue
		}

		usedEntries[entries[bestIdx].ID] = true
		out = append(out, Suggestion{
			BankTransaction: *tx,
			LedgerEntry:     entries[bestIdx],
			Confidence:      bestConfidence,
		})
		logger.WithFields(
			logging.Field{Key: "bank_transaction_id", Value: tx.ID},
			logging.Field{Key: "ledger_entry_id", Value: entries[bestIdx].ID},
			logging.Field{Key: logging.FieldConfidence, Value: bestConfidence},
		).Debug("Auto-match suggestion")
	}

	return out
}

// ToMatch converts a suggestion into a suggested-state match record.
func (s Suggestion) ToMatch(sessionID string) models.ReconciliationMatch {
	return models.ReconciliationMatch{
		ID:                uuid.NewString(),
		SessionID:         sessionID,
		BankTransactionID: s.BankTransaction.ID,
		LedgerEntryID:     s.LedgerEntry.ID,
		Amount:            s.BankTransaction.SignedAmount().Abs(),
		Status:            models.MatchSuggested,
		Confidence:        s.Confidence,
		MatchDate:         time.Now(),
		Metadata: map[string]string{
			"source": "auto",
		},
	}
}

// activeIDs collects the bank transaction and ledger entry IDs bound by
// non-rejected matches.
func activeIDs(matches []models.ReconciliationMatch) (bank, ledger map[string]bool) {
	bank = make(map[string]bool)
	ledger = make(map[string]bool)
	for i := range matches {
		if !matches[i].IsActive() {
			continue
		}
		bank[matches[i].BankTransactionID] = true
		ledger[matches[i].LedgerEntryID] = true
	}
	return bank, ledger
}
