package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationMatch pairs one bank transaction with one ledger entry.
// A bank transaction or ledger entry has at most one active (non-rejected)
// match at a time; the store enforces this on create.
type ReconciliationMatch struct {
	ID                string            `json:"id"`
	SessionID         string            `json:"sessionId"`
	BankTransactionID string            `json:"bankTransactionId"`
	LedgerEntryID     string            `json:"ledgerTransactionId"`
	Amount            decimal.Decimal   `json:"amount"`
	Status            MatchStatus       `json:"status"`
	Confidence        float64           `json:"confidence"`
	MatchDate         time.Time         `json:"matchDate"`
	Notes             string            `json:"notes,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// IsActive reports whether the match still binds its two sides.
// Rejected matches free both IDs for re-matching.
func (m *ReconciliationMatch) IsActive() bool {
	return m.Status != MatchRejected
}

// PendingMatch is a candidate pairing built interactively, before the user
// confirms it into a persisted ReconciliationMatch. It is never stored.
type PendingMatch struct {
	BankTransaction  BankTransaction
	LedgerEntry      LedgerEntry
	Confidence       float64
	AmountDifference decimal.Decimal
}

// ToMatch promotes the pending pair into a suggested-state match record.
func (p PendingMatch) ToMatch(sessionID string) ReconciliationMatch {
	return ReconciliationMatch{
		ID:                uuid.NewString(),
		SessionID:         sessionID,
		BankTransactionID: p.BankTransaction.ID,
		LedgerEntryID:     p.LedgerEntry.ID,
		Amount:            p.BankTransaction.SignedAmount().Abs(),
		Status:            MatchSuggested,
		Confidence:        p.Confidence,
		MatchDate:         time.Now(),
		Metadata: map[string]string{
			"source": "manual",
		},
	}
}
