// Package reconcile pairs bank transactions with general-ledger entries
// under a confidence-scored, human-in-the-loop workflow. Candidates are
// scored by amount, date proximity and reference overlap; humans confirm
// or reject the suggestions.
package reconcile

import (
	"strings"
	"time"

	"finbooks/bankrecon/internal/models"

	"github.com/shopspring/decimal"
)

const (
	amountWeight    = 50.0
	dateWeight      = 30.0
	referenceWeight = 20.0
	dayPenalty      = 3.0
)

// Score computes the confidence that a bank transaction and a ledger
// entry describe the same economic event, together with their absolute
// amount difference. The two sides use mirrored sign conventions: a bank
// credit nets against a ledger debit, so the bank amount is credit−debit
// and the ledger amount debit−credit. Confidence is always within [0,1].
func Score(tx *models.BankTransaction, entry *models.LedgerEntry) (float64, decimal.Decimal) {
	bankAmount := tx.SignedAmount()
	ledgerAmount := entry.SignedAmount()
	amountDiff := bankAmount.Sub(ledgerAmount).Abs()

	points := amountScore(bankAmount, amountDiff) +
		dateScore(tx.Date, entry.Date) +
		referenceScore(tx.Reference, entry.Reference)

	confidence := points / 100.0
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence, amountDiff
}

func amountScore(bankAmount, amountDiff decimal.Decimal) float64 {
	if amountDiff.IsZero() {
		return amountWeight
	}
	if bankAmount.IsZero() {
		return 0
	}
	ratio, _ := amountDiff.Div(bankAmount.Abs()).Float64()
	score := amountWeight - ratio*amountWeight
	if score < 0 {
		return 0
	}
	return score
}

// dateScore decays linearly by three points per day apart, reaching zero
// at ten days. Unparseable dates score zero rather than failing.
func dateScore(bankDate, ledgerDate string) float64 {
	b, errB := time.Parse("2006-01-02", bankDate)
	l, errL := time.Parse("2006-01-02", ledgerDate)
	if errB != nil || errL != nil {
		return 0
	}

	days := b.Sub(l).Hours() / 24
	if days < 0 {
		days = -days
	}
	score := dateWeight - days*dayPenalty
	if score < 0 {
		return 0
	}
	return score
}

func referenceScore(bankRef, ledgerRef string) float64 {
	if bankRef == "" || ledgerRef == "" {
		return 0
	}
	if strings.Contains(strings.ToLower(bankRef), strings.ToLower(ledgerRef)) {
		return referenceWeight
	}
	return 0
}

// NewPending builds the candidate pairing both interaction modes produce
// before user confirmation.
func NewPending(tx models.BankTransaction, entry models.LedgerEntry) models.PendingMatch {
	confidence, diff := Score(&tx, &entry)
	return models.PendingMatch{
		BankTransaction:  tx,
		LedgerEntry:      entry,
		Confidence:       confidence,
		AmountDifference: diff,
	}
}
