// Package categorize assigns each normalized transaction a coarse type
// and a semantic category from its description. Both are deterministic,
// case-folded substring matches: the same input always yields the same
// answer.
package categorize

import (
	"strings"

	"finbooks/bankrecon/internal/models"
)

// Type derives the coarse transaction type. Description keywords take
// precedence over the money direction: a fee is a fee whether it shows up
// as debit or credit.
func Type(tx *models.BankTransaction) models.TransactionType {
	desc := strings.ToLower(tx.Description)
	switch {
	case strings.Contains(desc, "fee") || strings.Contains(desc, "charge"):
		return models.TypeFee
	case strings.Contains(desc, "interest"):
		return models.TypeInterest
	case strings.Contains(desc, "transfer"):
		return models.TypeTransfer
	case tx.IsCredit():
		return models.TypeDeposit
	case tx.IsDebit():
		return models.TypeWithdrawal
	default:
		return models.TypeOther
	}
}

// Apply assigns Type and Category on every transaction of a statement,
// after balance correction.
func (c *Categorizer) Apply(stmt *models.BankStatement) {
	for i := range stmt.Transactions {
		tx := &stmt.Transactions[i]
		tx.Type = Type(tx)
		tx.Category = c.Category(tx.Description)
	}
}
