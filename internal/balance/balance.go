// Package balance validates and repairs debit/credit classification by
// replaying a statement's running balance column. Per-bank sign
// conventions are heuristic and occasionally wrong on ambiguous formats;
// the balance progression is ground truth, so it is used as a second-pass
// correction layer over the format handler's classification.
package balance

import (
	"fmt"

	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"

	"github.com/shopspring/decimal"
)

// Epsilon is the rounding tolerance when comparing replayed and stated
// balances.
var Epsilon = decimal.NewFromFloat(0.02)

// FixDetail records one correction applied to a transaction.
type FixDetail struct {
	Index       int             `json:"index"`
	Description string          `json:"description"`
	Field       string          `json:"field"` // side the transaction was moved to: "debit" or "credit"
	Previous    decimal.Decimal `json:"previous"`
	Corrected   decimal.Decimal `json:"corrected"`
}

// FixResult summarizes a correction pass.
type FixResult struct {
	TransactionsFixed int         `json:"transactionsFixed"`
	Details           []FixDetail `json:"fixDetails"`
}

// BalanceError flags one transaction whose stated balance disagrees with
// the replayed progression.
type BalanceError struct {
	Index       int             `json:"index"`
	Description string          `json:"description"`
	Expected    decimal.Decimal `json:"expected"`
	Stated      decimal.Decimal `json:"stated"`
	Discrepancy decimal.Decimal `json:"discrepancy"`
}

func (e BalanceError) String() string {
	return fmt.Sprintf("transaction %d (%s): replayed balance %s, stated %s (off by %s)",
		e.Index, e.Description, e.Expected.StringFixed(2), e.Stated.StringFixed(2),
		e.Discrepancy.StringFixed(2))
}

// ValidationResult is the diagnostic report produced by Validate.
type ValidationResult struct {
	Valid  bool           `json:"valid"`
	Errors []BalanceError `json:"errors"`
}

// Corrector repairs debit/credit misclassification against the balance
// column.
type Corrector struct {
	logger logging.Logger
}

// NewCorrector creates a Corrector. A nil logger falls back to a default
// adapter.
func NewCorrector(logger logging.Logger) *Corrector {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Corrector{logger: logger}
}

// Fix replays the running balance from the statement's opening balance,
// in document order, and reclassifies each transaction to agree with its
// stated balance: a positive delta is a credit, a negative delta a debit.
// Rows without a stated balance keep the format handler's classification;
// the replay then advances by their own signed amount. The statement is
// mutated in place.
func (c *Corrector) Fix(stmt *models.BankStatement) FixResult {
	result := FixResult{}
	running := stmt.Summary.OpeningBalance

	for i := range stmt.Transactions {
		tx := &stmt.Transactions[i]

		if !tx.Balance.Valid {
			running = running.Add(tx.SignedAmount())
			continue
		}

		delta := tx.Balance.Decimal.Sub(running)
		switch {
		case delta.IsPositive():
			if !tx.Credit.Equal(delta) || tx.Debit.IsPositive() {
				result.Details = append(result.Details, FixDetail{
					Index:       i,
					Description: tx.Description,
					Field:       "credit",
					Previous:    tx.SignedAmount(),
					Corrected:   delta,
				})
				result.TransactionsFixed++
				c.logCorrection(i, tx, "credit", delta)
			}
			tx.Credit = delta
			tx.Debit = decimal.Zero
		case delta.IsNegative():
			amount := delta.Neg()
			if !tx.Debit.Equal(amount) || tx.Credit.IsPositive() {
				result.Details = append(result.Details, FixDetail{
					Index:       i,
					Description: tx.Description,
					Field:       "debit",
					Previous:    tx.SignedAmount(),
					Corrected:   amount,
				})
				result.TransactionsFixed++
				c.logCorrection(i, tx, "debit", amount)
			}
			tx.Debit = amount
			tx.Credit = decimal.Zero
		default:
			// Zero delta: a balance-neutral row. Clear any phantom amount
			// the parser invented.
			if tx.Debit.IsPositive() || tx.Credit.IsPositive() {
				result.Details = append(result.Details, FixDetail{
					Index:       i,
					Description: tx.Description,
					Field:       "none",
					Previous:    tx.SignedAmount(),
					Corrected:   decimal.Zero,
				})
				result.TransactionsFixed++
			}
			tx.Debit = decimal.Zero
			tx.Credit = decimal.Zero
		}

		running = tx.Balance.Decimal
	}

	return result
}

func (c *Corrector) logCorrection(i int, tx *models.BankTransaction, field string, amount decimal.Decimal) {
	c.logger.WithFields(
		logging.Field{Key: logging.FieldRow, Value: i},
		logging.Field{Key: "field", Value: field},
		logging.Field{Key: logging.FieldAmount, Value: amount.StringFixed(2)},
	).Debug("Reclassified transaction from balance progression")
}

// Validate independently replays the statement's balances and reports
// every disagreement beyond Epsilon, plus a closing-balance mismatch.
// It never mutates the statement: corrections are suggested by running
// Validate first and applied explicitly via Fix.
func (c *Corrector) Validate(stmt *models.BankStatement) ValidationResult {
	result := ValidationResult{Valid: true}
	running := stmt.Summary.OpeningBalance

	for i := range stmt.Transactions {
		tx := &stmt.Transactions[i]
		computed := running.Add(tx.SignedAmount())

		if tx.Balance.Valid {
			diff := computed.Sub(tx.Balance.Decimal).Abs()
			if diff.GreaterThan(Epsilon) {
				result.Valid = false
				result.Errors = append(result.Errors, BalanceError{
					Index:       i,
					Description: tx.Description,
					Expected:    computed,
					Stated:      tx.Balance.Decimal,
					Discrepancy: diff,
				})
			}
			// Resync to the stated balance so one bad row does not flag
			// every row after it.
			running = tx.Balance.Decimal
			continue
		}
		running = computed
	}

	closingDiff := running.Sub(stmt.Summary.ClosingBalance).Abs()
	if closingDiff.GreaterThan(Epsilon) {
		result.Valid = false
		result.Errors = append(result.Errors, BalanceError{
			Index:       len(stmt.Transactions),
			Description: "closing balance",
			Expected:    running,
			Stated:      stmt.Summary.ClosingBalance,
			Discrepancy: closingDiff,
		})
	}

	if !result.Valid {
		c.logger.WithFields(
			logging.Field{Key: logging.FieldStatement, Value: stmt.ID},
			logging.Field{Key: logging.FieldCount, Value: len(result.Errors)},
		).Warn("Statement failed balance validation")
	}
	return result
}
