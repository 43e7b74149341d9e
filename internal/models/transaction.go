// Package models provides the data structures shared across the
// statement ingestion and reconciliation pipeline.
package models

import (
	"github.com/shopspring/decimal"
)

// BankTransaction is one row of a normalized bank statement.
// Debit and Credit follow the bank convention: debit is money leaving the
// account, credit is money entering it. At most one of the two is non-zero;
// a zero value means the side is absent.
type BankTransaction struct {
	ID          string              `json:"id"`
	Date        string              `json:"date"` // canonical YYYY-MM-DD
	Description string              `json:"description"`
	Debit       decimal.Decimal     `json:"debit"`
	Credit      decimal.Decimal     `json:"credit"`
	Balance     decimal.NullDecimal `json:"balance"` // running balance after this row, when stated
	Reference   string              `json:"reference,omitempty"`
	Type        TransactionType     `json:"type,omitempty"`
	Category    string              `json:"category,omitempty"`
}

// IsDebit returns true if the transaction moves money out of the account.
func (t *BankTransaction) IsDebit() bool {
	return t.Debit.IsPositive()
}

// IsCredit returns true if the transaction moves money into the account.
func (t *BankTransaction) IsCredit() bool {
	return t.Credit.IsPositive()
}

// SignedAmount returns credit minus debit: positive for money in,
// negative for money out.
func (t *BankTransaction) SignedAmount() decimal.Decimal {
	return t.Credit.Sub(t.Debit)
}

// AmountParts is the debit/credit split produced by a bank format handler
// from a raw amount string. At most one side is non-zero.
type AmountParts struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// LedgerEntry is a general-ledger line offered as a reconciliation
// candidate. Ledger sign convention is the mirror of the bank convention:
// a bank credit nets against a ledger debit for the same economic event.
type LedgerEntry struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"` // canonical YYYY-MM-DD
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Reference   string          `json:"reference,omitempty"`
}

// SignedAmount returns debit minus credit, the ledger-side counterpart of
// BankTransaction.SignedAmount.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}
