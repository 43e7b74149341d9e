// Package bankformat holds the per-institution statement format rules:
// how to recognize a bank from raw document text and how that bank encodes
// debit/credit amounts. Each institution's quirks live behind the Handler
// interface so the normalizer and balance corrector stay bank-agnostic.
package bankformat

import (
	"finbooks/bankrecon/internal/models"
)

// BankID identifies a registered statement format.
type BankID string

const (
	BankFNB      BankID = "fnb"
	BankStandard BankID = "standard"
	BankABSA     BankID = "absa"
	BankNedbank  BankID = "nedbank"
	BankCapitec  BankID = "capitec"
	// BankUnknown is the sentinel for undetected formats; it resolves to
	// the generic handler.
	BankUnknown BankID = "unknown"
)

// Handler is the per-institution format capability. Implementations must
// be stateless and safe for concurrent use.
type Handler interface {
	// ID returns the identifier this handler is registered under.
	ID() BankID

	// Name returns the human-readable bank name.
	Name() string

	// Detect reports whether this handler recognizes the statement, from
	// the bank name in the extracted account info or from textual
	// fingerprints in the raw document.
	Detect(rawText string, acct *models.AccountInfo) bool

	// ParseAmount splits a raw amount string into its debit/credit parts
	// according to the institution's sign convention. Unparseable input
	// yields zero parts.
	ParseAmount(raw string) models.AmountParts

	// ExtractAccountNumber pulls the account number out of raw document
	// text, or returns "" when the format gives no reliable way to.
	ExtractAccountNumber(text string) string

	// OmitsYear reports whether this format prints transaction dates
	// without a year, requiring inference from the statement period.
	OmitsYear() bool
}
