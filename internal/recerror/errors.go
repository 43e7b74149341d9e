// Package recerror defines the typed errors raised by the statement
// ingestion and reconciliation pipeline.
package recerror

import "fmt"

// ExtractionError represents a failure of the remote extraction service,
// either a transport error or a response reporting failure.
type ExtractionError struct {
	FileName string
	Msg      string
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed for %s: %s: %v", e.FileName, e.Msg, e.Err)
	}
	return fmt.Sprintf("extraction failed for %s: %s", e.FileName, e.Msg)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// TimeoutError represents an extraction call that exceeded its deadline.
// It is kept distinct from ExtractionError so callers can mark the
// statement with a distinguishable failure kind.
type TimeoutError struct {
	FileName string
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("extraction timed out for %s: %v", e.FileName, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// NormalizationError represents a row that could not be normalized.
// Normalization degrades gracefully; this type is used for diagnostics,
// not to abort the pipeline.
type NormalizationError struct {
	Row   int
	Field string
	Value string
	Msg   string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("row %d: failed to normalize %s='%s': %s", e.Row, e.Field, e.Value, e.Msg)
}

// StateTransitionError represents an illegal reconciliation match status
// transition, e.g. confirming an already-rejected match.
type StateTransitionError struct {
	MatchID string
	From    string
	To      string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("match %s: illegal transition %s -> %s", e.MatchID, e.From, e.To)
}

// MatchConflictError represents a create that would give a bank transaction
// or ledger entry a second active match.
type MatchConflictError struct {
	BankTransactionID string
	LedgerEntryID     string
}

func (e *MatchConflictError) Error() string {
	return fmt.Sprintf("active match already exists for bank transaction %s or ledger entry %s",
		e.BankTransactionID, e.LedgerEntryID)
}
