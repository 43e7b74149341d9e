// Package store persists statements and reconciliation matches. Writes
// are whole-document upserts; the only cross-document guarantee is the
// active-match uniqueness check on match creation.
package store

import (
	"context"
	"errors"

	"finbooks/bankrecon/internal/models"
)

// ErrNotFound is returned when a statement or match does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary for the pipeline.
//
// CreateMatch enforces the at-most-one-active-match invariant: it fails
// with recerror.MatchConflictError when the bank transaction or ledger
// entry already has a non-rejected match in the same session.
// UpdateMatchStatus rejects transitions out of terminal states with
// recerror.StateTransitionError.
type Store interface {
	SaveStatement(ctx context.Context, stmt *models.BankStatement) error
	GetStatement(ctx context.Context, id string) (*models.BankStatement, error)
	// ListStatements returns a company's statements ordered by upload
	// time descending, at most limit entries (0 means no limit).
	ListStatements(ctx context.Context, companyID string, limit int) ([]models.BankStatement, error)
	DeleteStatement(ctx context.Context, id string) error

	CreateMatch(ctx context.Context, m *models.ReconciliationMatch) error
	UpdateMatchStatus(ctx context.Context, id string, status models.MatchStatus) error
	DeleteMatch(ctx context.Context, id string) error
	ListMatches(ctx context.Context, sessionID string) ([]models.ReconciliationMatch, error)

	// SaveLedgerEntries replaces a company's imported ledger entries.
	SaveLedgerEntries(ctx context.Context, companyID string, entries []models.LedgerEntry) error
	ListLedgerEntries(ctx context.Context, companyID string) ([]models.LedgerEntry, error)
}
