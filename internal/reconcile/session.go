package reconcile

import (
	"context"
	"fmt"

	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"
	"finbooks/bankrecon/internal/store"
)

// Session is the interactive reconciliation state for one bank account
// and period: the statement's transactions, the candidate ledger entries,
// the persisted matches and the in-flight selection. All mutation goes
// through explicit transition methods, and local state only changes after
// the store accepts the write, so a persistence failure leaves the
// session exactly as it was.
type Session struct {
	ID        string
	CompanyID string

	store  store.Store
	logger logging.Logger

	txs     []models.BankTransaction
	entries []models.LedgerEntry
	matches []models.ReconciliationMatch

	selectedBank   *models.BankTransaction
	selectedLedger *models.LedgerEntry
	pending        []models.PendingMatch
}

// NewSession loads any persisted matches and returns a ready session.
func NewSession(
	ctx context.Context,
	id, companyID string,
	st store.Store,
	txs []models.BankTransaction,
	entries []models.LedgerEntry,
	logger logging.Logger,
) (*Session, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	matches, err := st.ListMatches(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading session matches: %w", err)
	}
	return &Session{
		ID:        id,
		CompanyID: companyID,
		store:     st,
		logger:    logger,
		txs:       txs,
		entries:   entries,
		matches:   matches,
	}, nil
}

// Matches returns the session's persisted matches.
func (s *Session) Matches() []models.ReconciliationMatch {
	out := make([]models.ReconciliationMatch, len(s.matches))
	copy(out, s.matches)
	return out
}

// Pending returns the candidate pairings awaiting confirmation.
func (s *Session) Pending() []models.PendingMatch {
	out := make([]models.PendingMatch, len(s.pending))
	copy(out, s.pending)
	return out
}

// UnmatchedBank returns the bank transactions still open for matching:
// those without an active match and not part of a pending pair.
func (s *Session) UnmatchedBank() []models.BankTransaction {
	bank, _ := activeIDs(s.matches)
	for i := range s.pending {
		bank[s.pending[i].BankTransaction.ID] = true
	}
	var out []models.BankTransaction
	for i := range s.txs {
		if !bank[s.txs[i].ID] {
			out = append(out, s.txs[i])
		}
	}
	return out
}

// UnmatchedLedger returns the ledger entries still open for matching.
func (s *Session) UnmatchedLedger() []models.LedgerEntry {
	_, ledger := activeIDs(s.matches)
	for i := range s.pending {
		ledger[s.pending[i].LedgerEntry.ID] = true
	}
	var out []models.LedgerEntry
	for i := range s.entries {
		if !ledger[s.entries[i].ID] {
			out = append(out, s.entries[i])
		}
	}
	return out
}

// SelectBank records a bank-transaction selection. If a ledger entry is
// already selected the two become a pending match and both selections
// clear; selection order does not matter.
func (s *Session) SelectBank(id string) (*models.PendingMatch, error) {
	tx, err := s.openBank(id)
	if err != nil {
		return nil, err
	}
	s.selectedBank = tx
	return s.completeSelection(), nil
}

// SelectLedger records a ledger-entry selection, mirroring SelectBank.
func (s *Session) SelectLedger(id string) (*models.PendingMatch, error) {
	entry, err := s.openLedger(id)
	if err != nil {
		return nil, err
	}
	s.selectedLedger = entry
	return s.completeSelection(), nil
}

// ClearSelection drops any in-flight selection.
func (s *Session) ClearSelection() {
	s.selectedBank = nil
	s.selectedLedger = nil
}

// Pair creates a pending match directly, the drag-and-drop interaction.
// The resulting pending match is identical to one built by sequential
// selection.
func (s *Session) Pair(bankID, ledgerID string) (*models.PendingMatch, error) {
	tx, err := s.openBank(bankID)
	if err != nil {
		return nil, err
	}
	entry, err := s.openLedger(ledgerID)
	if err != nil {
		return nil, err
	}
	pm := NewPending(*tx, *entry)
	s.pending = append(s.pending, pm)
	return &pm, nil
}

// RemovePending discards a pending match by index.
func (s *Session) RemovePending(index int) error {
	if index < 0 || index >= len(s.pending) {
		return fmt.Errorf("no pending match at index %d", index)
	}
	s.pending = append(s.pending[:index], s.pending[index+1:]...)
	return nil
}

// Apply persists the pending matches as suggested records, in order.
// Each write is awaited before the next; a failure stops the batch and
// reports how many were applied, leaving the failed and later pendings
// in place. Already-committed writes are not rolled back.
func (s *Session) Apply(ctx context.Context) (applied int, err error) {
	for len(s.pending) > 0 {
		pm := s.pending[0]
		m := pm.ToMatch(s.ID)
		if err := s.store.CreateMatch(ctx, &m); err != nil {
			s.logger.WithError(err).WithField(logging.FieldSession, s.ID).
				Error("Failed to persist pending match")
			return applied, err
		}
		s.matches = append(s.matches, m)
		s.pending = s.pending[1:]
		applied++
	}
	return applied, nil
}

// ApplySuggestions persists auto-match suggestions as suggested records,
// with the same ordered, stop-on-failure batch semantics as Apply.
func (s *Session) ApplySuggestions(ctx context.Context, suggestions []Suggestion) (applied int, err error) {
	for _, sg := range suggestions {
		m := sg.ToMatch(s.ID)
		if err := s.store.CreateMatch(ctx, &m); err != nil {
			return applied, err
		}
		s.matches = append(s.matches, m)
		applied++
	}
	return applied, nil
}

// Confirm accepts a suggested match. Terminal: a confirmed match can only
// be removed by deletion.
func (s *Session) Confirm(ctx context.Context, matchID string) error {
	return s.transition(ctx, matchID, models.MatchConfirmed)
}

// Reject declines a suggested match, freeing both sides for re-matching.
func (s *Session) Reject(ctx context.Context, matchID string) error {
	return s.transition(ctx, matchID, models.MatchRejected)
}

func (s *Session) transition(ctx context.Context, matchID string, to models.MatchStatus) error {
	idx := s.matchIndex(matchID)
	if idx < 0 {
		return store.ErrNotFound
	}
	if err := s.store.UpdateMatchStatus(ctx, matchID, to); err != nil {
		return err
	}
	s.matches[idx].Status = to
	return nil
}

// Delete removes a match record in any state.
func (s *Session) Delete(ctx context.Context, matchID string) error {
	idx := s.matchIndex(matchID)
	if idx < 0 {
		return store.ErrNotFound
	}
	if err := s.store.DeleteMatch(ctx, matchID); err != nil {
		return err
	}
	s.matches = append(s.matches[:idx], s.matches[idx+1:]...)
	return nil
}

func (s *Session) matchIndex(matchID string) int {
	for i := range s.matches {
		if s.matches[i].ID == matchID {
			return i
		}
	}
	return -1
}

func (s *Session) completeSelection() *models.PendingMatch {
	if s.selectedBank == nil || s.selectedLedger == nil {
		return nil
	}
	pm := NewPending(*s.selectedBank, *s.selectedLedger)
	s.pending = append(s.pending, pm)
	s.ClearSelection()
	return &pm
}

// openBank resolves a bank transaction that is still open for matching.
func (s *Session) openBank(id string) (*models.BankTransaction, error) {
	for i := range s.txs {
		if s.txs[i].ID != id {
			continue
		}
		bank, _ := activeIDs(s.matches)
		if bank[id] {
			return nil, fmt.Errorf("bank transaction %s already has an active match", id)
		}
		return &s.txs[i], nil
	}
	return nil, fmt.Errorf("unknown bank transaction %s", id)
}

func (s *Session) openLedger(id string) (*models.LedgerEntry, error) {
	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		_, ledger := activeIDs(s.matches)
		if ledger[id] {
			return nil, fmt.Errorf("ledger entry %s already has an active match", id)
		}
		return &s.entries[i], nil
	}
	return nil, fmt.Errorf("unknown ledger entry %s", id)
}
