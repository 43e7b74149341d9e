package store

import (
	"context"
	"sort"
	"sync"

	"finbooks/bankrecon/internal/models"
	"finbooks/bankrecon/internal/recerror"
)

// Memory is an in-process Store used by tests and the CLI when no
// database is configured. It applies the same invariants as the database
// implementation.
type Memory struct {
	mu         sync.RWMutex
	statements map[string]models.BankStatement
	matches    map[string]models.ReconciliationMatch
	ledgers    map[string][]models.LedgerEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		statements: make(map[string]models.BankStatement),
		matches:    make(map[string]models.ReconciliationMatch),
		ledgers:    make(map[string][]models.LedgerEntry),
	}
}

func (s *Memory) SaveStatement(_ context.Context, stmt *models.BankStatement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements[stmt.ID] = *stmt
	return nil
}

func (s *Memory) GetStatement(_ context.Context, id string) (*models.BankStatement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stmt, ok := s.statements[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &stmt, nil
}

func (s *Memory) ListStatements(_ context.Context, companyID string, limit int) ([]models.BankStatement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.BankStatement
	for _, stmt := range s.statements {
		if stmt.CompanyID == companyID {
			out = append(out, stmt)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) DeleteStatement(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.statements[id]; !ok {
		return ErrNotFound
	}
	delete(s.statements, id)
	return nil
}

func (s *Memory) CreateMatch(_ context.Context, m *models.ReconciliationMatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.matches {
		if existing.SessionID != m.SessionID || !existing.IsActive() {
			continue
		}
		if existing.BankTransactionID == m.BankTransactionID || existing.LedgerEntryID == m.LedgerEntryID {
			return &recerror.MatchConflictError{
				BankTransactionID: m.BankTransactionID,
				LedgerEntryID:     m.LedgerEntryID,
			}
		}
	}

	s.matches[m.ID] = *m
	return nil
}

func (s *Memory) UpdateMatchStatus(_ context.Context, id string, status models.MatchStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[id]
	if !ok {
		return ErrNotFound
	}
	if !models.CanTransition(m.Status, status) {
		return &recerror.StateTransitionError{
			MatchID: id,
			From:    string(m.Status),
			To:      string(status),
		}
	}
	m.Status = status
	s.matches[id] = m
	return nil
}

func (s *Memory) DeleteMatch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[id]; !ok {
		return ErrNotFound
	}
	delete(s.matches, id)
	return nil
}

func (s *Memory) SaveLedgerEntries(_ context.Context, companyID string, entries []models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[companyID] = append([]models.LedgerEntry(nil), entries...)
	return nil
}

func (s *Memory) ListLedgerEntries(_ context.Context, companyID string) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.LedgerEntry(nil), s.ledgers[companyID]...), nil
}

func (s *Memory) ListMatches(_ context.Context, sessionID string) ([]models.ReconciliationMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ReconciliationMatch
	for _, m := range s.matches {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MatchDate.Before(out[j].MatchDate)
	})
	return out, nil
}
