package reconcile

import (
	"context"
	"errors"
	"testing"

	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"
	"finbooks/bankrecon/internal/recerror"
	"finbooks/bankrecon/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*Session, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	txs := []models.BankTransaction{
		bankTx("tx-1", "2024-11-21", "INV-42", 1000),
		bankTx("tx-2", "2024-11-22", "", 250),
	}
	entries := []models.LedgerEntry{
		ledgerEntry("le-1", "2024-11-21", "INV-42", 1000),
		ledgerEntry("le-2", "2024-11-22", "", 250),
	}
	s, err := NewSession(context.Background(), "sess-1", "co-1", st, txs, entries, &logging.MockLogger{})
	require.NoError(t, err)
	return s, st
}

func TestSelectionEitherOrder(t *testing.T) {
	s, _ := newTestSession(t)

	pm, err := s.SelectBank("tx-1")
	require.NoError(t, err)
	assert.Nil(t, pm, "a lone selection must not pair")

	pm, err = s.SelectLedger("le-1")
	require.NoError(t, err)
	require.NotNil(t, pm)

	s2, _ := newTestSession(t)
	_, err = s2.SelectLedger("le-1")
	require.NoError(t, err)
	pm2, err := s2.SelectBank("tx-1")
	require.NoError(t, err)
	require.NotNil(t, pm2)

	// Selection order is irrelevant to the outcome.
	assert.Equal(t, pm.BankTransaction.ID, pm2.BankTransaction.ID)
	assert.Equal(t, pm.LedgerEntry.ID, pm2.LedgerEntry.ID)
	assert.Equal(t, pm.Confidence, pm2.Confidence)

	// Completing a pair clears both selections.
	assert.Len(t, s.Pending(), 1)
	assert.Len(t, s.UnmatchedBank(), 1)
	assert.Len(t, s.UnmatchedLedger(), 1)
}

func TestPairMatchesSequentialSelection(t *testing.T) {
	s, _ := newTestSession(t)

	pm, err := s.Pair("tx-1", "le-1")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pm.Confidence, 1e-9)
	assert.Len(t, s.Pending(), 1)

	_, err = s.Pair("tx-9", "le-1")
	assert.Error(t, err)
}

func TestRemovePending(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Pair("tx-1", "le-1")
	require.NoError(t, err)
	require.NoError(t, s.RemovePending(0))
	assert.Empty(t, s.Pending())
	assert.Error(t, s.RemovePending(0))
}

func TestApplyPersistsPending(t *testing.T) {
	s, st := newTestSession(t)
	ctx := context.Background()

	_, err := s.Pair("tx-1", "le-1")
	require.NoError(t, err)
	_, err = s.Pair("tx-2", "le-2")
	require.NoError(t, err)

	applied, err := s.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Empty(t, s.Pending())

	persisted, err := st.ListMatches(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	for _, m := range persisted {
		assert.Equal(t, models.MatchSuggested, m.Status)
		assert.Equal(t, "manual", m.Metadata["source"])
	}
}

// failingStore rejects every match create after the first.
type failingStore struct {
	*store.Memory
	creates int
}

func (f *failingStore) CreateMatch(ctx context.Context, m *models.ReconciliationMatch) error {
	f.creates++
	if f.creates > 1 {
		return errors.New("write refused")
	}
	return f.Memory.CreateMatch(ctx, m)
}

func TestApplyStopsOnFirstFailure(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{Memory: store.NewMemory()}
	txs := []models.BankTransaction{
		bankTx("tx-1", "2024-11-21", "", 100),
		bankTx("tx-2", "2024-11-22", "", 200),
	}
	entries := []models.LedgerEntry{
		ledgerEntry("le-1", "2024-11-21", "", 100),
		ledgerEntry("le-2", "2024-11-22", "", 200),
	}
	s, err := NewSession(ctx, "sess-1", "co-1", st, txs, entries, &logging.MockLogger{})
	require.NoError(t, err)

	_, err = s.Pair("tx-1", "le-1")
	require.NoError(t, err)
	_, err = s.Pair("tx-2", "le-2")
	require.NoError(t, err)

	applied, err := s.Apply(ctx)
	assert.Error(t, err)
	assert.Equal(t, 1, applied)
	// The failed pending stays queued; the committed one does not.
	assert.Len(t, s.Pending(), 1)
	assert.Len(t, s.Matches(), 1)
}

func TestMatchedSidesAreClosed(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.Pair("tx-1", "le-1")
	require.NoError(t, err)
	_, err = s.Apply(ctx)
	require.NoError(t, err)

	_, err = s.SelectBank("tx-1")
	assert.Error(t, err)
	_, err = s.SelectLedger("le-1")
	assert.Error(t, err)
}

func TestConfirmAndRejectTransitions(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.Pair("tx-1", "le-1")
	require.NoError(t, err)
	_, err = s.Apply(ctx)
	require.NoError(t, err)
	matchID := s.Matches()[0].ID

	require.NoError(t, s.Confirm(ctx, matchID))
	assert.Equal(t, models.MatchConfirmed, s.Matches()[0].Status)

	// Confirmed is terminal.
	err = s.Reject(ctx, matchID)
	var transitionErr *recerror.StateTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.MatchConfirmed, s.Matches()[0].Status)
}

func TestRejectFreesBothSides(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.Pair("tx-1", "le-1")
	require.NoError(t, err)
	_, err = s.Apply(ctx)
	require.NoError(t, err)
	matchID := s.Matches()[0].ID

	require.NoError(t, s.Reject(ctx, matchID))

	// Both sides reopen for a fresh pairing.
	_, err = s.Pair("tx-1", "le-2")
	assert.NoError(t, err)
}

func TestDeleteMatch(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.Pair("tx-1", "le-1")
	require.NoError(t, err)
	_, err = s.Apply(ctx)
	require.NoError(t, err)
	matchID := s.Matches()[0].ID

	require.NoError(t, s.Confirm(ctx, matchID))
	require.NoError(t, s.Delete(ctx, matchID))
	assert.Empty(t, s.Matches())

	assert.ErrorIs(t, s.Delete(ctx, "nope"), store.ErrNotFound)
}

func TestApplySuggestions(t *testing.T) {
	s, st := newTestSession(t)
	ctx := context.Background()

	suggestions := AutoMatch(
		[]models.BankTransaction{bankTx("tx-1", "2024-11-21", "INV-42", 1000)},
		[]models.LedgerEntry{ledgerEntry("le-1", "2024-11-21", "INV-42", 1000)},
		nil, 0.7, &logging.MockLogger{})
	require.Len(t, suggestions, 1)

	applied, err := s.ApplySuggestions(ctx, suggestions)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	persisted, err := st.ListMatches(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "auto", persisted[0].Metadata["source"])
}
