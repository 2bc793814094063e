package boltadapter

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
	"ballotbox/contexts/governance/election-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func envelope(sequence uint64, eventID string) ports.EventEnvelope {
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     "vote.cast",
		OccurredAt:    time.Date(2026, time.May, 2, 9, 0, 0, 0, time.UTC),
		SourceService: "election-service",
		SchemaVersion: 1,
		Sequence:      sequence,
		Data:          json.RawMessage(`{"voter":"v","candidate_id":1}`),
	}
}

func openDB(t *testing.T, path string) *bbolt.DB {
	t.Helper()
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	return db
}

func openJournal(t *testing.T) (*Journal, *bbolt.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "election.db")
	db := openDB(t, path)
	journal, err := NewJournal(db, nil)
	require.NoError(t, err)
	return journal, db, path
}

func TestJournalAppendAndLoad(t *testing.T) {
	journal, db, _ := openJournal(t)
	defer db.Close()
	ctx := context.Background()

	require.NoError(t, journal.AppendEvents(ctx, []ports.EventEnvelope{envelope(1, "a"), envelope(2, "b")}))
	require.NoError(t, journal.AppendEvents(ctx, []ports.EventEnvelope{envelope(3, "c")}))

	all, err := journal.LoadEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].EventID)
	assert.Equal(t, "c", all[2].EventID)

	tail, err := journal.LoadEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, uint64(3), tail[0].Sequence)

	empty, err := journal.LoadEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestJournalAppendIsIdempotentOnSequence(t *testing.T) {
	journal, db, _ := openJournal(t)
	defer db.Close()
	ctx := context.Background()

	require.NoError(t, journal.AppendEvents(ctx, []ports.EventEnvelope{envelope(1, "a")}))
	require.NoError(t, journal.AppendEvents(ctx, []ports.EventEnvelope{envelope(1, "a"), envelope(2, "b")}))

	err := journal.AppendEvents(ctx, []ports.EventEnvelope{envelope(2, "other")})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	all, err := journal.LoadEvents(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestJournalRejectsGapsAndZeroSequence(t *testing.T) {
	journal, db, _ := openJournal(t)
	defer db.Close()
	ctx := context.Background()

	assert.ErrorIs(t, journal.AppendEvents(ctx, []ports.EventEnvelope{envelope(0, "z")}), domainerrors.ErrConflict)
	assert.ErrorIs(t, journal.AppendEvents(ctx, []ports.EventEnvelope{envelope(2, "b")}), domainerrors.ErrConflict)

	all, err := journal.LoadEvents(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestJournalSurvivesReopen(t *testing.T) {
	journal, db, path := openJournal(t)
	ctx := context.Background()
	require.NoError(t, journal.AppendEvents(ctx, []ports.EventEnvelope{envelope(1, "a")}))
	require.NoError(t, db.Close())

	db = openDB(t, path)
	defer db.Close()
	reopened, err := NewJournal(db, nil)
	require.NoError(t, err)

	all, err := reopened.LoadEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.JSONEq(t, `{"voter":"v","candidate_id":1}`, string(all[0].Data))
}

func TestNewJournalRequiresDatabase(t *testing.T) {
	_, err := NewJournal(nil, nil)
	assert.ErrorIs(t, err, domainerrors.ErrJournalUnavailable)
}
