package main

import (
	"context"
	"path/filepath"
	"testing"

	boltadapter "ballotbox/contexts/governance/election-service/adapters/bolt"
	"ballotbox/contexts/governance/election-service/application"
	"ballotbox/contexts/governance/election-service/domain/entities"
	domainerrors "ballotbox/contexts/governance/election-service/domain/errors"
	"ballotbox/contexts/governance/election-service/ports"
	"ballotbox/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAuditEnv(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "election.db")
	t.Setenv("ELECTION_OWNER", "owner-1")
	t.Setenv("JOURNAL_DRIVER", "bolt")
	t.Setenv("BOLT_PATH", path)
	return path
}

func writeJournal(t *testing.T, path string, items ...entities.Event) {
	t.Helper()
	store, err := db.OpenBolt(path)
	require.NoError(t, err)
	defer store.Close()
	journal, err := boltadapter.NewJournal(store.DB, nil)
	require.NoError(t, err)
	for _, item := range items {
		envelope, err := application.EncodeEvent(item)
		require.NoError(t, err)
		require.NoError(t, journal.AppendEvents(context.Background(), []ports.EventEnvelope{envelope}))
	}
}

func TestRunPassesOnConsistentJournal(t *testing.T) {
	path := setAuditEnv(t)
	writeJournal(t, path,
		entities.Event{
			Sequence: 1,
			EventID:  "evt-1",
			Type:     entities.EventTypeCandidateRegistered,
			CandidateRegistered: &entities.CandidateRegistered{
				ID: 1, Name: "Name1", Affiliation: "Cult1", Age: 30,
			},
		},
		entities.Event{
			Sequence: 2,
			EventID:  "evt-2",
			Type:     entities.EventTypeVoteCast,
			VoteCast: &entities.VoteCast{Voter: "voter1", CandidateID: 1},
		},
	)

	assert.NoError(t, run(context.Background()))
}

func TestRunFailsOnBrokenJournal(t *testing.T) {
	path := setAuditEnv(t)
	writeJournal(t, path, entities.Event{
		Sequence: 1,
		EventID:  "evt-1",
		Type:     entities.EventTypeVoteCast,
		VoteCast: &entities.VoteCast{Voter: "voter1", CandidateID: 1},
	})

	err := run(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrUnknownCandidate)
}
