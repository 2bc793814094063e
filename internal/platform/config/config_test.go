package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	t.Setenv("ELECTION_OWNER", " owner-1 ")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "ballotbox", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "owner-1", cfg.ElectionOwner)
	assert.Equal(t, JournalMemory, cfg.Journal)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.True(t, cfg.EnableOutboxRelay)
	assert.True(t, cfg.EnableMetrics)
}

func TestParseReadsOverrides(t *testing.T) {
	t.Setenv("ELECTION_OWNER", "owner-1")
	t.Setenv("JOURNAL_DRIVER", "BOLT")
	t.Setenv("BOLT_PATH", "/tmp/election.db")
	t.Setenv("KAFKA_BROKERS", "a:9092, ,b:9092")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")
	t.Setenv("OUTBOX_BATCH_SIZE", "7")
	t.Setenv("ENABLE_METRICS", "false")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, JournalBolt, cfg.Journal)
	assert.Equal(t, "/tmp/election.db", cfg.BoltPath)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 7, cfg.OutboxBatchSize)
	assert.False(t, cfg.EnableMetrics)
}

func TestParseRequiresOwner(t *testing.T) {
	t.Setenv("ELECTION_OWNER", "")
	_, err := Parse()
	assert.ErrorContains(t, err, "ELECTION_OWNER")
}

func TestParseValidatesJournalDriver(t *testing.T) {
	t.Setenv("ELECTION_OWNER", "owner-1")

	t.Setenv("JOURNAL_DRIVER", "sqlite")
	_, err := Parse()
	assert.ErrorContains(t, err, "JOURNAL_DRIVER")

	t.Setenv("JOURNAL_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	_, err = Parse()
	assert.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestGrants(t *testing.T) {
	cfg := Config{TokenGrants: "alice=3, bob=1,alice=2,"}
	grants, err := cfg.Grants()
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"alice": 5, "bob": 1}, grants)

	_, err = Config{TokenGrants: "alice"}.Grants()
	assert.Error(t, err)
	_, err = Config{TokenGrants: "alice=-1"}.Grants()
	assert.Error(t, err)
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("ELECTION_OWNER=from-file\nSERVICE_NAME=from-file\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("SERVICE_NAME", "from-env")
	t.Setenv("ELECTION_OWNER", "")
	require.NoError(t, os.Unsetenv("ELECTION_OWNER"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.ElectionOwner)
	assert.Equal(t, "from-env", cfg.ServiceName)
}
