package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBolt(t *testing.T) {
	store, err := OpenBolt(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	require.NotNil(t, store.DB)
	assert.NoError(t, store.Close())

	var empty *Bolt
	assert.NoError(t, empty.Close())
}

func TestOpenBoltRequiresPath(t *testing.T) {
	_, err := OpenBolt(" ")
	assert.Error(t, err)
}

func TestConnectRequiresDSN(t *testing.T) {
	_, err := Connect(t.Context(), "")
	assert.Error(t, err)
}
