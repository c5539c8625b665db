package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckName(t *testing.T) {
	for _, ok := range []string{"events", "test_db", "_x1", "Events2026"} {
		assert.NoError(t, checkName(ok), ok)
	}
	for _, bad := range []string{"", "1events", "drop table", `ev"ents`, "a-b"} {
		assert.Error(t, checkName(bad), bad)
	}
}

func TestOpenSQLite_CreatesContainer(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "events.db")

	db, err := OpenSQLite(ctx, path, "events")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, "events",
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "events", name)

	// Opening again is a no-op on the existing container.
	again, err := OpenSQLite(ctx, path, "events")
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), " ", "events")
	require.Error(t, err)
}

func TestOpenSQLite_RejectsContainerName(t *testing.T) {
	_, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "x.db"), "events; drop")
	require.Error(t, err)
}
