package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesMetadataTable(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "session.db")

	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`INSERT INTO metadata (key, value) VALUES ('uid', 'x')`)
	require.NoError(t, err)

	var v string
	require.NoError(t, db.QueryRow(`SELECT value FROM metadata WHERE key = 'uid'`).Scan(&v))
	assert.Equal(t, "x", v)
}

func TestOpen_IsRepeatable(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "session.db")

	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestOpen_MigrationError(t *testing.T) {
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	t.Cleanup(func() { gooseUpContext = orig })

	_, err := Open(context.Background(), ":memory:")
	require.ErrorContains(t, err, "boom")
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "state", "session.db")

	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestIsFilePath(t *testing.T) {
	assert.True(t, isFilePath("session.db"))
	assert.True(t, isFilePath("/var/lib/cli/session.db"))
	assert.False(t, isFilePath(":memory:"))
	assert.False(t, isFilePath("file:session.db?cache=shared"))
	assert.False(t, isFilePath(""))
}
