package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/anonsession/internal/common"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "uid", []byte("abc123")))

	v, err := r.Get(ctx, "uid")
	require.NoError(t, err)
	require.Equal(t, []byte("abc123"), v)
}

func TestGet_Absent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "uid")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSet_Upserts(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "uid", []byte("old")))
	require.NoError(t, r.Set(ctx, "uid", []byte("new")))

	v, err := r.Get(ctx, "uid")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestDelete_IsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "uid", []byte("x")))
	require.NoError(t, r.Delete(ctx, "uid"))
	require.NoError(t, r.Delete(ctx, "uid"))

	_, err := r.Get(ctx, "uid")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Clear(ctx))

	for _, k := range []string{"a", "b"} {
		_, err := r.Get(ctx, k)
		require.ErrorIs(t, err, common.ErrorNotFound)
	}
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())
	ctx := context.Background()

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "get metadata[k]")
	require.ErrorContains(t, r.Set(ctx, "k", []byte{1}), "set metadata[k]")
	require.ErrorContains(t, r.Delete(ctx, "k"), "delete metadata[k]")
	require.ErrorContains(t, r.Clear(ctx), "clear metadata")
}
