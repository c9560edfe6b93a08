package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in   string
		want Dialect
	}{
		{"", SQLite3},
		{"sqlite3", SQLite3},
		{"SQLite", SQLite},
		{"pgx", Postgres},
		{"postgres", Postgres},
	}
	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseDialect("mysql")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b LIKE '%?%' AND c = ?"

	assert.Equal(t, q, SQLite3.Rebind(q))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b LIKE '%?%' AND c = $2", Postgres.Rebind(q))
}

func TestLike(t *testing.T) {
	assert.Equal(t, "LIKE", SQLite.Like())
	assert.Equal(t, "ILIKE", Postgres.Like())
}

func TestOpen_FileDatabase(t *testing.T) {
	for _, d := range sqliteDialects {
		t.Run(string(d), func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "nested", "fedai.db")

			store, db, err := OpenStore(ctx, Options{Driver: string(d), Path: path})
			require.NoError(t, err)
			seedAgencies(t, store)
			store.Close()
			db.Close()

			store, db, err = OpenStore(ctx, Options{Driver: string(d), Path: path})
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })
			t.Cleanup(func() { store.Close() })

			agencies, err := store.ListAgencies(ctx, "")
			require.NoError(t, err)
			assert.Len(t, agencies, 4)
		})
	}
}

func TestOpen_RequiresLocation(t *testing.T) {
	ctx := context.Background()

	_, _, err := Open(ctx, Options{Driver: "sqlite3"})
	assert.ErrorContains(t, err, "requires a path")

	_, _, err = Open(ctx, Options{Driver: "pgx"})
	assert.ErrorContains(t, err, "requires a dsn")

	_, _, err = Open(ctx, Options{Driver: "oracle", Path: "x"})
	assert.ErrorContains(t, err, "unsupported storage driver")
}
