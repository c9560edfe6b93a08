package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Options selects and configures the database behind a Store.
type Options struct {
	// Driver is sqlite3, sqlite or pgx.
	Driver string
	// Path is the SQLite database file, or ":memory:".
	Path string
	// DSN is the Postgres connection string.
	DSN string
	// JournalMode is applied to SQLite databases, e.g. WAL.
	JournalMode string
}

// Open connects to the configured database, runs pending migrations and
// returns the ready database handle with its dialect.
func Open(ctx context.Context, opts Options) (*sql.DB, Dialect, error) {
	dialect, err := ParseDialect(opts.Driver)
	if err != nil {
		return nil, "", err
	}

	dsn, err := dataSource(dialect, opts)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}
	if dialect.IsSQLite() && opts.Path == ":memory:" {
		// Every pooled connection would see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("connect %s: %w", dialect, err)
	}

	runner := NewMigrationRunner(db, dialect)
	runner.JournalMode = opts.JournalMode
	if err := runner.Run(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("run migrations: %w", err)
	}

	return db, dialect, nil
}

// OpenStore is Open followed by NewSQLStore.
func OpenStore(ctx context.Context, opts Options) (*SQLStore, *sql.DB, error) {
	db, dialect, err := Open(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	store, err := NewSQLStore(db, dialect)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}
	return store, db, nil
}

func dataSource(d Dialect, opts Options) (string, error) {
	switch d {
	case Postgres:
		if opts.DSN == "" {
			return "", fmt.Errorf("storage driver %s requires a dsn", d)
		}
		return opts.DSN, nil
	default:
		path := opts.Path
		if path == "" {
			return "", fmt.Errorf("storage driver %s requires a path", d)
		}
		if path != ":memory:" && !strings.HasPrefix(path, "file:") {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return "", fmt.Errorf("create database directory: %w", err)
			}
		}
		if d == SQLite {
			return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
		}
		return path + "?_foreign_keys=on&_busy_timeout=5000", nil
	}
}
