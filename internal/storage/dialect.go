package storage

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect identifies the SQL flavor behind a database/sql driver name.
type Dialect string

const (
	// SQLite3 is the cgo SQLite driver (github.com/mattn/go-sqlite3).
	SQLite3 Dialect = "sqlite3"
	// SQLite is the pure Go SQLite driver (modernc.org/sqlite).
	SQLite Dialect = "sqlite"
	// Postgres is the pgx stdlib driver (github.com/jackc/pgx/v5/stdlib).
	Postgres Dialect = "pgx"
)

// ParseDialect maps a configured driver name to its Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(driver))); d {
	case SQLite3, SQLite, Postgres:
		return d, nil
	case "":
		return SQLite3, nil
	case "postgres", "postgresql":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// IsSQLite reports whether d is one of the SQLite drivers.
func (d Dialect) IsSQLite() bool {
	return d == SQLite3 || d == SQLite
}

// Rebind rewrites ? placeholders into the dialect's bind syntax. Question
// marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
			b.WriteRune(r)
		case r == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Like is the pattern operator with SQLite's ASCII case folding.
func (d Dialect) Like() string {
	if d == Postgres {
		return "ILIKE"
	}
	return "LIKE"
}

// serialPK is the column definition of an auto-incrementing primary key.
func (d Dialect) serialPK() string {
	if d == Postgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}
