package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/runnerr0/fedai/internal/config"
	"github.com/runnerr0/fedai/internal/logging"
	"github.com/runnerr0/fedai/internal/storage"
)

// env is what a command runs against: loaded config, an open store and a
// logger. Tests build one directly around an in-memory store.
type env struct {
	cfg     *config.Config
	store   *storage.SQLStore
	db      *sql.DB
	log     *slog.Logger
	dbPath  string
	closers []io.Closer
}

func (e *env) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// loadConfig reads --config when given, otherwise the default config file,
// creating it with defaults on first use.
func loadConfig(g *GlobalFlags) (*config.Config, error) {
	if g != nil && g.Config != "" {
		path, err := config.ExpandPath(g.Config)
		if err != nil {
			return nil, err
		}
		return config.LoadOrCreateAt(path)
	}
	return config.LoadOrCreate()
}

// openEnv loads config, sets up logging and opens the configured store.
func openEnv(ctx context.Context, g *GlobalFlags) (*env, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if g != nil && g.Verbose {
		cfg.Logging.Level = "debug"
	}

	log, logCloser, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}
	e := &env{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	dialect, err := storage.ParseDialect(cfg.Storage.Driver)
	if err != nil {
		e.Close()
		return nil, err
	}
	opts := storage.Options{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN, JournalMode: cfg.Storage.JournalMode}
	if dialect.IsSQLite() {
		opts.Path, err = cfg.DatabasePath()
		if err != nil {
			e.Close()
			return nil, err
		}
		e.dbPath = opts.Path
	}

	store, db, err := storage.OpenStore(ctx, opts)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.store = store
	e.db = db
	e.closers = append(e.closers, db, store)
	log.Debug("opened store", slog.String("driver", cfg.Storage.Driver), slog.String("path", e.dbPath))
	return e, nil
}

// withEnv opens the environment, runs fn and closes everything again.
func withEnv(g *GlobalFlags, fn func(ctx context.Context, e *env) error) error {
	ctx := context.Background()
	e, err := openEnv(ctx, g)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(ctx, e)
}

func jsonOutput(g *GlobalFlags) bool {
	return g != nil && g.JSON
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// orNA renders absent values the way the tables do.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// truncate shortens s to n runes for terminal tables.
func truncate(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
		if len(s) > remainder {
			result.WriteString(",")
		}
	}
	for i := remainder; i < len(s); i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
