package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/fedai/internal/storage"
)

func TestStatus_EmptyDatabase(t *testing.T) {
	e := newTestEnv(t)

	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "0.1.0-test"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	assert.Contains(t, output, "fedai Status")
	assert.Contains(t, output, "Version:       0.1.0-test")
	assert.Contains(t, output, "Driver:        sqlite3")
	assert.Contains(t, output, "Agencies:      0")
	assert.Contains(t, output, "Server:        http://127.0.0.1:8730")
	assert.Contains(t, output, "Exports:       fs")
	assert.Contains(t, output, "Page size:     50")
}

func TestStatus_CountsRows(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "test"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	assert.Contains(t, output, "Agencies:      4")
	assert.Contains(t, output, "Products:      2")
	assert.Contains(t, output, "AI services:   3")
	assert.Contains(t, output, "Matches:       0")
}

func TestStatus_JSON(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &StatusCommand{globals: &GlobalFlags{JSON: true}, version: "1.0.0"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	var out statusJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, "1.0.0", out.Version)
	assert.Equal(t, "sqlite3", out.Driver)
	assert.Empty(t, out.DatabasePath)
	assert.Greater(t, out.DatabaseSizeBytes, int64(0), "in-memory size comes from the page count")
	assert.Equal(t, int64(4), out.Rows["agency_ai_usage"])
	assert.Equal(t, int64(3), out.Rows["ai_service_analysis"])
	assert.Equal(t, 50, out.DefaultPageSize)
}

func TestGetDatabaseSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fedai.db")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o644))

	assert.Equal(t, int64(2048), getDatabaseSize(nil, path, storage.SQLite3))
	assert.Equal(t, int64(0), getDatabaseSize(nil, "", storage.Postgres))
	assert.Equal(t, int64(0), getDatabaseSize(nil, filepath.Join(t.TempDir(), "missing.db"), storage.SQLite3))
}

func TestStats_Text(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)
	captureOutput(t, func() {
		require.NoError(t, (&MatchCommand{globals: &GlobalFlags{}}).executeWithEnv(context.Background(), e))
	})

	cmd := &StatsCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	assert.Contains(t, output, "Agencies:            3")
	assert.Contains(t, output, "With staff LLM:      2")
	assert.Contains(t, output, "With coding tools:   2")
	assert.Contains(t, output, "Custom solutions:    2")
	assert.Contains(t, output, "Commercial:          1")
	assert.Contains(t, output, "FedRAMP matches:     2 (1 high confidence)")
	assert.Contains(t, output, "AI services:         3")
	assert.Contains(t, output, "LLM:                 1")
	assert.Contains(t, output, "Providers with AI:   2")
}

func TestStats_JSON(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &StatsCommand{globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	var out statsJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	require.NotNil(t, out.Agencies)
	require.NotNil(t, out.AI)
	assert.Equal(t, int64(3), out.Agencies.TotalAgencies)
	assert.Equal(t, int64(0), out.Agencies.TotalMatches)
	assert.Equal(t, int64(1), out.AI.CountGenAI)
	assert.Equal(t, int64(2), out.AI.ProductsWithAI)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "1,234,567", formatNumber(1234567))

	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2<<20))
}
