package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "sqlite3", cfg.Storage.Driver)
	assert.Equal(t, "~/.config/fedai", cfg.Storage.Path)
	assert.Equal(t, "fedramp.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "WAL", cfg.Storage.JournalMode)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8730, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeoutSeconds)
	assert.Equal(t, 50, cfg.Table.DefaultPageSize)
	assert.Equal(t, []int{25, 50, 100, 999999}, cfg.Table.PageSizeOptions)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Logging.File)
	assert.Equal(t, "fs", cfg.Export.Driver)
	assert.Equal(t, "us-east-1", cfg.Export.S3.Region)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultProviderMatchers(t *testing.T) {
	providers := DefaultProviderMatchers()
	require.Len(t, providers, 6)

	assert.Equal(t, "Microsoft", providers[0].Name)
	assert.Contains(t, providers[0].Keywords, "copilot")
	assert.Equal(t, "Amazon", providers[1].Name)
	assert.Contains(t, providers[1].Keywords, "govcloud")
	assert.Equal(t, "Salesforce", providers[5].Name)

	assert.Equal(t, []string{"openai", "gpt", "bedrock", "sagemaker", "copilot", "vertex"}, DefaultAIKeywords())
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
storage:
  driver: "sqlite"
  sqlite_file: "other.db"
server:
  port: 9999
table:
  default_page_size: 25
logging:
  level: "debug"
  format: "json"
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "other.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Table.DefaultPageSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Non-overridden values remain defaults
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "~/.config/fedai", cfg.Storage.Path)
	assert.Len(t, cfg.Matching.Providers, 6)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	err := os.WriteFile(cfgPath, []byte(":::not valid yaml{{{"), 0644)
	require.NoError(t, err)

	_, err = Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing", "config.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"driver", "storage:\n  driver: mysql\n", "storage.driver"},
		{"pgx without dsn", "storage:\n  driver: pgx\n", "storage.dsn"},
		{"page size", "table:\n  default_page_size: 0\n", "default_page_size"},
		{"page size option", "table:\n  default_page_size: 30\n", "page_size_options"},
		{"log format", "logging:\n  format: xml\n", "logging.format"},
		{"s3 bucket", "export:\n  driver: s3\n", "export.s3.bucket"},
		{"port", "server:\n  port: 70000\n", "server.port"},
		{"provider", "matching:\n  providers:\n    - name: Acme\n", "Acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(cfgPath, []byte(tt.yaml), 0644))

			_, err := Load(cfgPath)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadOrCreateCreatesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "deep", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)

	// Should return defaults
	assert.Equal(t, 8730, cfg.Server.Port)
	assert.Equal(t, "sqlite3", cfg.Storage.Driver)

	// File should now exist on disk
	_, statErr := os.Stat(cfgPath)
	assert.NoError(t, statErr)

	// File should be valid YAML loadable again
	cfg2, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, cfg2)
}

func TestLoadOrCreateLoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
server:
  port: 7000
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	// Other fields remain defaults
	assert.Equal(t, "fedramp.db", cfg.Storage.SQLiteFile)
}

func TestLoadMatchingOverridesReplaceDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
matching:
  providers:
    - name: "Anthropic"
      keywords: ["claude", "anthropic"]
  ai_keywords: ["claude"]
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(yamlContent), 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	require.Len(t, cfg.Matching.Providers, 1)
	assert.Equal(t, "Anthropic", cfg.Matching.Providers[0].Name)
	assert.Equal(t, []string{"claude"}, cfg.Matching.AIKeywords)
}

func TestDatabasePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := DefaultConfig()
	path, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "fedai", "fedramp.db"), path)

	cfg.Storage.SQLiteFile = "/var/lib/fedai/data.db"
	path, err = cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/fedai/data.db", path)

	cfg.Storage.SQLiteFile = ":memory:"
	path, err = cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, ":memory:", path)
}

func TestServerAddr(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "127.0.0.1:8730", cfg.ServerAddr())
}
