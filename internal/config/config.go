package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/fedai/config.yaml"

// Config holds all fedai configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
	Table    TableConfig    `yaml:"table"`
	Logging  LoggingConfig  `yaml:"logging"`
	Export   ExportConfig   `yaml:"export"`
	Matching MatchingConfig `yaml:"matching"`
}

type StorageConfig struct {
	// Driver is sqlite3 (cgo), sqlite (pure Go) or pgx (Postgres).
	Driver      string `yaml:"driver"`
	Path        string `yaml:"path"`
	SQLiteFile  string `yaml:"sqlite_file"`
	DSN         string `yaml:"dsn"`
	JournalMode string `yaml:"journal_mode"`
}

type ServerConfig struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	ReadTimeoutSeconds     int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `yaml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

type TableConfig struct {
	DefaultPageSize int   `yaml:"default_page_size"`
	PageSizeOptions []int `yaml:"page_size_options"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	// Format is text or json.
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
}

type ExportConfig struct {
	// Driver is fs, s3 or memory.
	Driver string   `yaml:"driver"`
	FSRoot string   `yaml:"fs_root"`
	S3     S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Prefix          string `yaml:"prefix"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type MatchingConfig struct {
	Providers  []ProviderMatcher `yaml:"providers"`
	AIKeywords []string          `yaml:"ai_keywords"`
}

// ProviderMatcher names a cloud provider and the lowercase keywords that
// identify it in free text.
type ProviderMatcher struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read, contains invalid YAML or
// fails validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite3", "sqlite":
	case "pgx":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver pgx")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if c.Table.DefaultPageSize <= 0 {
		return fmt.Errorf("table.default_page_size must be positive")
	}
	if len(c.Table.PageSizeOptions) > 0 && !slices.Contains(c.Table.PageSizeOptions, c.Table.DefaultPageSize) {
		return fmt.Errorf("table.default_page_size %d is not one of page_size_options", c.Table.DefaultPageSize)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}

	switch c.Export.Driver {
	case "fs", "memory":
	case "s3":
		if c.Export.S3.Bucket == "" {
			return fmt.Errorf("export.s3.bucket is required for driver s3")
		}
	default:
		return fmt.Errorf("unknown export.driver %q", c.Export.Driver)
	}

	for _, p := range c.Matching.Providers {
		if p.Name == "" || len(p.Keywords) == 0 {
			return fmt.Errorf("matching provider %q needs a name and keywords", p.Name)
		}
	}

	return nil
}

// DatabasePath returns the resolved SQLite database file path.
func (c *Config) DatabasePath() (string, error) {
	if c.Storage.SQLiteFile == ":memory:" {
		return c.Storage.SQLiteFile, nil
	}
	if filepath.IsAbs(c.Storage.SQLiteFile) {
		return c.Storage.SQLiteFile, nil
	}
	dir, err := ExpandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.SQLiteFile), nil
}

// ServerAddr is the listen address of the web server.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
