package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:      "sqlite3",
			Path:        "~/.config/fedai",
			SQLiteFile:  "fedramp.db",
			DSN:         "",
			JournalMode: "WAL",
		},
		Server: ServerConfig{
			Host:                   "127.0.0.1",
			Port:                   8730,
			ReadTimeoutSeconds:     15,
			WriteTimeoutSeconds:    30,
			ShutdownTimeoutSeconds: 10,
		},
		Table: TableConfig{
			DefaultPageSize: 50,
			PageSizeOptions: []int{25, 50, 100, 999999},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
		},
		Export: ExportConfig{
			Driver: "fs",
			FSRoot: "~/.config/fedai/exports",
			S3: S3Config{
				Region: "us-east-1",
				Prefix: "exports/",
			},
		},
		Matching: MatchingConfig{
			Providers:  DefaultProviderMatchers(),
			AIKeywords: DefaultAIKeywords(),
		},
	}
}
