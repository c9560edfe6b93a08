package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/runnerr0/fedai/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string           `json:"version"`
	Driver            string           `json:"driver"`
	DatabasePath      string           `json:"database_path,omitempty"`
	DatabaseSizeBytes int64            `json:"database_size_bytes"`
	Rows              map[string]int64 `json:"rows"`
	ServerAddr        string           `json:"server_addr"`
	ExportDriver      string           `json:"export_driver"`
	DefaultPageSize   int              `json:"default_page_size"`
}

// statsJSON is the JSON output structure for the stats command.
type statsJSON struct {
	Agencies *storage.AgencyStats `json:"agencies"`
	AI       *storage.AIStats     `json:"ai"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWithEnv)
}

// executeWithEnv runs status against a provided environment (for testing).
func (c *StatusCommand) executeWithEnv(ctx context.Context, e *env) error {
	counts, err := e.store.Counts(ctx)
	if err != nil {
		return fmt.Errorf("count rows: %w", err)
	}
	dbSize := getDatabaseSize(e.db, e.dbPath, e.store.Dialect())

	if jsonOutput(c.globals) {
		return printJSON(statusJSON{
			Version:           c.version,
			Driver:            string(e.store.Dialect()),
			DatabasePath:      e.dbPath,
			DatabaseSizeBytes: dbSize,
			Rows:              counts,
			ServerAddr:        e.cfg.ServerAddr(),
			ExportDriver:      e.cfg.Export.Driver,
			DefaultPageSize:   e.cfg.Table.DefaultPageSize,
		})
	}

	fmt.Println("fedai Status")
	fmt.Println("============")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Driver:        %s\n", e.store.Dialect())
	if e.dbPath != "" {
		fmt.Printf("Database:      %s (%s)\n", e.dbPath, formatBytes(dbSize))
	}
	fmt.Printf("Agencies:      %s\n", formatNumber(counts["agency_ai_usage"]))
	fmt.Printf("Products:      %s\n", formatNumber(counts["products"]))
	fmt.Printf("AI services:   %s\n", formatNumber(counts["ai_service_analysis"]))
	fmt.Printf("Matches:       %s\n", formatNumber(counts["agency_service_matches"]))
	fmt.Println()
	fmt.Printf("Server:        http://%s\n", e.cfg.ServerAddr())
	fmt.Printf("Exports:       %s\n", e.cfg.Export.Driver)
	fmt.Printf("Page size:     %d\n", e.cfg.Table.DefaultPageSize)

	return nil
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory SQLite databases,
// it queries page_count * page_size. Postgres reports 0.
func getDatabaseSize(db *sql.DB, dbPath string, dialect storage.Dialect) int64 {
	if dbPath != "" {
		if info, err := os.Stat(dbPath); err == nil {
			return info.Size()
		}
	}
	if db == nil || !dialect.IsSQLite() {
		return 0
	}

	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWithEnv)
}

func (c *StatsCommand) executeWithEnv(ctx context.Context, e *env) error {
	agencies, err := e.store.GetAgencyStats(ctx)
	if err != nil {
		return err
	}
	ai, err := e.store.GetAIStats(ctx)
	if err != nil {
		return err
	}

	if jsonOutput(c.globals) {
		return printJSON(statsJSON{Agencies: agencies, AI: ai})
	}

	fmt.Println("Agency AI Usage")
	fmt.Println("===============")
	fmt.Printf("Agencies:            %s\n", formatNumber(agencies.TotalAgencies))
	fmt.Printf("With staff LLM:      %s\n", formatNumber(agencies.WithLLM))
	fmt.Printf("With coding tools:   %s\n", formatNumber(agencies.WithCoding))
	fmt.Printf("Custom solutions:    %s\n", formatNumber(agencies.CustomSolution))
	fmt.Printf("Commercial:          %s\n", formatNumber(agencies.CommercialSolution))
	fmt.Printf("FedRAMP matches:     %s (%s high confidence)\n", formatNumber(agencies.TotalMatches), formatNumber(agencies.HighConfidenceMatches))
	fmt.Println()
	fmt.Println("FedRAMP AI Services")
	fmt.Println("===================")
	fmt.Printf("AI services:         %s\n", formatNumber(ai.TotalServices))
	fmt.Printf("AI/ML:               %s\n", formatNumber(ai.CountAI))
	fmt.Printf("Generative AI:       %s\n", formatNumber(ai.CountGenAI))
	fmt.Printf("LLM:                 %s\n", formatNumber(ai.CountLLM))
	fmt.Printf("Products with AI:    %s\n", formatNumber(ai.ProductsWithAI))
	fmt.Printf("Providers with AI:   %s\n", formatNumber(ai.ProvidersWithAI))
	return nil
}
