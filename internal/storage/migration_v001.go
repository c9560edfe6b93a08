package storage

import (
	"context"
	"database/sql"
	"strings"
)

// migrateV001 creates the agency usage, product, AI service and match
// tables. Every statement uses IF NOT EXISTS for idempotency.
func migrateV001(ctx context.Context, tx *sql.Tx, d Dialect) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS agency_ai_usage (
			id                   {{pk}},
			agency_name          TEXT NOT NULL,
			agency_category      TEXT NOT NULL CHECK (agency_category IN ('staff_llm', 'specialized')),
			has_staff_llm        TEXT,
			llm_name             TEXT,
			has_coding_assistant TEXT,
			scope                TEXT,
			solution_type        TEXT,
			non_public_allowed   TEXT,
			other_ai_present     TEXT,
			tool_name            TEXT,
			tool_purpose         TEXT,
			notes                TEXT,
			sources              TEXT,
			analyzed_at          TEXT NOT NULL DEFAULT '',
			slug                 TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			id           {{pk}},
			fedramp_id   TEXT NOT NULL UNIQUE,
			provider     TEXT NOT NULL DEFAULT '',
			offering     TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			services     TEXT NOT NULL DEFAULT '[]',
			status       TEXT NOT NULL DEFAULT '',
			impact_level TEXT NOT NULL DEFAULT '',
			auth_date    TEXT NOT NULL DEFAULT '',
			updated_at   TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS ai_service_analysis (
			id               {{pk}},
			product_id       TEXT NOT NULL,
			product_name     TEXT,
			provider_name    TEXT,
			service_name     TEXT,
			has_ai           INTEGER NOT NULL DEFAULT 0,
			has_genai        INTEGER NOT NULL DEFAULT 0,
			has_llm          INTEGER NOT NULL DEFAULT 0,
			relevant_excerpt TEXT,
			fedramp_status   TEXT,
			impact_level     TEXT,
			agencies         TEXT,
			auth_date        TEXT,
			analyzed_at      TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS agency_service_matches (
			id            {{pk}},
			agency_id     BIGINT NOT NULL REFERENCES agency_ai_usage(id) ON DELETE CASCADE,
			product_id    TEXT NOT NULL,
			provider_name TEXT,
			product_name  TEXT,
			confidence    TEXT NOT NULL CHECK (confidence IN ('high', 'medium', 'low')),
			match_reason  TEXT,
			created_at    TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_agency_category   ON agency_ai_usage(agency_category)`,
		`CREATE INDEX IF NOT EXISTS idx_agency_slug       ON agency_ai_usage(slug)`,
		`CREATE INDEX IF NOT EXISTS idx_products_provider ON products(provider)`,
		`CREATE INDEX IF NOT EXISTS idx_ai_product_id     ON ai_service_analysis(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ai_provider       ON ai_service_analysis(provider_name)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_agency    ON agency_service_matches(agency_id)`,
	}

	return execAll(ctx, tx, d, stmts)
}

// migrateV002 adds the flag indexes used by the service filters.
func migrateV002(ctx context.Context, tx *sql.Tx, d Dialect) error {
	return execAll(ctx, tx, d, []string{
		`CREATE INDEX IF NOT EXISTS idx_ai_has_ai     ON ai_service_analysis(has_ai)`,
		`CREATE INDEX IF NOT EXISTS idx_ai_has_genai  ON ai_service_analysis(has_genai)`,
		`CREATE INDEX IF NOT EXISTS idx_ai_has_llm    ON ai_service_analysis(has_llm)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_conf  ON agency_service_matches(confidence)`,
	})
}

func execAll(ctx context.Context, tx *sql.Tx, d Dialect, stmts []string) error {
	for _, stmt := range stmts {
		stmt = strings.ReplaceAll(stmt, "{{pk}}", d.serialPK())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
