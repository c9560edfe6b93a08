package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// nullable stores "" as NULL so absent sheet cells stay absent.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ReplaceAgencies deletes every agency of category, and with them their
// matches, then inserts agencies in one transaction. IDs and analyzed_at of
// the inserted rows are assigned by the store.
func (s *SQLStore) ReplaceAgencies(ctx context.Context, category string, agencies []AgencyUsage) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, s.dialect.Rebind(
		"DELETE FROM agency_service_matches WHERE agency_id IN (SELECT id FROM agency_ai_usage WHERE agency_category = ?)"),
		category,
	); err != nil {
		return 0, fmt.Errorf("delete matches: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.dialect.Rebind("DELETE FROM agency_ai_usage WHERE agency_category = ?"), category); err != nil {
		return 0, fmt.Errorf("delete agencies: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(`
		INSERT INTO agency_ai_usage
			(agency_name, agency_category, has_staff_llm, llm_name, has_coding_assistant,
			 scope, solution_type, non_public_allowed, other_ai_present, tool_name,
			 tool_purpose, notes, sources, analyzed_at, slug)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	ts := now()
	for _, a := range agencies {
		if _, err := stmt.ExecContext(ctx,
			a.AgencyName, category, nullable(a.HasStaffLLM), nullable(a.LLMName), nullable(a.HasCodingAssistant),
			nullable(a.Scope), nullable(a.SolutionType), nullable(a.NonPublicAllowed), nullable(a.OtherAIPresent), nullable(a.ToolName),
			nullable(a.ToolPurpose), nullable(a.Notes), nullable(a.Sources), ts, a.Slug,
		); err != nil {
			return 0, fmt.Errorf("insert agency %q: %w", a.AgencyName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit agencies: %w", err)
	}
	return len(agencies), nil
}

// UpsertProducts inserts products, updating rows whose fedramp_id already
// exists.
func (s *SQLStore) UpsertProducts(ctx context.Context, products []Product) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(`
		INSERT INTO products
			(fedramp_id, provider, offering, description, services, status, impact_level, auth_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (fedramp_id) DO UPDATE SET
			provider = excluded.provider,
			offering = excluded.offering,
			description = excluded.description,
			services = excluded.services,
			status = excluded.status,
			impact_level = excluded.impact_level,
			auth_date = excluded.auth_date,
			updated_at = excluded.updated_at
	`))
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	ts := now()
	for _, p := range products {
		services := p.Services
		if services == nil {
			services = []string{}
		}
		encoded, err := json.Marshal(services)
		if err != nil {
			return 0, fmt.Errorf("encode services of %s: %w", p.FedRAMPID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			p.FedRAMPID, p.Provider, p.Offering, p.Description, string(encoded),
			p.Status, p.ImpactLevel, p.AuthDate, ts,
		); err != nil {
			return 0, fmt.Errorf("upsert product %s: %w", p.FedRAMPID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit products: %w", err)
	}
	return len(products), nil
}

// ListProducts returns every stored product ordered by provider and offering.
func (s *SQLStore) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fedramp_id, provider, offering, description, services, status, impact_level, auth_date
		FROM products
		ORDER BY provider, offering, fedramp_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		var services string
		if err := rows.Scan(&p.FedRAMPID, &p.Provider, &p.Offering, &p.Description, &services, &p.Status, &p.ImpactLevel, &p.AuthDate); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if err := json.Unmarshal([]byte(services), &p.Services); err != nil {
			return nil, fmt.Errorf("decode services of %s: %w", p.FedRAMPID, err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ReplaceAIServices swaps the whole AI service analysis for services.
func (s *SQLStore) ReplaceAIServices(ctx context.Context, services []AIService) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM ai_service_analysis"); err != nil {
		return 0, fmt.Errorf("delete services: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(`
		INSERT INTO ai_service_analysis
			(product_id, product_name, provider_name, service_name, has_ai, has_genai, has_llm,
			 relevant_excerpt, fedramp_status, impact_level, agencies, auth_date, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	ts := now()
	for _, v := range services {
		analyzed := v.AnalyzedAt
		if analyzed == "" {
			analyzed = ts
		}
		if _, err := stmt.ExecContext(ctx,
			v.ProductID, v.ProductName, v.ProviderName, v.ServiceName, flag(v.HasAI), flag(v.HasGenAI), flag(v.HasLLM),
			v.RelevantExcerpt, v.FedRAMPStatus, v.ImpactLevel, v.Agencies, v.AuthDate, analyzed,
		); err != nil {
			return 0, fmt.Errorf("insert service %q: %w", v.ServiceName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit services: %w", err)
	}
	return len(services), nil
}

func flag(v int) int {
	if v != 0 {
		return 1
	}
	return 0
}

// ReplaceMatches deletes every existing match and inserts matches.
func (s *SQLStore) ReplaceMatches(ctx context.Context, matches []AgencyServiceMatch) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM agency_service_matches"); err != nil {
		return 0, fmt.Errorf("delete matches: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(`
		INSERT INTO agency_service_matches
			(agency_id, product_id, provider_name, product_name, confidence, match_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	ts := now()
	for _, m := range matches {
		if _, err := stmt.ExecContext(ctx,
			m.AgencyID, m.ProductID, m.ProviderName, m.ProductName, m.Confidence, m.MatchReason, ts,
		); err != nil {
			return 0, fmt.Errorf("insert match %d/%s: %w", m.AgencyID, m.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit matches: %w", err)
	}
	return len(matches), nil
}

// PurgeAll deletes all loaded data. The schema is kept.
func (s *SQLStore) PurgeAll(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM agency_service_matches",
		"DELETE FROM agency_ai_usage",
		"DELETE FROM ai_service_analysis",
		"DELETE FROM products",
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("purge (%s): %w", stmt, err)
			}
		}
		return nil
	})
}

// Counts returns the row count of every data table, keyed by table name.
func (s *SQLStore) Counts(ctx context.Context) (map[string]int64, error) {
	tables := []string{"agency_ai_usage", "agency_service_matches", "ai_service_analysis", "products"}
	out := make(map[string]int64, len(tables))
	for _, t := range tables {
		var n int64
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
		out[t] = n
	}
	return out, nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
