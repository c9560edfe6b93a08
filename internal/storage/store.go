package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned (wrapped) when a keyed lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store is the read side used by the browser: every call is a
// self-contained unit of work.
type Store interface {
	ListAgencies(ctx context.Context, category string) ([]AgencyUsage, error)
	GetAgencyBySlug(ctx context.Context, slug string) (*AgencyUsage, error)
	ListAgencyMatches(ctx context.Context, agencyID int64) ([]AgencyServiceMatch, error)
	GetAgencyStats(ctx context.Context) (*AgencyStats, error)
	SearchAgencies(ctx context.Context, query string) ([]AgencyUsage, error)
	ListAIServices(ctx context.Context, filter string) ([]AIService, error)
	ListServicesByProduct(ctx context.Context, productID string) ([]AIService, error)
	GetAIStats(ctx context.Context) (*AIStats, error)
	Close() error
}

// Loader is the write side used by the import, match and purge commands.
type Loader interface {
	ReplaceAgencies(ctx context.Context, category string, agencies []AgencyUsage) (int, error)
	UpsertProducts(ctx context.Context, products []Product) (int, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ReplaceAIServices(ctx context.Context, services []AIService) (int, error)
	ReplaceMatches(ctx context.Context, matches []AgencyServiceMatch) (int, error)
	PurgeAll(ctx context.Context) error
}

const agencyColumns = `id, agency_name, agency_category,
	COALESCE(has_staff_llm, ''), COALESCE(llm_name, ''), COALESCE(has_coding_assistant, ''),
	COALESCE(scope, ''), COALESCE(solution_type, ''), COALESCE(non_public_allowed, ''),
	COALESCE(other_ai_present, ''), COALESCE(tool_name, ''), COALESCE(tool_purpose, ''),
	COALESCE(notes, ''), COALESCE(sources, ''), analyzed_at, slug`

const serviceColumns = `id, product_id, COALESCE(product_name, ''), COALESCE(provider_name, ''),
	COALESCE(service_name, ''), has_ai, has_genai, has_llm, COALESCE(relevant_excerpt, ''),
	COALESCE(fedramp_status, ''), COALESCE(impact_level, ''), COALESCE(agencies, ''),
	COALESCE(auth_date, ''), analyzed_at`

// SQLStore implements Store and Loader over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect

	// Prepared statements
	getAgencyBySlug       *sql.Stmt
	listAgencyMatches     *sql.Stmt
	listServicesByProduct *sql.Stmt
}

var (
	_ Store  = (*SQLStore)(nil)
	_ Loader = (*SQLStore)(nil)
)

// NewSQLStore creates a SQLStore from an already-opened and migrated database.
func NewSQLStore(db *sql.DB, dialect Dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: dialect}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLStore) prepareStatements() error {
	var err error

	s.getAgencyBySlug, err = s.db.Prepare(s.dialect.Rebind(`
		SELECT ` + agencyColumns + `
		FROM agency_ai_usage WHERE slug = ?
		ORDER BY CASE agency_category WHEN 'staff_llm' THEN 0 ELSE 1 END, id
		LIMIT 1
	`))
	if err != nil {
		return err
	}

	s.listAgencyMatches, err = s.db.Prepare(s.dialect.Rebind(`
		SELECT agency_id, product_id, COALESCE(provider_name, ''), COALESCE(product_name, ''),
		       confidence, COALESCE(match_reason, '')
		FROM agency_service_matches
		WHERE agency_id = ?
		ORDER BY
			CASE confidence
				WHEN 'high' THEN 1
				WHEN 'medium' THEN 2
				WHEN 'low' THEN 3
			END,
			provider_name
	`))
	if err != nil {
		return err
	}

	s.listServicesByProduct, err = s.db.Prepare(s.dialect.Rebind(`
		SELECT ` + serviceColumns + `
		FROM ai_service_analysis
		WHERE product_id = ?
		ORDER BY service_name
	`))
	if err != nil {
		return err
	}

	return nil
}

// Dialect returns the SQL flavor of the underlying database.
func (s *SQLStore) Dialect() Dialect { return s.dialect }

// ListAgencies returns the agencies of one category ordered by name. An
// empty category returns every row.
func (s *SQLStore) ListAgencies(ctx context.Context, category string) ([]AgencyUsage, error) {
	query := "SELECT " + agencyColumns + " FROM agency_ai_usage"
	var args []any
	if category != "" {
		query += " WHERE agency_category = ?"
		args = append(args, category)
	}
	query += " ORDER BY agency_name, id"

	return s.scanAgencies(ctx, query, args...)
}

// GetAgencyBySlug returns the agency with slug, preferring its staff LLM row
// when the agency also has specialized tool rows.
func (s *SQLStore) GetAgencyBySlug(ctx context.Context, slug string) (*AgencyUsage, error) {
	a, err := scanAgency(s.getAgencyBySlug.QueryRowContext(ctx, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("agency %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("get agency: %w", err)
	}
	return a, nil
}

// ListAgencyMatches returns an agency's product matches, strongest first.
func (s *SQLStore) ListAgencyMatches(ctx context.Context, agencyID int64) ([]AgencyServiceMatch, error) {
	rows, err := s.listAgencyMatches.QueryContext(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	matches := []AgencyServiceMatch{}
	for rows.Next() {
		var m AgencyServiceMatch
		if err := rows.Scan(&m.AgencyID, &m.ProductID, &m.ProviderName, &m.ProductName, &m.Confidence, &m.MatchReason); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// GetAgencyStats counts the staff LLM rows by capability and the matches.
func (s *SQLStore) GetAgencyStats(ctx context.Context) (*AgencyStats, error) {
	like := s.dialect.Like()
	query := fmt.Sprintf(`
		SELECT
			COUNT(DISTINCT id),
			COALESCE(SUM(CASE WHEN has_staff_llm %[1]s '%%Yes%%' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN has_coding_assistant %[1]s '%%Yes%%' OR has_coding_assistant %[1]s '%%Allowed%%' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN solution_type %[1]s '%%Custom%%' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN solution_type %[1]s '%%Commercial%%' OR solution_type %[1]s '%%Azure%%' OR solution_type %[1]s '%%AWS%%' THEN 1 ELSE 0 END), 0),
			(SELECT COUNT(*) FROM agency_service_matches),
			(SELECT COUNT(*) FROM agency_service_matches WHERE confidence = 'high')
		FROM agency_ai_usage
		WHERE agency_category = ?
	`, like)

	var st AgencyStats
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), CategoryStaffLLM).Scan(
		&st.TotalAgencies, &st.WithLLM, &st.WithCoding, &st.CustomSolution,
		&st.CommercialSolution, &st.TotalMatches, &st.HighConfidenceMatches,
	)
	if err != nil {
		return nil, fmt.Errorf("agency stats: %w", err)
	}
	return &st, nil
}

// SearchAgencies returns agencies whose name, LLM name, solution type, tool
// name or notes contain query, ignoring case.
func (s *SQLStore) SearchAgencies(ctx context.Context, query string) ([]AgencyUsage, error) {
	term := "%" + strings.ToLower(query) + "%"
	q := `
		SELECT ` + agencyColumns + `
		FROM agency_ai_usage
		WHERE
			LOWER(agency_name) LIKE ? OR
			LOWER(llm_name) LIKE ? OR
			LOWER(solution_type) LIKE ? OR
			LOWER(tool_name) LIKE ? OR
			LOWER(notes) LIKE ?
		ORDER BY agency_name, id
	`
	return s.scanAgencies(ctx, q, term, term, term, term, term)
}

// ListAIServices returns AI services matching filter, ordered by provider,
// product and service. The empty filter returns services with any flag set.
func (s *SQLStore) ListAIServices(ctx context.Context, filter string) ([]AIService, error) {
	var where string
	switch filter {
	case ServiceFilterAny:
		where = "has_ai = 1 OR has_genai = 1 OR has_llm = 1"
	case ServiceFilterAI:
		where = "has_ai = 1"
	case ServiceFilterGenAI:
		where = "has_genai = 1"
	case ServiceFilterLLM:
		where = "has_llm = 1"
	default:
		return nil, fmt.Errorf("unknown service filter %q", filter)
	}

	query := "SELECT " + serviceColumns + " FROM ai_service_analysis WHERE " + where +
		" ORDER BY provider_name, product_name, service_name, id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	return scanServices(rows)
}

// ListServicesByProduct returns every analyzed service of one product.
func (s *SQLStore) ListServicesByProduct(ctx context.Context, productID string) ([]AIService, error) {
	rows, err := s.listServicesByProduct.QueryContext(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("query product services: %w", err)
	}
	services, err := scanServices(rows)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return services, nil
}

// GetAIStats summarizes the services with any AI flag set.
func (s *SQLStore) GetAIStats(ctx context.Context) (*AIStats, error) {
	var st AIStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(has_ai), 0),
			COALESCE(SUM(has_genai), 0),
			COALESCE(SUM(has_llm), 0),
			COUNT(DISTINCT product_id),
			COUNT(DISTINCT provider_name)
		FROM ai_service_analysis
		WHERE has_ai = 1 OR has_genai = 1 OR has_llm = 1
	`).Scan(&st.TotalServices, &st.CountAI, &st.CountGenAI, &st.CountLLM, &st.ProductsWithAI, &st.ProvidersWithAI)
	if err != nil {
		return nil, fmt.Errorf("ai stats: %w", err)
	}
	return &st, nil
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLStore) Close() error {
	stmts := []*sql.Stmt{s.getAgencyBySlug, s.listAgencyMatches, s.listServicesByProduct}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgency(row rowScanner) (*AgencyUsage, error) {
	var a AgencyUsage
	err := row.Scan(
		&a.ID, &a.AgencyName, &a.AgencyCategory,
		&a.HasStaffLLM, &a.LLMName, &a.HasCodingAssistant,
		&a.Scope, &a.SolutionType, &a.NonPublicAllowed,
		&a.OtherAIPresent, &a.ToolName, &a.ToolPurpose,
		&a.Notes, &a.Sources, &a.AnalyzedAt, &a.Slug,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// scanAgencies executes a query and scans results into an AgencyUsage slice.
func (s *SQLStore) scanAgencies(ctx context.Context, query string, args ...any) ([]AgencyUsage, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query agencies: %w", err)
	}
	defer rows.Close()

	agencies := []AgencyUsage{}
	for rows.Next() {
		a, err := scanAgency(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agency: %w", err)
		}
		agencies = append(agencies, *a)
	}
	return agencies, rows.Err()
}

func scanServices(rows *sql.Rows) ([]AIService, error) {
	defer rows.Close()

	services := []AIService{}
	for rows.Next() {
		var v AIService
		if err := rows.Scan(
			&v.ID, &v.ProductID, &v.ProductName, &v.ProviderName,
			&v.ServiceName, &v.HasAI, &v.HasGenAI, &v.HasLLM, &v.RelevantExcerpt,
			&v.FedRAMPStatus, &v.ImpactLevel, &v.Agencies,
			&v.AuthDate, &v.AnalyzedAt,
		); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, v)
	}
	return services, rows.Err()
}
