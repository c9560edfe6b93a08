package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/runnerr0/fedai/internal/datasets"
	"github.com/runnerr0/fedai/internal/storage"
)

type overviewPage struct {
	layoutData
	Agency *storage.AgencyStats
	AI     *storage.AIStats
}

type agencyPage struct {
	layoutData
	Agency  *storage.AgencyUsage
	Matches []storage.AgencyServiceMatch
	Tools   []storage.AgencyUsage
}

type productPage struct {
	layoutData
	ProductID    string
	ProductName  string
	ProviderName string
	Status       string
	ImpactLevel  string
	AuthDate     string
	Services     []storage.AIService
}

// statsResponse is the JSON shape of /api/stats.
type statsResponse struct {
	Agencies *storage.AgencyStats `json:"agencies"`
	AI       *storage.AIStats     `json:"ai"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	agencyStats, err := s.store.GetAgencyStats(r.Context())
	if err != nil {
		s.fail(w, r, "Agency statistics", err)
		return
	}
	aiStats, err := s.store.GetAIStats(r.Context())
	if err != nil {
		s.fail(w, r, "AI statistics", err)
		return
	}
	s.render(w, r, http.StatusOK, pageOverview, overviewPage{
		layoutData: layoutData{Title: "Overview"},
		Agency:     agencyStats,
		AI:         aiStats,
	})
}

func (s *Server) handleAgency(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agency, err := s.store.GetAgencyBySlug(ctx, r.PathValue("slug"))
	if err != nil {
		s.fail(w, r, "Agency", err)
		return
	}
	matches, err := s.store.ListAgencyMatches(ctx, agency.ID)
	if err != nil {
		s.fail(w, r, "Agency matches", err)
		return
	}
	specialized, err := s.store.ListAgencies(ctx, storage.CategorySpecialized)
	if err != nil {
		s.fail(w, r, "Specialized tools", err)
		return
	}
	var tools []storage.AgencyUsage
	for _, a := range specialized {
		if a.Slug == agency.Slug && a.ToolName != "" {
			tools = append(tools, a)
		}
	}

	s.render(w, r, http.StatusOK, pageAgency, agencyPage{
		layoutData: layoutData{
			Title: agency.AgencyName,
			Crumbs: []crumb{
				{Label: "Home", URL: "/"},
				{Label: "Agency AI Usage", URL: datasets.AgencyBasePath},
				{Label: agency.AgencyName},
			},
		},
		Agency:  agency,
		Matches: matches,
		Tools:   tools,
	})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	services, err := s.store.ListServicesByProduct(r.Context(), r.PathValue("productID"))
	if err != nil {
		s.fail(w, r, "Product", err)
		return
	}
	first := services[0]
	s.render(w, r, http.StatusOK, pageProduct, productPage{
		layoutData: layoutData{
			Title: first.ProductName,
			Crumbs: []crumb{
				{Label: "Home", URL: "/"},
				{Label: "FedRAMP AI Services", URL: datasets.ServiceBasePath},
				{Label: first.ProductName},
			},
		},
		ProductID:    first.ProductID,
		ProductName:  first.ProductName,
		ProviderName: first.ProviderName,
		Status:       first.FedRAMPStatus,
		ImpactLevel:  first.ImpactLevel,
		AuthDate:     first.AuthDate,
		Services:     services,
	})
}

func (s *Server) handleStatsAPI(w http.ResponseWriter, r *http.Request) {
	agencyStats, err := s.store.GetAgencyStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("agency stats: %w", err))
		return
	}
	aiStats, err := s.store.GetAIStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("ai stats: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Agencies: agencyStats, AI: aiStats})
}

// pinger is implemented by stores that can check their connection.
type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, errors.New("database unavailable"))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
