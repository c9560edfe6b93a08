// Package web serves the agency and AI service tables, their detail pages and
// the JSON, export, health and metrics endpoints.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/runnerr0/fedai/internal/config"
	"github.com/runnerr0/fedai/internal/datasets"
	"github.com/runnerr0/fedai/internal/logging"
	"github.com/runnerr0/fedai/internal/storage"
	"github.com/runnerr0/fedai/internal/table"
)

// Server is the HTTP front end over a read-only Store.
type Server struct {
	store     storage.Store
	cfg       *config.Config
	log       *slog.Logger
	metrics   *metrics
	pages     pages
	agencies  table.Config[storage.AgencyUsage]
	services  table.Config[storage.AIService]
	pageSizes []int
	handler   http.Handler
}

// New builds a Server. log may be nil.
func New(store storage.Store, cfg *config.Config, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = logging.Discard()
	}
	p, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:     store,
		cfg:       cfg,
		log:       log,
		metrics:   newMetrics(),
		pages:     p,
		agencies:  datasets.Agencies(cfg.Table.DefaultPageSize),
		services:  datasets.Services(cfg.Table.DefaultPageSize),
		pageSizes: cfg.Table.PageSizeOptions,
	}
	if len(s.pageSizes) == 0 {
		s.pageSizes = table.PageSizes()
	}
	if err := s.agencies.Validate(); err != nil {
		return nil, fmt.Errorf("agency table: %w", err)
	}
	if err := s.services.Validate(); err != nil {
		return nil, fmt.Errorf("service table: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleOverview)
	mux.HandleFunc("GET "+datasets.AgencyBasePath, s.handleAgencies)
	mux.HandleFunc("GET "+datasets.AgencyBasePath+"/export.csv", s.handleAgencyExport)
	mux.HandleFunc("GET "+datasets.AgencyBasePath+"/export.json", s.handleAgencyExport)
	mux.HandleFunc("GET "+datasets.AgencyBasePath+"/{slug}", s.handleAgency)
	mux.HandleFunc("GET "+datasets.ServiceBasePath, s.handleServices)
	mux.HandleFunc("GET "+datasets.ServiceBasePath+"/export.csv", s.handleServiceExport)
	mux.HandleFunc("GET "+datasets.ServiceBasePath+"/export.json", s.handleServiceExport)
	mux.HandleFunc("GET "+datasets.ServiceBasePath+"/{productID}", s.handleProduct)
	mux.HandleFunc("GET /api/agencies", s.handleAgencyAPI)
	mux.HandleFunc("GET /api/services", s.handleServiceAPI)
	mux.HandleFunc("GET /api/stats", s.handleStatsAPI)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())

	s.handler = instrument(mux, log, s.metrics)
	return s, nil
}

// Handler returns the instrumented router.
func (s *Server) Handler() http.Handler { return s.handler }

// Serve listens on addr until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  seconds(s.cfg.Server.ReadTimeoutSeconds),
		WriteTimeout: seconds(s.cfg.Server.WriteTimeoutSeconds),
		// Request contexts outlive ctx so in-flight requests can drain.
		BaseContext: func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", slog.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	timeout := seconds(s.cfg.Server.ShutdownTimeoutSeconds)
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
