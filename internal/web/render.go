package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/runnerr0/fedai/internal/datasets"
	"github.com/runnerr0/fedai/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates, each parsed together with the layout.
const (
	pageOverview = "overview.html"
	pageTable    = "table.html"
	pageAgency   = "agency.html"
	pageProduct  = "product.html"
	pageError    = "error.html"
)

type pages map[string]*template.Template

var funcs = template.FuncMap{
	"orNA": func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	},
	"productURL": productURL,
	"aiTypes":    datasets.AITypes,
}

func parsePages() (pages, error) {
	p := make(pages)
	for _, name := range []string{pageOverview, pageTable, pageAgency, pageProduct, pageError} {
		t, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		p[name] = t
	}
	return p, nil
}

func productURL(productID string) string {
	return datasets.ServiceBasePath + "/" + url.PathEscape(productID)
}

type crumb struct {
	Label string
	URL   string
}

// layoutData is embedded by every page model.
type layoutData struct {
	Title  string
	Crumbs []crumb
}

type errorPage struct {
	layoutData
	Heading string
	Message string
}

// render executes a page into a buffer first so a template failure still
// produces a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.ErrorContext(r.Context(), "render page", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, what string) {
	s.render(w, r, http.StatusNotFound, pageError, errorPage{
		layoutData: layoutData{Title: "Not found"},
		Heading:    "Not found",
		Message:    what + " was not found.",
	})
}

// fail maps storage errors onto the response: ErrNotFound is a 404, anything
// else a 500 page.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		s.notFound(w, r, what)
		return
	}
	s.log.ErrorContext(r.Context(), "load data", slog.String("path", r.URL.Path), slog.Any("error", err))
	s.render(w, r, http.StatusInternalServerError, pageError, errorPage{
		layoutData: layoutData{Title: "Error"},
		Heading:    "Something went wrong",
		Message:    "The data could not be loaded. Try again later.",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
