package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/runnerr0/fedai/internal/export"
	"github.com/runnerr0/fedai/internal/storage"
	"github.com/runnerr0/fedai/internal/table"
)

// redirectNavigator turns the URL a View mirrors its state to into the
// location of a redirect.
type redirectNavigator struct {
	location string
}

func (n *redirectNavigator) Replace(u string) { n.location = u }
func (n *redirectNavigator) Push(u string)    { n.location = u }

type badgeLink struct {
	Label  string
	Count  int
	Active bool
	URL    string
}

type columnHead struct {
	Label string
	URL   string
	Arrow string
}

type rowLink struct {
	URL   string
	Cells []string
}

type pageSizeLink struct {
	Label  string
	URL    string
	Active bool
}

// tablePage is the template model of a table view.
type tablePage struct {
	BasePath  string
	Noun      string
	Query     string
	Hidden    []table.Param
	ExportURL string

	Badges  []badgeLink
	Summary string
	Columns []columnHead
	Rows    []rowLink

	ShowPagination bool
	Page           int
	TotalPages     int
	PrevURL        string
	NextURL        string
	PageSizes      []pageSizeLink
}

type tableView struct {
	layoutData
	Heading string
	Table   tablePage
}

// apiView is the JSON shape of /api/agencies and /api/services.
type apiView[R any] struct {
	URL  string               `json:"url"`
	View table.DerivedView[R] `json:"view"`
}

// mountView decodes the request into a fresh View. When the request is not
// already at the canonical URL of that state it answers 302 and returns
// false.
func mountView[R any](w http.ResponseWriter, r *http.Request, cfg table.Config[R]) (*table.View[R], bool) {
	nav := &redirectNavigator{}
	v := table.NewView(cfg, nil, nav)
	v.Mount(r.URL.Query())
	if nav.location != r.URL.RequestURI() {
		http.Redirect(w, r, nav.location, http.StatusFound)
		return nil, false
	}
	return v, true
}

func buildTablePage[R any](v *table.View[R], noun string, sizes []int) tablePage {
	d := v.Derive()
	cfg := v.Config()
	codec := v.Codec()
	state := v.State()

	p := tablePage{
		BasePath:       cfg.BasePath,
		Noun:           noun,
		Query:          state.Query,
		ExportURL:      exportURL(codec, state),
		Summary:        d.Summary,
		ShowPagination: d.ShowPagination,
		Page:           state.Page,
		TotalPages:     d.TotalPages,
	}

	for _, param := range codec.Params(state) {
		if param.Key == table.ParamQuery || param.Key == table.ParamPage {
			continue
		}
		p.Hidden = append(p.Hidden, param)
	}

	for _, b := range d.Badges {
		p.Badges = append(p.Badges, badgeLink{Label: b.Label, Count: b.Count, Active: b.Active, URL: v.FilterURL(b.Key)})
	}

	for _, col := range cfg.Columns {
		head := columnHead{Label: col.Label}
		if col.Sortable {
			head.URL = v.SortURL(col.Key)
			if state.SortField == col.Key {
				head.Arrow = arrow(state.SortDirection)
			}
		}
		p.Columns = append(p.Columns, head)
	}

	for _, row := range d.Rows {
		cells := make([]string, len(cfg.Columns))
		for i, col := range cfg.Columns {
			cells[i] = col.Cell(row)
		}
		p.Rows = append(p.Rows, rowLink{URL: cfg.DetailRoute(row), Cells: cells})
	}

	if u, ok := v.PrevURL(); ok {
		p.PrevURL = u
	}
	if u, ok := v.NextURL(); ok {
		p.NextURL = u
	}

	for _, n := range sizes {
		label := strconv.Itoa(n)
		if n == table.AllPageSize {
			label = "All"
		}
		p.PageSizes = append(p.PageSizes, pageSizeLink{
			Label:  label,
			URL:    codec.URL(state.WithPageSize(n)),
			Active: n == state.PageSize,
		})
	}
	return p
}

func arrow(d table.Direction) string {
	if d == table.Desc {
		return "▼"
	}
	return "▲"
}

// exportURL is the CSV export of the whole filtered view, so the page is
// dropped.
func exportURL(codec table.Codec, s table.ViewState) string {
	base := codec.BasePath + "/export.csv"
	if q := codec.Encode(s.WithPage(1)); q != "" {
		return base + "?" + q
	}
	return base
}

func (s *Server) handleAgencies(w http.ResponseWriter, r *http.Request) {
	v, ok := mountView(w, r, s.agencies)
	if !ok {
		return
	}
	records, err := s.store.ListAgencies(r.Context(), storage.CategoryStaffLLM)
	if err != nil {
		s.fail(w, r, "Agency data", err)
		return
	}
	v.SetRecords(records)
	s.metrics.records.WithLabelValues(s.agencies.Name).Set(float64(len(records)))

	s.render(w, r, http.StatusOK, pageTable, tableView{
		layoutData: layoutData{Title: "Agency AI Usage", Crumbs: []crumb{{Label: "Home", URL: "/"}, {Label: "Agency AI Usage"}}},
		Heading:    "Agency AI Usage",
		Table:      buildTablePage(v, "agencies", s.pageSizes),
	})
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	v, ok := mountView(w, r, s.services)
	if !ok {
		return
	}
	records, err := s.store.ListAIServices(r.Context(), storage.ServiceFilterAny)
	if err != nil {
		s.fail(w, r, "AI service data", err)
		return
	}
	v.SetRecords(records)
	s.metrics.records.WithLabelValues(s.services.Name).Set(float64(len(records)))

	s.render(w, r, http.StatusOK, pageTable, tableView{
		layoutData: layoutData{Title: "FedRAMP AI Services", Crumbs: []crumb{{Label: "Home", URL: "/"}, {Label: "FedRAMP AI Services"}}},
		Heading:    "FedRAMP AI Services",
		Table:      buildTablePage(v, "services", s.pageSizes),
	})
}

func (s *Server) handleAgencyAPI(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListAgencies(r.Context(), storage.CategoryStaffLLM)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("list agencies: %w", err))
		return
	}
	serveAPI(w, r, s.agencies, records)
}

func (s *Server) handleServiceAPI(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListAIServices(r.Context(), storage.ServiceFilterAny)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("list ai services: %w", err))
		return
	}
	serveAPI(w, r, s.services, records)
}

func serveAPI[R any](w http.ResponseWriter, r *http.Request, cfg table.Config[R], records []R) {
	codec := cfg.Codec()
	state := codec.Decode(r.URL.Query())
	writeJSON(w, http.StatusOK, apiView[R]{
		URL:  codec.URL(state),
		View: table.Derive(cfg, records, state),
	})
}

func (s *Server) handleAgencyExport(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListAgencies(r.Context(), storage.CategoryStaffLLM)
	if err != nil {
		s.fail(w, r, "Agency data", err)
		return
	}
	serveExport(s, w, r, s.agencies, records)
}

func (s *Server) handleServiceExport(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListAIServices(r.Context(), storage.ServiceFilterAny)
	if err != nil {
		s.fail(w, r, "AI service data", err)
		return
	}
	serveExport(s, w, r, s.services, records)
}

// serveExport streams every row of the requested view, ignoring pagination.
// The format is taken from the route's extension.
func serveExport[R any](s *Server, w http.ResponseWriter, r *http.Request, cfg table.Config[R], records []R) {
	format := export.FormatCSV
	if r.URL.Path == cfg.BasePath+"/export.json" {
		format = export.FormatJSON
	}
	state := cfg.Codec().Decode(r.URL.Query())

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(cfg.Name, format, time.Now())))
	n, err := export.Write(w, format, cfg, records, state)
	if err != nil {
		// Headers are gone; all that is left is to log.
		s.log.ErrorContext(r.Context(), "export", "table", cfg.Name, "error", err)
		return
	}
	s.metrics.exported.WithLabelValues(cfg.Name, string(format)).Add(float64(n))
}
