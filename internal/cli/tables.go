package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/runnerr0/fedai/internal/datasets"
	"github.com/runnerr0/fedai/internal/storage"
	"github.com/runnerr0/fedai/internal/table"
)

const cellWidth = 48

// values encodes the flags as the query parameters of the web URL, leaving
// unset flags absent.
func (f ViewFlags) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set(table.ParamQuery, f.Query)
	set(table.ParamFilter, f.Filter)
	set(table.ParamSort, f.Sort)
	set(table.ParamDir, f.Dir)
	if f.Page != 0 {
		v.Set(table.ParamPage, strconv.Itoa(f.Page))
	}
	if f.PerPage != 0 {
		v.Set(table.ParamPerPage, strconv.Itoa(f.PerPage))
	}
	return v
}

// viewJSON is the JSON output of the table commands, the same shape as
// the web API.
type viewJSON[R any] struct {
	URL  string               `json:"url"`
	View table.DerivedView[R] `json:"view"`
}

// Execute implements the go-flags Commander interface for AgenciesCommand.
func (c *AgenciesCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWithEnv)
}

func (c *AgenciesCommand) executeWithEnv(ctx context.Context, e *env) error {
	records, err := e.store.ListAgencies(ctx, storage.CategoryStaffLLM)
	if err != nil {
		return fmt.Errorf("list agencies: %w", err)
	}
	return renderView("Agency AI Usage", datasets.Agencies(e.cfg.Table.DefaultPageSize), records, c.ViewFlags, jsonOutput(c.globals))
}

// Execute implements the go-flags Commander interface for ServicesCommand.
func (c *ServicesCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWithEnv)
}

func (c *ServicesCommand) executeWithEnv(ctx context.Context, e *env) error {
	records, err := e.store.ListAIServices(ctx, storage.ServiceFilterAny)
	if err != nil {
		return fmt.Errorf("list ai services: %w", err)
	}
	return renderView("FedRAMP AI Services", datasets.Services(e.cfg.Table.DefaultPageSize), records, c.ViewFlags, jsonOutput(c.globals))
}

// renderView mounts a View on the flag values and prints the page it
// derives, followed by the canonical URL of the view.
func renderView[R any](title string, cfg table.Config[R], records []R, f ViewFlags, asJSON bool) error {
	v := table.NewView(cfg, records, nil)
	v.Mount(f.values())
	d := v.Derive()

	if asJSON {
		return printJSON(viewJSON[R]{URL: v.URL(), View: d})
	}

	fmt.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))

	active := color.New(color.FgCyan, color.Bold)
	badges := make([]string, 0, len(d.Badges))
	for _, b := range d.Badges {
		label := fmt.Sprintf("%s (%d)", b.Label, b.Count)
		if b.Active {
			label = active.Sprint("[" + label + "]")
		}
		badges = append(badges, label)
	}
	fmt.Println(strings.Join(badges, "  "))
	if d.State.Query != "" {
		fmt.Printf("Search:  %q\n", d.State.Query)
	}
	fmt.Println()

	if len(d.Rows) == 0 {
		fmt.Printf("No %s found.\n", cfg.Name)
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		heads := make([]string, 0, len(cfg.Columns)+1)
		for _, col := range cfg.Columns {
			head := col.Label
			if col.Key == d.State.SortField {
				head += " " + arrow(d.State.SortDirection)
			}
			heads = append(heads, head)
		}
		heads = append(heads, "Open")
		fmt.Fprintln(w, strings.Join(heads, "\t"))
		for _, r := range d.Rows {
			cells := make([]string, 0, len(cfg.Columns)+1)
			for _, col := range cfg.Columns {
				cells = append(cells, truncate(col.Cell(r), cellWidth))
			}
			cells = append(cells, detailKey(cfg.DetailRoute(r)))
			fmt.Fprintln(w, strings.Join(cells, "\t"))
		}
		w.Flush()
	}

	fmt.Println()
	fmt.Println(d.Summary)
	if d.ShowPagination {
		fmt.Printf("Page %d of %d\n", d.State.Page, d.TotalPages)
		if next, ok := v.NextURL(); ok {
			fmt.Printf("Next:    %s\n", next)
		}
	}
	fmt.Printf("URL:     %s\n", color.New(color.FgBlue).Sprint(v.URL()))
	return nil
}

func arrow(d table.Direction) string {
	if d == table.Desc {
		return "▼"
	}
	return "▲"
}

// detailKey is the last segment of a detail route, the argument the agency
// and service commands take.
func detailKey(route string) string {
	key := path.Base(route)
	if unescaped, err := url.PathUnescape(key); err == nil {
		return unescaped
	}
	return key
}
