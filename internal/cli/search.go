package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/runnerr0/fedai/internal/storage"
)

// searchResultJSON is the JSON output of the search command.
type searchResultJSON struct {
	Query   string                `json:"query"`
	Total   int                   `json:"total"`
	Results []storage.AgencyUsage `json:"results"`
}

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search requires a query")
	}
	return withEnv(c.globals, func(ctx context.Context, e *env) error {
		return c.executeWithEnv(ctx, e, query)
	})
}

func (c *SearchCommand) executeWithEnv(ctx context.Context, e *env, query string) error {
	results, err := e.store.SearchAgencies(ctx, query)
	if err != nil {
		return fmt.Errorf("search agencies: %w", err)
	}
	total := len(results)
	if c.Limit > 0 && len(results) > c.Limit {
		results = results[:c.Limit]
	}

	if jsonOutput(c.globals) {
		return printJSON(searchResultJSON{Query: query, Total: total, Results: results})
	}

	if total == 0 {
		fmt.Printf("No agencies match %q.\n", query)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Agency\tSheet\tLLM / Tool\tSlug")
	for _, a := range results {
		what := a.LLMName
		if a.AgencyCategory == storage.CategorySpecialized {
			what = a.ToolName
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.AgencyName, a.AgencyCategory, truncate(orNA(what), cellWidth), a.Slug)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	if len(results) < total {
		fmt.Printf("%d of %d results\n", len(results), total)
	} else {
		fmt.Printf("%d results\n", total)
	}
	return nil
}
