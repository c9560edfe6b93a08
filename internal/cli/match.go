package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/runnerr0/fedai/internal/matching"
	"github.com/runnerr0/fedai/internal/storage"
)

// matchJSON is the JSON output of the match command.
type matchJSON struct {
	DryRun bool `json:"dry_run"`
	Saved  int  `json:"saved"`
	matching.Result
}

// Execute implements the go-flags Commander interface for MatchCommand.
func (c *MatchCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWithEnv)
}

func (c *MatchCommand) executeWithEnv(ctx context.Context, e *env) error {
	products, err := e.store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	if len(products) == 0 {
		return errors.New("no FedRAMP products loaded: run `fedai import --products` first")
	}
	agencies, err := e.store.ListAgencies(ctx, storage.CategoryStaffLLM)
	if err != nil {
		return fmt.Errorf("list agencies: %w", err)
	}

	res := matching.New(e.cfg.Matching).MatchAll(agencies, products)
	e.log.Info("matched agencies",
		slog.Int("agencies", res.Agencies),
		slog.Int("matched", res.AgenciesMatched),
		slog.Int("matches", len(res.Matches)),
	)

	saved := 0
	if !c.DryRun {
		saved, err = e.store.ReplaceMatches(ctx, res.Matches)
		if err != nil {
			return fmt.Errorf("save matches: %w", err)
		}
	}

	if jsonOutput(c.globals) {
		return printJSON(matchJSON{DryRun: c.DryRun, Saved: saved, Result: res})
	}

	if c.DryRun {
		for _, m := range res.Matches {
			fmt.Printf("%-6s  agency %d -> %s %s (%s)\n", m.Confidence, m.AgencyID, m.ProviderName, m.ProductName, m.MatchReason)
		}
		fmt.Println()
	}
	fmt.Printf("Agencies:          %d\n", res.Agencies)
	fmt.Printf("Matched:           %d\n", res.AgenciesMatched)
	fmt.Printf("Internally hosted: %d\n", res.Skipped)
	fmt.Printf("Matches:           %d (%d high, %d medium)\n",
		len(res.Matches), res.ByConfidence[storage.ConfidenceHigh], res.ByConfidence[storage.ConfidenceMedium])
	if c.DryRun {
		fmt.Println("Dry run: nothing saved.")
	} else {
		fmt.Printf("Saved %d matches.\n", saved)
	}
	return nil
}
