package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/fedai/internal/config"
	"github.com/runnerr0/fedai/internal/ingest"
)

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	src, err := c.sources()
	if err != nil {
		return err
	}
	return withEnv(c.globals, func(ctx context.Context, e *env) error {
		return c.executeWithEnv(ctx, e, src)
	})
}

func (c *ImportCommand) sources() (ingest.Sources, error) {
	var src ingest.Sources
	for _, f := range []struct {
		dst *string
		raw string
	}{
		{&src.StaffLLM, c.StaffLLM},
		{&src.Specialized, c.Specialized},
		{&src.Products, c.Products},
		{&src.AIServices, c.AIServices},
	} {
		path, err := config.ExpandPath(f.raw)
		if err != nil {
			return src, err
		}
		*f.dst = path
	}
	if src.Empty() {
		return src, fmt.Errorf("import requires at least one of --staff-llm, --specialized, --products, --ai-services")
	}
	return src, nil
}

func (c *ImportCommand) executeWithEnv(ctx context.Context, e *env, src ingest.Sources) error {
	summary, err := ingest.Import(ctx, e.store, src, e.log)
	if err != nil {
		return err
	}

	if jsonOutput(c.globals) {
		return printJSON(summary)
	}

	fmt.Println("Import complete")
	if src.StaffLLM != "" {
		fmt.Printf("  Staff LLM agencies:   %d\n", summary.StaffLLM)
	}
	if src.Specialized != "" {
		fmt.Printf("  Specialized tools:    %d\n", summary.Specialized)
	}
	if src.Products != "" {
		fmt.Printf("  FedRAMP products:     %d\n", summary.Products)
	}
	if src.AIServices != "" {
		fmt.Printf("  AI services:          %d\n", summary.AIServices)
	}
	if src.StaffLLM != "" || src.Specialized != "" {
		fmt.Println("Run `fedai match` to refresh agency/product matches.")
	}
	return nil
}
