package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/runnerr0/fedai/internal/datasets"
	"github.com/runnerr0/fedai/internal/storage"
)

// agencyJSON is the JSON output of the agency command.
type agencyJSON struct {
	Agency  *storage.AgencyUsage         `json:"agency"`
	Matches []storage.AgencyServiceMatch `json:"matches"`
	Tools   []storage.AgencyUsage        `json:"tools"`
}

// productJSON is the JSON output of the service command.
type productJSON struct {
	ProductID string              `json:"product_id"`
	Services  []storage.AIService `json:"services"`
}

// Execute implements the go-flags Commander interface for AgencyCommand.
func (c *AgencyCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWithEnv)
}

func (c *AgencyCommand) executeWithEnv(ctx context.Context, e *env) error {
	agency, err := e.store.GetAgencyBySlug(ctx, c.Args.Slug)
	if err != nil {
		return err
	}
	matches, err := e.store.ListAgencyMatches(ctx, agency.ID)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	specialized, err := e.store.ListAgencies(ctx, storage.CategorySpecialized)
	if err != nil {
		return fmt.Errorf("list specialized tools: %w", err)
	}
	tools := []storage.AgencyUsage{}
	for _, a := range specialized {
		if a.Slug == agency.Slug && a.ToolName != "" {
			tools = append(tools, a)
		}
	}

	if jsonOutput(c.globals) {
		return printJSON(agencyJSON{Agency: agency, Matches: matches, Tools: tools})
	}

	fmt.Println(agency.AgencyName)
	fmt.Println("================")
	llm := orNA(agency.HasStaffLLM)
	if agency.LLMName != "" {
		llm += " (" + agency.LLMName + ")"
	}
	fmt.Printf("Staff LLM:         %s\n", llm)
	fmt.Printf("Coding assistant:  %s\n", orNA(agency.HasCodingAssistant))
	fmt.Printf("Scope:             %s\n", orNA(agency.Scope))
	fmt.Printf("Solution type:     %s\n", orNA(agency.SolutionType))
	fmt.Printf("Non-public info:   %s\n", orNA(agency.NonPublicAllowed))
	fmt.Printf("Other AI present:  %s\n", orNA(agency.OtherAIPresent))
	if agency.Notes != "" {
		fmt.Printf("Notes:             %s\n", agency.Notes)
	}
	if agency.Sources != "" {
		fmt.Printf("Sources:           %s\n", agency.Sources)
	}

	fmt.Println()
	if len(matches) == 0 {
		fmt.Println("No related FedRAMP services.")
	} else {
		fmt.Println("Related FedRAMP services:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, m := range matches {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", confidenceLabel(m.Confidence), m.ProviderName, m.ProductName, m.ProductID)
		}
		w.Flush()
	}

	if len(tools) > 0 {
		fmt.Println()
		fmt.Println("Specialized AI tools:")
		for _, t := range tools {
			fmt.Printf("  %s: %s\n", t.ToolName, orNA(t.ToolPurpose))
		}
	}
	return nil
}

func confidenceLabel(c string) string {
	switch c {
	case storage.ConfidenceHigh:
		return color.New(color.FgGreen).Sprint(c)
	case storage.ConfidenceMedium:
		return color.New(color.FgYellow).Sprint(c)
	default:
		return c
	}
}

// Execute implements the go-flags Commander interface for ServiceCommand.
func (c *ServiceCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWithEnv)
}

func (c *ServiceCommand) executeWithEnv(ctx context.Context, e *env) error {
	services, err := e.store.ListServicesByProduct(ctx, c.Args.ProductID)
	if err != nil {
		return err
	}

	if jsonOutput(c.globals) {
		return printJSON(productJSON{ProductID: c.Args.ProductID, Services: services})
	}

	first := services[0]
	fmt.Println(first.ProductName)
	fmt.Println("================")
	fmt.Printf("Provider:      %s\n", orNA(first.ProviderName))
	fmt.Printf("FedRAMP ID:    %s\n", first.ProductID)
	fmt.Printf("Status:        %s\n", orNA(first.FedRAMPStatus))
	fmt.Printf("Impact level:  %s\n", orNA(first.ImpactLevel))
	fmt.Printf("Authorized:    %s\n", orNA(first.AuthDate))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Service\tAI Type\tDescription")
	for _, s := range services {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ServiceName, datasets.AITypes(s), truncate(s.RelevantExcerpt, cellWidth*2))
	}
	return w.Flush()
}
