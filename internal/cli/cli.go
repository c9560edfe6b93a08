package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Serve    *ServeCommand
	Agencies *AgenciesCommand
	Services *ServicesCommand
	Agency   *AgencyCommand
	Service  *ServiceCommand
	Search   *SearchCommand
	Stats    *StatsCommand
	Status   *StatusCommand
	Import   *ImportCommand
	Match    *MatchCommand
	Export   *ExportCommand
	Exports  *ExportsCommand
	Purge    *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "fedai"
	parser.LongDescription = "Browse federal agency AI usage and FedRAMP-authorized AI services."

	cmds := &commands{
		Serve:    &ServeCommand{globals: &globals, version: version},
		Agencies: &AgenciesCommand{globals: &globals, version: version},
		Services: &ServicesCommand{globals: &globals, version: version},
		Agency:   &AgencyCommand{globals: &globals, version: version},
		Service:  &ServiceCommand{globals: &globals, version: version},
		Search:   &SearchCommand{globals: &globals, version: version},
		Stats:    &StatsCommand{globals: &globals, version: version},
		Status:   &StatusCommand{globals: &globals, version: version},
		Import:   &ImportCommand{globals: &globals, version: version},
		Match:    &MatchCommand{globals: &globals, version: version},
		Export:   &ExportCommand{globals: &globals, version: version},
		Exports:  &ExportsCommand{globals: &globals, version: version},
		Purge:    &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("serve", "Run the web browser", "Serve the agency and AI service tables over HTTP until interrupted.", cmds.Serve)
	parser.AddCommand("agencies", "Show the agency AI usage table", "Render a filtered, sorted, paginated view of the agency table and print its URL.", cmds.Agencies)
	parser.AddCommand("services", "Show the FedRAMP AI services table", "Render a filtered, sorted, paginated view of the AI services table and print its URL.", cmds.Services)
	parser.AddCommand("agency", "Show one agency", "Show an agency's AI usage and its related FedRAMP products.", cmds.Agency)
	parser.AddCommand("service", "Show one FedRAMP product", "Show every AI service found in a FedRAMP product.", cmds.Service)
	parser.AddCommand("search", "Search agencies", "Search agency names, LLM names, solution types, tools and notes.", cmds.Search)
	parser.AddCommand("stats", "Show adoption statistics", "Show agency and AI service statistics.", cmds.Stats)
	parser.AddCommand("status", "Show database status", "Show the database location, row counts and configuration summary.", cmds.Status)
	parser.AddCommand("import", "Load source files", "Load agency CSV exports, FedRAMP products and AI service analysis into the database.", cmds.Import)
	parser.AddCommand("match", "Match agencies to FedRAMP products", "Link staff LLM agencies to the FedRAMP products of the cloud provider they use.", cmds.Match)
	parser.AddCommand("export", "Export a table view", "Write every row of a table view to the configured export store.", cmds.Export)
	parser.AddCommand("exports", "Manage stored exports", "List stored exports, or show, download or delete one by key.", cmds.Exports)
	parser.AddCommand("purge", "Delete ALL loaded data", "Delete ALL loaded data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the fedai CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("fedai %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
