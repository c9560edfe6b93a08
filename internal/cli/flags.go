package cli

import "io"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ViewFlags select a table view, mirroring the web URL parameters. Zero
// values mean the table default.
type ViewFlags struct {
	Query   string `long:"q" description:"Case-insensitive search text"`
	Filter  string `long:"filter" description:"Category filter key"`
	Sort    string `long:"sort" description:"Sort column key"`
	Dir     string `long:"dir" description:"Sort direction: asc | desc"`
	Page    int    `long:"page" description:"1-based page number"`
	PerPage int    `long:"per-page" description:"Rows per page (999999 shows all)"`
}

// ServeCommand: run the web browser.
type ServeCommand struct {
	Host string `long:"host" description:"Override listen host"`
	Port int    `long:"port" description:"Override listen port"`

	globals *GlobalFlags
	version string
}

// AgenciesCommand: render the agency table.
type AgenciesCommand struct {
	ViewFlags

	globals *GlobalFlags
	version string
}

// ServicesCommand: render the FedRAMP AI services table.
type ServicesCommand struct {
	ViewFlags

	globals *GlobalFlags
	version string
}

// AgencyCommand: show one agency with its FedRAMP matches.
type AgencyCommand struct {
	Args struct {
		Slug string `positional-arg-name:"slug" description:"Agency slug, e.g. department-of-commerce"`
	} `positional-args:"yes" required:"yes"`

	globals *GlobalFlags
	version string
}

// ServiceCommand: show every AI service of one FedRAMP product.
type ServiceCommand struct {
	Args struct {
		ProductID string `positional-arg-name:"product-id" description:"FedRAMP product ID"`
	} `positional-args:"yes" required:"yes"`

	globals *GlobalFlags
	version string
}

// SearchCommand: search agencies across both sheets.
type SearchCommand struct {
	Limit int `long:"limit" description:"Maximum results" default:"20"`

	globals *GlobalFlags
	version string
}

// StatsCommand: agency and AI service statistics.
type StatsCommand struct {
	globals *GlobalFlags
	version string
}

// StatusCommand: database location, row counts, config summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// ImportCommand: load source files into the database.
type ImportCommand struct {
	StaffLLM    string `long:"staff-llm" description:"Staff LLM sheet exported as CSV"`
	Specialized string `long:"specialized" description:"Specialized tools sheet exported as CSV"`
	Products    string `long:"products" description:"FedRAMP marketplace products JSON"`
	AIServices  string `long:"ai-services" description:"AI service analysis JSON"`

	globals *GlobalFlags
	version string
}

// MatchCommand: link staff LLM agencies to FedRAMP products.
type MatchCommand struct {
	DryRun bool `long:"dry-run" description:"Show matches without saving them"`

	globals *GlobalFlags
	version string
}

// ExportCommand: write a table view to the configured blob store.
type ExportCommand struct {
	Table  string `long:"table" description:"Table to export" choice:"agencies" choice:"services" default:"agencies"`
	Format string `long:"format" description:"Export format: csv | json" default:"csv"`
	ViewFlags

	globals *GlobalFlags
	version string
}

// ExportsCommand: list, show, download or delete stored exports.
type ExportsCommand struct {
	Table  string `long:"table" description:"Only list exports of this table" choice:"agencies" choice:"services"`
	Show   string `long:"show" description:"Show the metadata of one export key"`
	Get    string `long:"get" description:"Write the contents of one export key"`
	Output string `long:"output" short:"o" description:"File to write --get to (default stdout)"`
	Delete string `long:"delete" description:"Delete one export key"`

	globals *GlobalFlags
	version string
}

// PurgeCommand: delete ALL loaded data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	stdin   io.Reader // injectable for testing; nil means os.Stdin
}
