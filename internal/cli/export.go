package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/runnerr0/fedai/internal/blob"
	"github.com/runnerr0/fedai/internal/datasets"
	"github.com/runnerr0/fedai/internal/export"
	"github.com/runnerr0/fedai/internal/storage"
	"github.com/runnerr0/fedai/internal/table"
)

const presignExpiry = 15 * time.Minute

// exportJSON is the JSON output of the export command.
type exportJSON struct {
	blob.Info
	Driver      string `json:"driver"`
	DownloadURL string `json:"download_url,omitempty"`
}

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	return withEnv(c.globals, c.executeWithEnv)
}

func (c *ExportCommand) executeWithEnv(ctx context.Context, e *env) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	store, err := blob.Open(ctx, e.cfg.Export)
	if err != nil {
		return fmt.Errorf("open export store: %w", err)
	}

	var info blob.Info
	switch c.Table {
	case "services":
		records, err := e.store.ListAIServices(ctx, storage.ServiceFilterAny)
		if err != nil {
			return fmt.Errorf("list ai services: %w", err)
		}
		info, err = saveView(ctx, store, format, datasets.Services(e.cfg.Table.DefaultPageSize), records, c.ViewFlags)
		if err != nil {
			return err
		}
	default:
		records, err := e.store.ListAgencies(ctx, storage.CategoryStaffLLM)
		if err != nil {
			return fmt.Errorf("list agencies: %w", err)
		}
		info, err = saveView(ctx, store, format, datasets.Agencies(e.cfg.Table.DefaultPageSize), records, c.ViewFlags)
		if err != nil {
			return err
		}
	}

	download, err := store.PresignURL(ctx, info.Key, presignExpiry)
	if err != nil && !errors.Is(err, blob.ErrUnsupported) {
		return fmt.Errorf("presign export: %w", err)
	}
	e.log.Info("exported view", "key", info.Key, "rows", info.Metadata["rows"], "driver", store.Driver())

	if jsonOutput(c.globals) {
		return printJSON(exportJSON{Info: info, Driver: string(store.Driver()), DownloadURL: download})
	}

	fmt.Printf("Exported %s rows of %s\n", info.Metadata["rows"], info.Metadata["view"])
	fmt.Printf("Stored:   %s:%s (%s)\n", store.Driver(), info.Key, formatBytes(info.Size))
	if download != "" {
		fmt.Printf("Download: %s\n", download)
	}
	return nil
}

// saveView decodes the flags the same way the web table does and stores the
// full filtered view.
func saveView[R any](ctx context.Context, store blob.Store, f export.Format, cfg table.Config[R], records []R, flags ViewFlags) (blob.Info, error) {
	state := cfg.Codec().Decode(flags.values())
	return export.Save(ctx, store, f, cfg, records, state)
}
