package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/runnerr0/fedai/internal/blob"
)

// exportsJSON is the JSON output of the exports listing.
type exportsJSON struct {
	Driver  string      `json:"driver"`
	Prefix  string      `json:"prefix,omitempty"`
	Exports []blob.Info `json:"exports"`
}

// Execute implements the go-flags Commander interface for ExportsCommand.
func (c *ExportsCommand) Execute(args []string) error {
	if err := c.validate(); err != nil {
		return err
	}
	return withEnv(c.globals, c.executeWithEnv)
}

func (c *ExportsCommand) validate() error {
	set := 0
	for _, v := range []string{c.Show, c.Get, c.Delete} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return errors.New("exports takes only one of --show, --get or --delete")
	}
	if c.Output != "" && c.Get == "" {
		return errors.New("--output requires --get")
	}
	return nil
}

func (c *ExportsCommand) executeWithEnv(ctx context.Context, e *env) error {
	if err := c.validate(); err != nil {
		return err
	}
	store, err := blob.Open(ctx, e.cfg.Export)
	if err != nil {
		return fmt.Errorf("open export store: %w", err)
	}

	switch {
	case c.Show != "":
		return c.show(ctx, store)
	case c.Get != "":
		return c.get(ctx, e, store)
	case c.Delete != "":
		return c.delete(ctx, e, store)
	default:
		return c.list(ctx, store)
	}
}

func (c *ExportsCommand) list(ctx context.Context, store blob.Store) error {
	prefix := ""
	if c.Table != "" {
		prefix = c.Table + "/"
	}
	infos, err := store.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("list exports: %w", err)
	}
	// Keys start with a UTC timestamp, so newest first is reverse key order
	// within a table.
	slices.Reverse(infos)

	if jsonOutput(c.globals) {
		return printJSON(exportsJSON{Driver: string(store.Driver()), Prefix: prefix, Exports: infos})
	}
	if len(infos) == 0 {
		fmt.Printf("No exports in %s store.\n", store.Driver())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Key\tRows\tSize\tView")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Key, orNA(info.Metadata["rows"]), formatBytes(info.Size), orNA(info.Metadata["view"]))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d exports\n", len(infos))
	return nil
}

func (c *ExportsCommand) show(ctx context.Context, store blob.Store) error {
	info, err := store.Head(ctx, c.Show)
	if err != nil {
		return fmt.Errorf("show export: %w", err)
	}
	download, err := store.PresignURL(ctx, info.Key, presignExpiry)
	if err != nil && !errors.Is(err, blob.ErrUnsupported) {
		return fmt.Errorf("presign export: %w", err)
	}

	if jsonOutput(c.globals) {
		return printJSON(exportJSON{Info: info, Driver: string(store.Driver()), DownloadURL: download})
	}

	fmt.Printf("Key:      %s\n", info.Key)
	fmt.Printf("View:     %s\n", orNA(info.Metadata["view"]))
	fmt.Printf("Rows:     %s\n", orNA(info.Metadata["rows"]))
	fmt.Printf("Size:     %s\n", formatBytes(info.Size))
	fmt.Printf("Type:     %s\n", orNA(info.ContentType))
	fmt.Printf("Written:  %s\n", info.LastModified.Format("2006-01-02 15:04:05 MST"))
	if download != "" {
		fmt.Printf("Download: %s\n", download)
	}
	return nil
}

func (c *ExportsCommand) get(ctx context.Context, e *env, store blob.Store) (err error) {
	info, rc, err := store.Get(ctx, c.Get)
	if err != nil {
		return fmt.Errorf("get export: %w", err)
	}
	defer rc.Close()

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, ferr := os.Create(c.Output)
		if ferr != nil {
			return fmt.Errorf("create %s: %w", c.Output, ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", c.Output, cerr)
			}
		}()
		w = f
	}

	n, err := io.Copy(w, rc)
	if err != nil {
		return fmt.Errorf("copy export %s: %w", info.Key, err)
	}
	e.log.Info("fetched export", "key", info.Key, "bytes", n, "output", c.Output)
	return nil
}

func (c *ExportsCommand) delete(ctx context.Context, e *env, store blob.Store) error {
	existed, err := store.Delete(ctx, c.Delete)
	if err != nil {
		return fmt.Errorf("delete export: %w", err)
	}
	if !existed {
		return fmt.Errorf("delete export %s: %w", c.Delete, blob.ErrNotFound)
	}
	e.log.Info("deleted export", "key", c.Delete, "driver", store.Driver())

	if jsonOutput(c.globals) {
		return printJSON(map[string]any{"deleted": true, "key": c.Delete})
	}
	fmt.Printf("Deleted %s:%s\n", store.Driver(), c.Delete)
	return nil
}
