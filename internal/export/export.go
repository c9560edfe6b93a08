// Package export renders every page of a table view as CSV or JSON and
// stores the result in a blob store.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/runnerr0/fedai/internal/blob"
	"github.com/runnerr0/fedai/internal/table"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts csv or json in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// document is the JSON export envelope.
type document[R any] struct {
	Table string          `json:"table"`
	URL   string          `json:"url"`
	State table.ViewState `json:"state"`
	Count int             `json:"count"`
	Rows  []R             `json:"rows"`
}

// Write renders the filtered and sorted rows of s, ignoring pagination, and
// returns the number of rows written. CSV uses the column labels as header
// and the rendered cells as values.
func Write[R any](w io.Writer, f Format, cfg table.Config[R], records []R, s table.ViewState) (int, error) {
	rows, _ := table.Select(cfg, records, s)

	switch f {
	case FormatCSV:
		cw := csv.NewWriter(w)
		header := make([]string, len(cfg.Columns))
		for i, col := range cfg.Columns {
			header[i] = col.Label
		}
		if err := cw.Write(header); err != nil {
			return 0, fmt.Errorf("write csv header: %w", err)
		}
		rec := make([]string, len(cfg.Columns))
		for _, r := range rows {
			for i, col := range cfg.Columns {
				rec[i] = col.Cell(r)
			}
			if err := cw.Write(rec); err != nil {
				return 0, fmt.Errorf("write csv row: %w", err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return 0, fmt.Errorf("flush csv: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		doc := document[R]{
			Table: cfg.Name,
			URL:   cfg.Codec().URL(s),
			State: s,
			Count: len(rows),
			Rows:  rows,
		}
		if err := enc.Encode(doc); err != nil {
			return 0, fmt.Errorf("encode json export: %w", err)
		}
	default:
		return 0, fmt.Errorf("unsupported export format %q", f)
	}
	return len(rows), nil
}

// Key returns the blob key of a new export of table taken at ts.
func Key(tableName string, f Format, ts time.Time) string {
	return fmt.Sprintf("%s/%s-%s.%s", tableName, ts.UTC().Format("20060102T150405Z"), uuid.NewString(), f)
}

// Save writes the export to store under a fresh key. The view URL and the
// row count are recorded as blob metadata.
func Save[R any](ctx context.Context, store blob.Store, f Format, cfg table.Config[R], records []R, s table.ViewState) (blob.Info, error) {
	var buf bytes.Buffer
	n, err := Write(&buf, f, cfg, records, s)
	if err != nil {
		return blob.Info{}, err
	}
	info, err := store.Put(ctx, Key(cfg.Name, f, time.Now()), &buf, blob.PutOptions{
		ContentType: f.ContentType(),
		Metadata: map[string]string{
			"view": cfg.Codec().URL(s),
			"rows": strconv.Itoa(n),
		},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("store export: %w", err)
	}
	return info, nil
}

// Filename suggests a download name for an HTTP export.
func Filename(tableName string, f Format, ts time.Time) string {
	return fmt.Sprintf("%s-%s.%s", tableName, ts.UTC().Format("20060102T150405Z"), f)
}
