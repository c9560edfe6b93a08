package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/fedai/internal/blob"
	"github.com/runnerr0/fedai/internal/datasets"
	"github.com/runnerr0/fedai/internal/storage"
)

func agencies(n int) []storage.AgencyUsage {
	out := make([]storage.AgencyUsage, n)
	for i := range out {
		llm := "No"
		if i%2 == 0 {
			llm = "Yes - staff-wide"
		}
		out[i] = storage.AgencyUsage{
			ID:          int64(i + 1),
			AgencyName:  fmt.Sprintf("Agency %02d", i+1),
			HasStaffLLM: llm,
			Slug:        fmt.Sprintf("agency-%02d", i+1),
		}
	}
	return out
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, "text/csv", f.ContentType())

	f, err = ParseFormat(" json ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	assert.Equal(t, "application/json", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestWrite_CSVIgnoresPagination(t *testing.T) {
	cfg := datasets.Agencies(25)
	s := cfg.Codec().Decode(nil)
	s.Filter = datasets.FilterHasLLM
	s.SortDirection = "desc"
	s.PageSize = 5
	s.Page = 2

	var buf bytes.Buffer
	n, err := Write(&buf, FormatCSV, cfg, agencies(30), s)
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 16)
	assert.Equal(t, []string{"Agency", "Staff LLM", "Coding Assistant", "Solution Type", "Scope"}, recs[0])
	assert.Equal(t, []string{"Agency 29", "Yes", "No", "N/A", "N/A"}, recs[1])
	assert.Equal(t, "Agency 01", recs[15][0])
}

func TestWrite_JSONEnvelope(t *testing.T) {
	cfg := datasets.Agencies(25)
	s := cfg.Codec().Decode(nil)
	s.Query = "agency 1"

	var buf bytes.Buffer
	n, err := Write(&buf, FormatJSON, cfg, agencies(12), s)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var doc struct {
		Table string                `json:"table"`
		URL   string                `json:"url"`
		Count int                   `json:"count"`
		Rows  []storage.AgencyUsage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "agencies", doc.Table)
	assert.Equal(t, "/agency-ai-usage?q=agency+1", doc.URL)
	assert.Equal(t, 3, doc.Count)
	require.Len(t, doc.Rows, 3)
	assert.Equal(t, "Agency 10", doc.Rows[0].AgencyName)
	assert.Equal(t, "Agency 12", doc.Rows[2].AgencyName)
}

func TestWrite_EmptyAndUnknownFormat(t *testing.T) {
	cfg := datasets.Agencies(50)
	var buf bytes.Buffer
	n, err := Write(&buf, FormatCSV, cfg, nil, cfg.Defaults())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, "Agency,Staff LLM,Coding Assistant,Solution Type,Scope\n", buf.String())

	_, err = Write(&buf, Format("xml"), cfg, nil, cfg.Defaults())
	assert.Error(t, err)
}

func TestKeyAndFilename(t *testing.T) {
	ts := time.Date(2025, 10, 25, 11, 17, 14, 0, time.UTC)
	key := Key("agencies", FormatCSV, ts)
	assert.True(t, strings.HasPrefix(key, "agencies/20251025T111714Z-"), key)
	assert.True(t, strings.HasSuffix(key, ".csv"), key)
	assert.NotEqual(t, key, Key("agencies", FormatCSV, ts))

	assert.Equal(t, "services-20251025T111714Z.json", Filename("services", FormatJSON, ts))
}

func TestSave(t *testing.T) {
	store := blob.NewMemory()
	cfg := datasets.Agencies(50)
	s := cfg.Defaults()
	s.Filter = datasets.FilterHasLLM

	info, err := Save(context.Background(), store, FormatCSV, cfg, agencies(4), s)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(info.Key, "agencies/"))
	assert.Equal(t, "text/csv", info.ContentType)
	assert.Equal(t, "/agency-ai-usage?filter=has_llm", info.Metadata["view"])
	assert.Equal(t, "2", info.Metadata["rows"])

	_, rc, err := store.Get(context.Background(), info.Key)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(b), "\n"))
}
