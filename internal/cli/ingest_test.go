package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/fedai/internal/ingest"
)

const importStaffCSV = "Agency/Department,Has staff LLM chatbot?,Has AI coding assistant?,Scope,Solution type,Non-public info allowed?,Other AI (non-chat) present?,Notes/Comments,Sources\n" +
	"Department of State (DOS),Yes - staff-wide,Allowed,Enterprise,Custom (Azure OpenAI),Yes,Yes,Launched 'StateChat' in 2024,https://state.gov\n"

const importProductsJSON = `{"data": {"Products": [
  {"id": "FR1", "csp": "Microsoft", "cso": "Azure Government", "all_others": ["Azure OpenAI"], "status": "FedRAMP Authorized"}
]}}`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImport_LoadsSources(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cmd := &ImportCommand{
		StaffLLM: writeFixture(t, "staff.csv", importStaffCSV),
		Products: writeFixture(t, "products.json", importProductsJSON),
		globals:  &GlobalFlags{},
	}
	src, err := cmd.sources()
	require.NoError(t, err)

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(ctx, e, src))
	})

	assert.Contains(t, output, "Import complete")
	assert.Contains(t, output, "Staff LLM agencies:   1")
	assert.Contains(t, output, "FedRAMP products:     1")
	assert.NotContains(t, output, "AI services:")
	assert.Contains(t, output, "fedai match")

	agency, err := e.store.GetAgencyBySlug(ctx, "department-of-state-dos")
	require.NoError(t, err)
	assert.Equal(t, "StateChat", agency.LLMName)
}

func TestImport_JSON(t *testing.T) {
	e := newTestEnv(t)

	cmd := &ImportCommand{
		Products: writeFixture(t, "products.json", importProductsJSON),
		globals:  &GlobalFlags{JSON: true},
	}
	src, err := cmd.sources()
	require.NoError(t, err)

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e, src))
	})

	var out ingest.Summary
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, ingest.Summary{Products: 1}, out)
}

func TestImport_MissingFile(t *testing.T) {
	e := newTestEnv(t)

	cmd := &ImportCommand{StaffLLM: filepath.Join(t.TempDir(), "missing.csv"), globals: &GlobalFlags{}}
	src, err := cmd.sources()
	require.NoError(t, err)
	require.Error(t, cmd.executeWithEnv(context.Background(), e, src))
}
