package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/fedai/internal/storage"
)

func TestAgency_ShowsMatchesAndTools(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)
	captureOutput(t, func() {
		require.NoError(t, (&MatchCommand{globals: &GlobalFlags{}}).executeWithEnv(context.Background(), e))
	})

	cmd := &AgencyCommand{globals: &GlobalFlags{}}
	cmd.Args.Slug = "department-of-commerce"
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	assert.Contains(t, output, "Department of Commerce")
	assert.Contains(t, output, "Yes - staff-wide (CommerceGPT)")
	assert.Contains(t, output, "Related FedRAMP services:")
	assert.Contains(t, output, "high")
	assert.Contains(t, output, "Azure Government")
	assert.Contains(t, output, "Patent search: Prior art")
}

func TestAgency_NoMatches(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &AgencyCommand{globals: &GlobalFlags{}}
	cmd.Args.Slug = "department-of-energy"
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	assert.Contains(t, output, "No related FedRAMP services.")
	assert.Contains(t, output, "Custom, internally hosted")
	assert.NotContains(t, output, "Specialized AI tools")
}

func TestAgency_NotFound(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &AgencyCommand{globals: &GlobalFlags{}}
	cmd.Args.Slug = "department-of-nothing"
	err := cmd.executeWithEnv(context.Background(), e)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAgency_JSON(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &AgencyCommand{globals: &GlobalFlags{JSON: true}}
	cmd.Args.Slug = "department-of-commerce"
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	var out agencyJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	require.NotNil(t, out.Agency)
	assert.Equal(t, storage.CategoryStaffLLM, out.Agency.AgencyCategory)
	assert.Empty(t, out.Matches)
	require.Len(t, out.Tools, 1)
	assert.Equal(t, "Patent search", out.Tools[0].ToolName)
}

func TestService_ListsProductServices(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &ServiceCommand{globals: &GlobalFlags{}}
	cmd.Args.ProductID = "FR1"
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	assert.Contains(t, output, "Azure Government")
	assert.Contains(t, output, "Provider:      Microsoft")
	assert.Contains(t, output, "Azure OpenAI Service")
	assert.Contains(t, output, "AI, GenAI, LLM")
	assert.Contains(t, output, "Azure AI Search")
}

func TestService_NotFound(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &ServiceCommand{globals: &GlobalFlags{}}
	cmd.Args.ProductID = "FR404"
	assert.ErrorIs(t, cmd.executeWithEnv(context.Background(), e), storage.ErrNotFound)
}
