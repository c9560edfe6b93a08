package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/fedai/internal/storage"
)

func TestViewFlags_Values(t *testing.T) {
	assert.Empty(t, ViewFlags{}.values())

	v := ViewFlags{Query: "gpt", Filter: "has_llm", Dir: "desc", Page: 2, PerPage: 25}.values()
	assert.Equal(t, "gpt", v.Get("q"))
	assert.Equal(t, "has_llm", v.Get("filter"))
	assert.Equal(t, "desc", v.Get("dir"))
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "25", v.Get("perPage"))
	assert.False(t, v.Has("sort"))
}

func TestAgencies_DefaultView(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &AgenciesCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	assert.Contains(t, output, "Agency AI Usage")
	assert.Contains(t, output, "[All (3)]")
	assert.Contains(t, output, "Has LLM (2)")
	assert.Contains(t, output, "Agency ▲")
	assert.Contains(t, output, "Yes (CommerceGPT)")
	assert.Contains(t, output, "department-of-commerce")
	assert.Contains(t, output, "Showing 3 of 3 agencies")
	assert.Contains(t, output, "URL:     /agency-ai-usage\n")
	assert.NotContains(t, output, "Patent search")
}

func TestAgencies_FilteredAndPaged(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &AgenciesCommand{
		ViewFlags: ViewFlags{Filter: "has_llm", PerPage: 1},
		globals:   &GlobalFlags{},
	}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	assert.Contains(t, output, "[Has LLM (2)]")
	assert.Contains(t, output, "Showing 1 of 2 agencies")
	assert.Contains(t, output, "Page 1 of 2")
	assert.Contains(t, output, "Next:    /agency-ai-usage?filter=has_llm&page=2&perPage=1")
	assert.Contains(t, output, "URL:     /agency-ai-usage?filter=has_llm&perPage=1")
	assert.Contains(t, output, "Department of Commerce")
	assert.NotContains(t, output, "Department of Energy")
}

func TestAgencies_SearchSummary(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &AgenciesCommand{ViewFlags: ViewFlags{Query: "bedrock"}, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	assert.Contains(t, output, `Search:  "bedrock"`)
	assert.Contains(t, output, "Showing 1 of 1 agencies (filtered from 3 total)")
	assert.Contains(t, output, "URL:     /agency-ai-usage?q=bedrock")
}

func TestAgencies_MalformedFlagsFallBack(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &AgenciesCommand{
		ViewFlags: ViewFlags{Filter: "bogus", Sort: "nope", Dir: "sideways", Page: -3},
		globals:   &GlobalFlags{},
	}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	assert.Contains(t, output, "Showing 3 of 3 agencies")
	assert.Contains(t, output, "URL:     /agency-ai-usage\n")
}

func TestAgencies_StalePage(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &AgenciesCommand{ViewFlags: ViewFlags{Page: 5}, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	assert.Contains(t, output, "No agencies found.")
	assert.Contains(t, output, "Showing 0 of 3 agencies")
	assert.Contains(t, output, "URL:     /agency-ai-usage?page=5")
}

func TestAgencies_JSON(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &AgenciesCommand{
		ViewFlags: ViewFlags{Sort: "solution_type", Dir: "desc"},
		globals:   &GlobalFlags{JSON: true},
	}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	var out struct {
		URL  string `json:"url"`
		View struct {
			Matched int                   `json:"matched"`
			Rows    []storage.AgencyUsage `json:"rows"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, "/agency-ai-usage?sort=solution_type&dir=desc", out.URL)
	assert.Equal(t, 3, out.View.Matched)
	require.Len(t, out.View.Rows, 3)
	assert.Equal(t, "Department of Energy", out.View.Rows[0].AgencyName)
	assert.Equal(t, "Department of Commerce", out.View.Rows[2].AgencyName)
}

func TestServices_LLMFilter(t *testing.T) {
	e := newTestEnv(t)
	seedEnv(t, e)

	cmd := &ServicesCommand{ViewFlags: ViewFlags{Filter: "llm"}, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithEnv(context.Background(), e))
	})

	assert.Contains(t, output, "FedRAMP AI Services")
	assert.Contains(t, output, "Azure OpenAI Service")
	assert.NotContains(t, output, "Amazon SageMaker")
	assert.Contains(t, output, "Showing 1 of 1 services")
	assert.Contains(t, output, "URL:     /ai-services?filter=llm")
	assert.Contains(t, output, "FR1")
}

func TestDetailKey(t *testing.T) {
	assert.Equal(t, "department-of-state", detailKey("/agency-ai-usage/department-of-state"))
	assert.Equal(t, "FR 1", detailKey("/ai-services/FR%201"))
}
