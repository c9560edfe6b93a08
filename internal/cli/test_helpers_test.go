package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/fedai/internal/config"
	"github.com/runnerr0/fedai/internal/logging"
	"github.com/runnerr0/fedai/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// newTestEnv returns an environment around a migrated in-memory store and
// the default config.
func newTestEnv(t *testing.T) *env {
	t.Helper()
	color.NoColor = true
	store, db, err := storage.OpenStore(context.Background(), storage.Options{Driver: "sqlite3", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	t.Cleanup(func() { store.Close() })

	return &env{
		cfg:   config.DefaultConfig(),
		store: store,
		db:    db,
		log:   logging.Discard(),
	}
}

// seedEnv loads three staff LLM agencies, one specialized tool, two
// products and three AI services.
func seedEnv(t *testing.T, e *env) {
	t.Helper()
	ctx := context.Background()

	_, err := e.store.ReplaceAgencies(ctx, storage.CategoryStaffLLM, []storage.AgencyUsage{
		{AgencyName: "Department of Commerce", HasStaffLLM: "Yes - staff-wide", LLMName: "CommerceGPT", HasCodingAssistant: "Allowed", SolutionType: "Commercial (Azure OpenAI)", Slug: "department-of-commerce"},
		{AgencyName: "Department of Agriculture", HasStaffLLM: "No", HasCodingAssistant: "No", SolutionType: "Custom GPT wrapper", Notes: "pilot on AWS Bedrock", Slug: "department-of-agriculture"},
		{AgencyName: "Department of Energy", HasStaffLLM: "Yes - pilot", HasCodingAssistant: "Yes", SolutionType: "Custom, internally hosted", Slug: "department-of-energy"},
	})
	require.NoError(t, err)
	_, err = e.store.ReplaceAgencies(ctx, storage.CategorySpecialized, []storage.AgencyUsage{
		{AgencyName: "Department of Commerce", ToolName: "Patent search", ToolPurpose: "Prior art", SolutionType: "Custom", Slug: "department-of-commerce"},
	})
	require.NoError(t, err)

	_, err = e.store.UpsertProducts(ctx, []storage.Product{
		{FedRAMPID: "FR1", Provider: "Microsoft", Offering: "Azure Government", Services: []string{"Azure OpenAI Service"}, Status: "Authorized"},
		{FedRAMPID: "FR2", Provider: "Amazon", Offering: "AWS GovCloud", Services: []string{"Amazon SageMaker"}, Status: "Authorized"},
	})
	require.NoError(t, err)

	_, err = e.store.ReplaceAIServices(ctx, []storage.AIService{
		{ProductID: "FR1", ProductName: "Azure Government", ProviderName: "Microsoft", ServiceName: "Azure OpenAI Service", HasAI: 1, HasGenAI: 1, HasLLM: 1, FedRAMPStatus: "Authorized", RelevantExcerpt: "Hosted GPT models"},
		{ProductID: "FR1", ProductName: "Azure Government", ProviderName: "Microsoft", ServiceName: "Azure AI Search", HasAI: 1, FedRAMPStatus: "Authorized"},
		{ProductID: "FR2", ProductName: "AWS GovCloud", ProviderName: "Amazon", ServiceName: "Amazon SageMaker", HasAI: 1},
	})
	require.NoError(t, err)
}
