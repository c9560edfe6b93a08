package table

import (
	"fmt"
	"strings"
)

type agency struct {
	ID       int
	Name     string
	LLM      string
	Coding   string
	Solution string
	Scope    string
	Notes    string
	Slug     string
}

func testConfig() Config[agency] {
	return Config[agency]{
		Name:     "agencies",
		BasePath: "/agency-ai-usage",
		Columns: []Column[agency]{
			{Key: "agency_name", Label: "Agency", Value: func(a agency) string { return a.Name }, Sortable: true},
			{Key: "has_staff_llm", Label: "Staff LLM", Value: func(a agency) string { return a.LLM }, Sortable: true},
			{Key: "solution_type", Label: "Solution Type", Value: func(a agency) string { return a.Solution }, Sortable: true},
			{Key: "scope", Label: "Scope", Value: func(a agency) string { return a.Scope }, Sortable: true},
			{Key: "notes", Label: "Notes", Value: func(a agency) string { return a.Notes }},
		},
		Filters: []Filter[agency]{
			{Key: "has_llm", Label: "Has LLM", Match: func(a agency) bool { return strings.Contains(a.LLM, "Yes") }},
			{Key: "has_coding", Label: "Has Coding", Match: func(a agency) bool {
				return strings.Contains(a.Coding, "Yes") || strings.Contains(a.Coding, "Allowed")
			}},
			{Key: "custom", Label: "Custom", Match: func(a agency) bool { return strings.Contains(a.Solution, "Custom") }},
		},
		SearchFields: []func(agency) string{
			func(a agency) string { return a.Name },
			func(a agency) string { return a.Solution },
			func(a agency) string { return a.Notes },
		},
		DefaultSort: "agency_name",
		RowKey:      func(a agency) string { return fmt.Sprint(a.ID) },
		DetailRoute: func(a agency) string { return "/agency-ai-usage/" + a.Slug },
	}
}

// numbered returns n agencies named "Agency 001".. in order.
func numbered(n int) []agency {
	out := make([]agency, n)
	for i := range out {
		out[i] = agency{ID: i + 1, Name: fmt.Sprintf("Agency %03d", i+1), Slug: fmt.Sprintf("agency-%03d", i+1)}
	}
	return out
}

func names(rows []agency) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

type recordingNavigator struct {
	replaced []string
	pushed   []string
}

func (n *recordingNavigator) Replace(url string) { n.replaced = append(n.replaced, url) }
func (n *recordingNavigator) Push(url string)    { n.pushed = append(n.pushed, url) }
