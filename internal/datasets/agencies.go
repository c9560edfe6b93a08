// Package datasets configures the generic table for the two browsable
// datasets: federal agency AI usage and FedRAMP AI services.
package datasets

import (
	"strconv"
	"strings"

	"github.com/runnerr0/fedai/internal/storage"
	"github.com/runnerr0/fedai/internal/table"
)

// AgencyBasePath is the route of the agency table.
const AgencyBasePath = "/agency-ai-usage"

// Agency filter keys.
const (
	FilterHasLLM     = "has_llm"
	FilterHasCoding  = "has_coding"
	FilterCustom     = "custom"
	FilterCommercial = "commercial"
)

// HasStaffLLM reports whether the agency provides a staff chatbot.
func HasStaffLLM(a storage.AgencyUsage) bool {
	return strings.Contains(a.HasStaffLLM, "Yes")
}

// HasCodingAssistant reports whether a coding assistant is provided or
// allowed.
func HasCodingAssistant(a storage.AgencyUsage) bool {
	return strings.Contains(a.HasCodingAssistant, "Yes") || strings.Contains(a.HasCodingAssistant, "Allowed")
}

// IsCustom reports whether the solution is custom built.
func IsCustom(a storage.AgencyUsage) bool {
	return strings.Contains(a.SolutionType, "Custom")
}

// IsCommercial reports whether the solution is a commercial cloud offering.
func IsCommercial(a storage.AgencyUsage) bool {
	for _, token := range []string{"Azure", "AWS", "Commercial"} {
		if strings.Contains(a.SolutionType, token) {
			return true
		}
	}
	return false
}

// AgencyDetailRoute is the detail page of an agency.
func AgencyDetailRoute(a storage.AgencyUsage) string {
	return AgencyBasePath + "/" + a.Slug
}

func yesNo(ok bool) string {
	if ok {
		return "Yes"
	}
	return "No"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Agencies returns the table configuration of the agency usage dataset.
func Agencies(pageSize int) table.Config[storage.AgencyUsage] {
	return table.Config[storage.AgencyUsage]{
		Name:     "agencies",
		BasePath: AgencyBasePath,
		Columns: []table.Column[storage.AgencyUsage]{
			{
				Key:      "agency_name",
				Label:    "Agency",
				Sortable: true,
				Value:    func(a storage.AgencyUsage) string { return a.AgencyName },
			},
			{
				Key:      "has_staff_llm",
				Label:    "Staff LLM",
				Sortable: true,
				Value:    func(a storage.AgencyUsage) string { return a.HasStaffLLM },
				Format: func(a storage.AgencyUsage) string {
					if a.LLMName != "" {
						return yesNo(HasStaffLLM(a)) + " (" + a.LLMName + ")"
					}
					return yesNo(HasStaffLLM(a))
				},
			},
			{
				Key:      "has_coding_assistant",
				Label:    "Coding Assistant",
				Sortable: true,
				Value:    func(a storage.AgencyUsage) string { return a.HasCodingAssistant },
				Format:   func(a storage.AgencyUsage) string { return yesNo(HasCodingAssistant(a)) },
			},
			{
				Key:      "solution_type",
				Label:    "Solution Type",
				Sortable: true,
				Value:    func(a storage.AgencyUsage) string { return a.SolutionType },
				Format:   func(a storage.AgencyUsage) string { return orNA(a.SolutionType) },
			},
			{
				Key:      "scope",
				Label:    "Scope",
				Sortable: true,
				Value:    func(a storage.AgencyUsage) string { return a.Scope },
				Format:   func(a storage.AgencyUsage) string { return orNA(a.Scope) },
			},
		},
		Filters: []table.Filter[storage.AgencyUsage]{
			{Key: FilterHasLLM, Label: "Has LLM", Match: HasStaffLLM},
			{Key: FilterHasCoding, Label: "Has Coding", Match: HasCodingAssistant},
			{Key: FilterCustom, Label: "Custom", Match: IsCustom},
			{Key: FilterCommercial, Label: "Commercial", Match: IsCommercial},
		},
		SearchFields: []func(storage.AgencyUsage) string{
			func(a storage.AgencyUsage) string { return a.AgencyName },
			func(a storage.AgencyUsage) string { return a.LLMName },
			func(a storage.AgencyUsage) string { return a.SolutionType },
			func(a storage.AgencyUsage) string { return a.ToolName },
			func(a storage.AgencyUsage) string { return a.Notes },
		},
		DefaultSort:     "agency_name",
		DefaultPageSize: pageSize,
		RowKey:          func(a storage.AgencyUsage) string { return strconv.FormatInt(a.ID, 10) },
		DetailRoute:     AgencyDetailRoute,
	}
}
