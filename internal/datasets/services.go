package datasets

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/runnerr0/fedai/internal/storage"
	"github.com/runnerr0/fedai/internal/table"
)

// ServiceBasePath is the route of the AI services table.
const ServiceBasePath = "/ai-services"

// ServiceDetailRoute is the product page listing every AI service of the
// row's product.
func ServiceDetailRoute(s storage.AIService) string {
	return ServiceBasePath + "/" + url.PathEscape(s.ProductID)
}

// AITypes lists the AI flags set on s, e.g. "AI, GenAI".
func AITypes(s storage.AIService) string {
	var types []string
	if s.HasAI == 1 {
		types = append(types, "AI")
	}
	if s.HasGenAI == 1 {
		types = append(types, "GenAI")
	}
	if s.HasLLM == 1 {
		types = append(types, "LLM")
	}
	return strings.Join(types, ", ")
}

// Services returns the table configuration of the AI services dataset.
func Services(pageSize int) table.Config[storage.AIService] {
	col := func(key, label string, sortable bool, value func(storage.AIService) string) table.Column[storage.AIService] {
		return table.Column[storage.AIService]{Key: key, Label: label, Sortable: sortable, Value: value}
	}

	return table.Config[storage.AIService]{
		Name:     "services",
		BasePath: ServiceBasePath,
		Columns: []table.Column[storage.AIService]{
			col("provider_name", "Provider", true, func(s storage.AIService) string { return s.ProviderName }),
			col("product_name", "Product", true, func(s storage.AIService) string { return s.ProductName }),
			col("service_name", "Service", true, func(s storage.AIService) string { return s.ServiceName }),
			col("ai_type", "AI Type", false, AITypes),
			col("relevant_excerpt", "Description", false, func(s storage.AIService) string { return s.RelevantExcerpt }),
			col("fedramp_status", "Status", true, func(s storage.AIService) string { return s.FedRAMPStatus }),
			col("impact_level", "Impact", true, func(s storage.AIService) string { return s.ImpactLevel }),
			col("auth_date", "Authorized", true, func(s storage.AIService) string { return s.AuthDate }),
		},
		Filters: []table.Filter[storage.AIService]{
			{Key: storage.ServiceFilterAI, Label: "AI/ML", Match: func(s storage.AIService) bool { return s.HasAI == 1 }},
			{Key: storage.ServiceFilterGenAI, Label: "GenAI", Match: func(s storage.AIService) bool { return s.HasGenAI == 1 }},
			{Key: storage.ServiceFilterLLM, Label: "LLM", Match: func(s storage.AIService) bool { return s.HasLLM == 1 }},
		},
		SearchFields: []func(storage.AIService) string{
			func(s storage.AIService) string { return s.ProviderName },
			func(s storage.AIService) string { return s.ProductName },
			func(s storage.AIService) string { return s.ServiceName },
			func(s storage.AIService) string { return s.RelevantExcerpt },
			func(s storage.AIService) string { return s.FedRAMPStatus },
		},
		DefaultSort:     "provider_name",
		DefaultPageSize: pageSize,
		RowKey:          func(s storage.AIService) string { return strconv.FormatInt(s.ID, 10) },
		DetailRoute:     ServiceDetailRoute,
	}
}
