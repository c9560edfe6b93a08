package storage

// Agency categories, one per sheet of the provisioning export.
const (
	CategoryStaffLLM    = "staff_llm"
	CategorySpecialized = "specialized"
)

// Match confidence tiers, strongest first.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Service filters accepted by ListAIServices.
const (
	ServiceFilterAny   = ""
	ServiceFilterAI    = "ai"
	ServiceFilterGenAI = "genai"
	ServiceFilterLLM   = "llm"
)

// AgencyUsage is one row of the agency AI usage dataset. Staff LLM rows carry
// the chatbot and coding assistant columns; specialized rows carry the tool
// columns. Absent values are "".
type AgencyUsage struct {
	ID                 int64  `json:"id"`
	AgencyName         string `json:"agency_name"`
	AgencyCategory     string `json:"agency_category"`
	HasStaffLLM        string `json:"has_staff_llm"`
	LLMName            string `json:"llm_name"`
	HasCodingAssistant string `json:"has_coding_assistant"`
	Scope              string `json:"scope"`
	SolutionType       string `json:"solution_type"`
	NonPublicAllowed   string `json:"non_public_allowed"`
	OtherAIPresent     string `json:"other_ai_present"`
	ToolName           string `json:"tool_name"`
	ToolPurpose        string `json:"tool_purpose"`
	Notes              string `json:"notes"`
	Sources            string `json:"sources"`
	AnalyzedAt         string `json:"analyzed_at"`
	Slug               string `json:"slug"`
}

// AIService is one AI-related service found in a FedRAMP product. The has_*
// flags are 0 or 1.
type AIService struct {
	ID              int64  `json:"id"`
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	ProviderName    string `json:"provider_name"`
	ServiceName     string `json:"service_name"`
	HasAI           int    `json:"has_ai"`
	HasGenAI        int    `json:"has_genai"`
	HasLLM          int    `json:"has_llm"`
	RelevantExcerpt string `json:"relevant_excerpt"`
	FedRAMPStatus   string `json:"fedramp_status"`
	ImpactLevel     string `json:"impact_level"`
	Agencies        string `json:"agencies"`
	AuthDate        string `json:"auth_date"`
	AnalyzedAt      string `json:"analyzed_at"`
}

// AgencyServiceMatch links an agency to a FedRAMP product it likely uses.
type AgencyServiceMatch struct {
	AgencyID     int64  `json:"agency_id,omitempty"`
	ProductID    string `json:"product_id"`
	ProviderName string `json:"provider_name"`
	ProductName  string `json:"product_name"`
	Confidence   string `json:"confidence"`
	MatchReason  string `json:"match_reason"`
}

// Product is a FedRAMP marketplace listing.
type Product struct {
	FedRAMPID   string   `json:"fedramp_id"`
	Provider    string   `json:"provider"`
	Offering    string   `json:"offering"`
	Description string   `json:"description"`
	Services    []string `json:"services"`
	Status      string   `json:"status"`
	ImpactLevel string   `json:"impact_level"`
	AuthDate    string   `json:"auth_date"`
}

// AgencyStats summarizes the staff LLM rows and the agency/product matches.
type AgencyStats struct {
	TotalAgencies         int64 `json:"total_agencies"`
	WithLLM               int64 `json:"agencies_with_llm"`
	WithCoding            int64 `json:"agencies_with_coding"`
	CustomSolution        int64 `json:"agencies_custom_solution"`
	CommercialSolution    int64 `json:"agencies_commercial_solution"`
	TotalMatches          int64 `json:"total_matches"`
	HighConfidenceMatches int64 `json:"high_confidence_matches"`
}

// AIStats summarizes the AI service analysis.
type AIStats struct {
	TotalServices   int64 `json:"total_ai_services"`
	CountAI         int64 `json:"count_ai"`
	CountGenAI      int64 `json:"count_genai"`
	CountLLM        int64 `json:"count_llm"`
	ProductsWithAI  int64 `json:"products_with_ai"`
	ProvidersWithAI int64 `json:"providers_with_ai"`
}
