package config

// DefaultProviderMatchers returns the cloud providers recognized in agency
// solution descriptions, in match priority order. The first provider with a
// keyword present in the text wins.
func DefaultProviderMatchers() []ProviderMatcher {
	return []ProviderMatcher{
		{Name: "Microsoft", Keywords: []string{"azure", "microsoft", "microsoft 365", "m365", "office 365", "o365", "copilot"}},
		{Name: "Amazon", Keywords: []string{"aws", "amazon", "govcloud"}},
		{Name: "Google", Keywords: []string{"google", "gcp", "google cloud"}},
		{Name: "IBM", Keywords: []string{"ibm", "watson"}},
		{Name: "Oracle", Keywords: []string{"oracle"}},
		{Name: "Salesforce", Keywords: []string{"salesforce"}},
	}
}

// DefaultAIKeywords returns the AI service names that upgrade a provider
// match to a direct service match when they appear both in agency text and
// in a product's service list.
func DefaultAIKeywords() []string {
	return []string{"openai", "gpt", "bedrock", "sagemaker", "copilot", "vertex"}
}
