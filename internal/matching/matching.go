// Package matching links agencies to the FedRAMP products they most likely
// run on, from keyword evidence in the agency's solution type and notes.
package matching

import (
	"fmt"
	"strings"

	"github.com/runnerr0/fedai/internal/config"
	"github.com/runnerr0/fedai/internal/storage"
)

// Matcher scores agency text against FedRAMP products.
type Matcher struct {
	providers  []config.ProviderMatcher
	aiKeywords []string
}

// New returns a Matcher for the configured providers and AI keywords.
// Keywords are compared lowercase.
func New(cfg config.MatchingConfig) *Matcher {
	m := &Matcher{}
	for _, p := range cfg.Providers {
		lowered := make([]string, len(p.Keywords))
		for i, k := range p.Keywords {
			lowered[i] = strings.ToLower(k)
		}
		m.providers = append(m.providers, config.ProviderMatcher{Name: p.Name, Keywords: lowered})
	}
	for _, k := range cfg.AIKeywords {
		m.aiKeywords = append(m.aiKeywords, strings.ToLower(k))
	}
	return m
}

// Provider returns the first provider with a keyword contained in text.
func (m *Matcher) Provider(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, p := range m.providers {
		for _, k := range p.Keywords {
			if strings.Contains(lower, k) {
				return p.Name, true
			}
		}
	}
	return "", false
}

// InternallyHosted reports whether a custom solution is explicitly hosted
// in-house, which rules out any cloud product match.
func InternallyHosted(solutionType string) bool {
	s := strings.ToLower(solutionType)
	if !strings.Contains(s, "custom") || !strings.Contains(s, "hosted") {
		return false
	}
	return strings.Contains(s, "internally hosted") || strings.Contains(s, "non-cloud")
}

// Match returns the products agency a likely uses, in product order.
//
// Every product of the detected provider is a medium confidence match,
// upgraded to high when an AI keyword appears in both the agency text and
// one of the product's services. Scanning stops at the first medium
// confidence government product.
func (m *Matcher) Match(a storage.AgencyUsage, products []storage.Product) []storage.AgencyServiceMatch {
	if InternallyHosted(a.SolutionType) {
		return nil
	}

	text := strings.ToLower(a.SolutionType + " " + a.Notes)
	provider, ok := m.Provider(text)
	if !ok {
		return nil
	}
	providerLower := strings.ToLower(provider)

	var matches []storage.AgencyServiceMatch
	for _, p := range products {
		if !strings.Contains(strings.ToLower(p.Provider), providerLower) {
			continue
		}

		confidence := storage.ConfidenceMedium
		reason := fmt.Sprintf("Provider match: %s mentioned in solution type", provider)
		for _, k := range m.aiKeywords {
			if !strings.Contains(text, k) {
				continue
			}
			if hasService(p.Services, k) {
				confidence = storage.ConfidenceHigh
				reason = fmt.Sprintf("Direct service match: '%s' found in both agency data and product services", k)
			}
		}

		matches = append(matches, storage.AgencyServiceMatch{
			AgencyID:     a.ID,
			ProductID:    p.FedRAMPID,
			ProviderName: p.Provider,
			ProductName:  p.Offering,
			Confidence:   confidence,
			MatchReason:  reason,
		})

		if confidence == storage.ConfidenceMedium && strings.Contains(strings.ToLower(p.Offering), "gov") {
			break
		}
	}
	return matches
}

func hasService(services []string, keyword string) bool {
	for _, s := range services {
		if strings.Contains(strings.ToLower(s), keyword) {
			return true
		}
	}
	return false
}

// Result summarizes a matching run.
type Result struct {
	Agencies        int                          `json:"agencies"`
	AgenciesMatched int                          `json:"agencies_matched"`
	Skipped         int                          `json:"skipped_internally_hosted"`
	ByConfidence    map[string]int               `json:"by_confidence"`
	Matches         []storage.AgencyServiceMatch `json:"matches"`
}

// MatchAll matches every staff LLM agency. Other categories are ignored.
func (m *Matcher) MatchAll(agencies []storage.AgencyUsage, products []storage.Product) Result {
	res := Result{ByConfidence: map[string]int{}, Matches: []storage.AgencyServiceMatch{}}
	for _, a := range agencies {
		if a.AgencyCategory != storage.CategoryStaffLLM {
			continue
		}
		res.Agencies++
		if InternallyHosted(a.SolutionType) {
			res.Skipped++
			continue
		}
		found := m.Match(a, products)
		if len(found) == 0 {
			continue
		}
		res.AgenciesMatched++
		for _, f := range found {
			res.ByConfidence[f.Confidence]++
		}
		res.Matches = append(res.Matches, found...)
	}
	return res
}
