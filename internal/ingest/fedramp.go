package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/runnerr0/fedai/internal/storage"
)

// textList decodes a JSON string, list of strings, or null.
type textList []string

func (t *textList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = nil
		return nil
	case len(b) > 0 && b[0] == '[':
		var items []any
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if s := strings.TrimSpace(fmt.Sprint(it)); s != "" && it != nil {
				out = append(out, s)
			}
		}
		*t = out
		return nil
	default:
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s = strings.TrimSpace(s); s != "" {
			*t = textList{s}
		} else {
			*t = nil
		}
		return nil
	}
}

func (t textList) joined() string { return strings.Join(t, ", ") }

// flag decodes a boolean, a number or a "true"/"1" string into 0 or 1.
type flag int

func (f *flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = 0
	switch x := v.(type) {
	case bool:
		if x {
			*f = 1
		}
	case float64:
		if x != 0 {
			*f = 1
		}
	case string:
		if ok, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil && ok {
			*f = 1
		}
	case nil:
	default:
		return fmt.Errorf("unsupported flag value %s", b)
	}
	return nil
}

type marketplaceProduct struct {
	ID          string   `json:"id"`
	CSP         string   `json:"csp"`
	CSO         string   `json:"cso"`
	ServiceDesc string   `json:"service_desc"`
	AllOthers   textList `json:"all_others"`
	Status      string   `json:"status"`
	ImpactLevel textList `json:"impact_level"`
	AuthDate    string   `json:"auth_date"`
}

type marketplaceFile struct {
	Data struct {
		Products []marketplaceProduct `json:"Products"`
	} `json:"data"`
}

// ParseProducts reads the FedRAMP marketplace export (data.Products[]).
// Products without an id are skipped; repeated ids keep the last listing.
func ParseProducts(r io.Reader) ([]storage.Product, error) {
	var file marketplaceFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode marketplace json: %w", err)
	}

	out := []storage.Product{}
	index := map[string]int{}
	for _, p := range file.Data.Products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			continue
		}
		services := []string(p.AllOthers)
		if services == nil {
			services = []string{}
		}
		prod := storage.Product{
			FedRAMPID:   id,
			Provider:    strings.TrimSpace(p.CSP),
			Offering:    strings.TrimSpace(p.CSO),
			Description: p.ServiceDesc,
			Services:    services,
			Status:      p.Status,
			ImpactLevel: p.ImpactLevel.joined(),
			AuthDate:    p.AuthDate,
		}
		if i, ok := index[id]; ok {
			out[i] = prod
			continue
		}
		index[id] = len(out)
		out = append(out, prod)
	}
	return out, nil
}

type analyzedService struct {
	ProductID       string   `json:"product_id"`
	ProductName     string   `json:"product_name"`
	ProviderName    string   `json:"provider_name"`
	ServiceName     string   `json:"service_name"`
	HasAI           flag     `json:"has_ai"`
	HasGenAI        flag     `json:"has_genai"`
	HasLLM          flag     `json:"has_llm"`
	RelevantExcerpt string   `json:"relevant_excerpt"`
	FedRAMPStatus   string   `json:"fedramp_status"`
	ImpactLevel     textList `json:"impact_level"`
	Agencies        textList `json:"agencies"`
	AuthDate        string   `json:"auth_date"`
}

// ParseAIServices reads a JSON array of analyzed AI services. Every record
// needs a product_id and a service_name.
func ParseAIServices(r io.Reader) ([]storage.AIService, error) {
	var records []analyzedService
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode ai services json: %w", err)
	}

	out := make([]storage.AIService, 0, len(records))
	for i, s := range records {
		if strings.TrimSpace(s.ProductID) == "" || strings.TrimSpace(s.ServiceName) == "" {
			return nil, fmt.Errorf("ai service %d: product_id and service_name are required", i)
		}
		out = append(out, storage.AIService{
			ProductID:       strings.TrimSpace(s.ProductID),
			ProductName:     s.ProductName,
			ProviderName:    s.ProviderName,
			ServiceName:     strings.TrimSpace(s.ServiceName),
			HasAI:           int(s.HasAI),
			HasGenAI:        int(s.HasGenAI),
			HasLLM:          int(s.HasLLM),
			RelevantExcerpt: s.RelevantExcerpt,
			FedRAMPStatus:   s.FedRAMPStatus,
			ImpactLevel:     s.ImpactLevel.joined(),
			Agencies:        s.Agencies.joined(),
			AuthDate:        s.AuthDate,
		})
	}
	return out, nil
}
