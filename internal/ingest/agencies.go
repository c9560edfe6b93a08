// Package ingest parses the source exports loaded by `fedai import`: the
// agency provisioning sheets (CSV), the FedRAMP marketplace JSON and the AI
// service analysis JSON.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/runnerr0/fedai/internal/storage"
)

// Sheet column headers.
const (
	colAgency           = "Agency/Department"
	colHasStaffLLM      = "Has staff LLM chatbot?"
	colHasCoding        = "Has AI coding assistant?"
	colScope            = "Scope"
	colSolutionType     = "Solution type"
	colNonPublicAllowed = "Non-public info allowed?"
	colOtherAIPresent   = "Other AI (non-chat) present?"
	colNotes            = "Notes/Comments"
	colSources          = "Sources"
	colTool             = "Tool / Capability"
	colPurpose          = "Purpose"
	colCustomCommercial = "Custom or Commercial"
)

// llmNamePattern finds a quoted product name ending in GPT or Chat, such as
// 'NIPRGPT' or ‘StateChat’.
var llmNamePattern = regexp.MustCompile(`['‘’]([\w\s-]+GPT|[\w\s-]+Chat)[’']`)

// ExtractLLMName returns the quoted chatbot name mentioned in notes, or "".
func ExtractLLMName(notes string) string {
	if !strings.Contains(notes, "GPT") && !strings.Contains(notes, "Chat") {
		return ""
	}
	m := llmNamePattern.FindStringSubmatch(notes)
	if m == nil {
		return ""
	}
	return m[1]
}

// Slug derives the URL identifier of an agency: lowercase, punctuation
// dropped, runs of spaces and hyphens collapsed to one hyphen.
func Slug(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingDash = true
		}
	}
	return b.String()
}

// sheet is a CSV export with its header row indexed.
type sheet struct {
	r       *csv.Reader
	columns map[string]int
}

// normalizeHeader folds the typographic hyphens spreadsheets emit and the
// UTF-8 byte order mark so headers compare by text.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.NewReplacer("\u2010", "-", "\u2011", "-", "\u2013", "-", "\u00a0", " ").Replace(h)
	return strings.TrimSpace(h)
}

func openSheet(r io.Reader, required ...string) (*sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	s := &sheet{r: cr, columns: make(map[string]int, len(header))}
	for i, h := range header {
		s.columns[normalizeHeader(h)] = i
	}
	for _, c := range required {
		if _, ok := s.columns[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}
	return s, nil
}

// rows calls fn for every non-blank data row with a cell accessor.
func (s *sheet) rows(fn func(line int, get func(col string) string) error) error {
	line := 1
	for {
		rec, err := s.r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}
		get := func(col string) string {
			i, ok := s.columns[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if err := fn(line, get); err != nil {
			return err
		}
	}
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParseStaffLLM reads the "Staff LLMs & Coding" sheet.
func ParseStaffLLM(r io.Reader) ([]storage.AgencyUsage, error) {
	s, err := openSheet(r, colAgency)
	if err != nil {
		return nil, fmt.Errorf("parse staff llm sheet: %w", err)
	}
	out := []storage.AgencyUsage{}
	err = s.rows(func(line int, get func(string) string) error {
		name := get(colAgency)
		if name == "" {
			return fmt.Errorf("row %d: missing %s", line, colAgency)
		}
		notes := get(colNotes)
		out = append(out, storage.AgencyUsage{
			AgencyName:         name,
			AgencyCategory:     storage.CategoryStaffLLM,
			HasStaffLLM:        get(colHasStaffLLM),
			LLMName:            ExtractLLMName(notes),
			HasCodingAssistant: get(colHasCoding),
			Scope:              get(colScope),
			SolutionType:       get(colSolutionType),
			NonPublicAllowed:   get(colNonPublicAllowed),
			OtherAIPresent:     get(colOtherAIPresent),
			Notes:              notes,
			Sources:            get(colSources),
			Slug:               Slug(name),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse staff llm sheet: %w", err)
	}
	return out, nil
}

// ParseSpecialized reads the "Specialized AI (Non-chat)" sheet.
func ParseSpecialized(r io.Reader) ([]storage.AgencyUsage, error) {
	s, err := openSheet(r, colAgency, colTool)
	if err != nil {
		return nil, fmt.Errorf("parse specialized sheet: %w", err)
	}
	out := []storage.AgencyUsage{}
	err = s.rows(func(line int, get func(string) string) error {
		name := get(colAgency)
		if name == "" {
			return fmt.Errorf("row %d: missing %s", line, colAgency)
		}
		out = append(out, storage.AgencyUsage{
			AgencyName:       name,
			AgencyCategory:   storage.CategorySpecialized,
			ToolName:         get(colTool),
			ToolPurpose:      get(colPurpose),
			SolutionType:     get(colCustomCommercial),
			Scope:            get(colScope),
			NonPublicAllowed: get(colNonPublicAllowed),
			Sources:          get(colSources),
			Slug:             Slug(name),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse specialized sheet: %w", err)
	}
	return out, nil
}
