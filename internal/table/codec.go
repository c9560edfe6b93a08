package table

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names. Every table uses the same shape.
const (
	ParamQuery   = "q"
	ParamFilter  = "filter"
	ParamSort    = "sort"
	ParamDir     = "dir"
	ParamPage    = "page"
	ParamPerPage = "perPage"
)

// Param is one encoded query parameter.
type Param struct {
	Key   string
	Value string
}

// Codec converts between ViewState and URL query strings. Absent
// parameters always mean "default"; defaults are never written.
type Codec struct {
	BasePath string

	defaults ViewState
	filters  map[string]bool
	sortable map[string]bool
}

// Defaults returns the state an empty query decodes to.
func (c Codec) Defaults() ViewState {
	return c.defaults
}

// Decode builds a ViewState from query parameters. Unknown enum values and
// unparsable or non-positive integers fall back to their defaults.
func (c Codec) Decode(v url.Values) ViewState {
	s := c.defaults

	s.Query = v.Get(ParamQuery)
	if f := v.Get(ParamFilter); c.filters[f] {
		s.Filter = f
	}
	if f := v.Get(ParamSort); c.sortable[f] {
		s.SortField = f
	}
	if Direction(v.Get(ParamDir)) == Desc {
		s.SortDirection = Desc
	}
	s.Page = positiveInt(v.Get(ParamPage), c.defaults.Page)
	s.PageSize = positiveInt(v.Get(ParamPerPage), c.defaults.PageSize)

	return s
}

// Params returns the non-default fields of s in a fixed order.
func (c Codec) Params(s ViewState) []Param {
	var out []Param
	if s.Query != "" {
		out = append(out, Param{ParamQuery, s.Query})
	}
	if s.Filter != "" && s.Filter != c.defaults.Filter {
		out = append(out, Param{ParamFilter, s.Filter})
	}
	if s.SortField != "" && s.SortField != c.defaults.SortField {
		out = append(out, Param{ParamSort, s.SortField})
	}
	if s.SortDirection != "" && s.SortDirection != c.defaults.SortDirection {
		out = append(out, Param{ParamDir, string(s.SortDirection)})
	}
	if s.Page != c.defaults.Page {
		out = append(out, Param{ParamPage, strconv.Itoa(s.Page)})
	}
	if s.PageSize != c.defaults.PageSize {
		out = append(out, Param{ParamPerPage, strconv.Itoa(s.PageSize)})
	}
	return out
}

// Encode returns the query string for s without the leading "?". The
// default state encodes to "".
func (c Codec) Encode(s ViewState) string {
	params := c.Params(s)
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// URL returns the base path with the encoded state appended.
func (c Codec) URL(s ViewState) string {
	q := c.Encode(s)
	if q == "" {
		return c.BasePath
	}
	return c.BasePath + "?" + q
}

// Canonical reports whether rawQuery is exactly the encoding of the state
// it decodes to.
func (c Codec) Canonical(rawQuery string) bool {
	v, err := url.ParseQuery(rawQuery)
	if err != nil {
		return false
	}
	return c.Encode(c.Decode(v)) == rawQuery
}

func positiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
