// Package table implements a dataset-agnostic data grid: URL-driven view
// state, category filtering, free-text search, column sorting and
// pagination over a collection that is already fully loaded in memory.
//
// The package does no IO. Callers hand it a slice of records and a
// Navigator; it hands back derived views and navigation requests.
package table

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

const (
	// FilterAll is the identity category filter.
	FilterAll = "all"

	// DefaultPageSize is the page size used when none is requested.
	DefaultPageSize = 50

	// AllPageSize is the "All" option of the page size selector. It is an
	// ordinary page size large enough to hold any dataset on one page.
	AllPageSize = 999999
)

// PageSizes returns the page sizes offered to users.
func PageSizes() []int {
	return []int{25, 50, 100, AllPageSize}
}

// ViewState is the filter/sort/search/pagination configuration of a table,
// mirrored in the URL. Page is 1-based.
type ViewState struct {
	Query         string    `json:"query"`
	Filter        string    `json:"filter"`
	SortField     string    `json:"sort_field"`
	SortDirection Direction `json:"sort_direction"`
	PageSize      int       `json:"page_size"`
	Page          int       `json:"page"`
}

// WithFilter selects a category filter and returns to the first page.
func (s ViewState) WithFilter(key string) ViewState {
	s.Filter = key
	s.Page = 1
	return s
}

// WithQuery replaces the search query and returns to the first page.
func (s ViewState) WithQuery(q string) ViewState {
	s.Query = q
	s.Page = 1
	return s
}

// WithSort sorts by field. Selecting the active field flips the direction,
// any other field starts ascending. The page is kept.
func (s ViewState) WithSort(field string) ViewState {
	if s.SortField == field {
		s.SortDirection = s.SortDirection.Flip()
		return s
	}
	s.SortField = field
	s.SortDirection = Asc
	return s
}

// WithPageSize changes the page size and returns to the first page.
// Non-positive sizes leave the state unchanged.
func (s ViewState) WithPageSize(n int) ViewState {
	if n <= 0 {
		return s
	}
	s.PageSize = n
	s.Page = 1
	return s
}

// WithPage moves to page n without any bounds check.
func (s ViewState) WithPage(n int) ViewState {
	s.Page = n
	return s
}
