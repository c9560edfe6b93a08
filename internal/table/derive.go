package table

import "fmt"

// Badge is a category filter button with its record count.
type Badge struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
	Active bool   `json:"active"`
}

// DerivedView is the filtered, sorted, paginated projection of a source
// collection for one ViewState.
type DerivedView[R any] struct {
	State  ViewState `json:"state"`
	Rows   []R       `json:"rows"`
	Badges []Badge   `json:"badges"`

	// Total is the size of the source collection.
	Total int `json:"total"`
	// CategoryTotal counts records passing the category filter only.
	CategoryTotal int `json:"category_total"`
	// Matched counts records passing both category filter and search.
	Matched int `json:"matched"`
	// Shown is the size of the page window.
	Shown int `json:"shown"`

	TotalPages     int    `json:"total_pages"`
	HasPrev        bool   `json:"has_prev"`
	HasNext        bool   `json:"has_next"`
	ShowPagination bool   `json:"show_pagination"`
	Summary        string `json:"summary"`
}

// Select runs category filter, search and sort, without pagination.
// It returns the sorted rows and the category-only count.
func Select[R any](cfg Config[R], records []R, s ViewState) ([]R, int) {
	var pred func(R) bool
	if f, ok := cfg.Filter(s.Filter); ok {
		pred = f.Match
	}
	byCategory := FilterCategory(records, pred)
	matched := Search(byCategory, s.Query, cfg.SearchFields)

	var value func(R) string
	if col, ok := cfg.Column(s.SortField); ok && col.Sortable {
		value = col.Value
	}
	return Sort(matched, value, s.SortDirection), len(byCategory)
}

// Derive computes the DerivedView of records for s. records is not
// modified.
func Derive[R any](cfg Config[R], records []R, s ViewState) DerivedView[R] {
	sorted, categoryTotal := Select(cfg, records, s)
	rows := Paginate(sorted, s.Page, s.PageSize)
	pages := TotalPages(len(sorted), s.PageSize)

	v := DerivedView[R]{
		State:          s,
		Rows:           rows,
		Badges:         Badges(cfg, records, s.Filter),
		Total:          len(records),
		CategoryTotal:  categoryTotal,
		Matched:        len(sorted),
		Shown:          len(rows),
		TotalPages:     pages,
		HasPrev:        s.Page > 1,
		HasNext:        s.Page < pages,
		ShowPagination: pages > 1,
	}
	v.Summary = fmt.Sprintf("Showing %d of %d %s", v.Shown, v.Matched, cfg.Name)
	if s.Query != "" {
		v.Summary += fmt.Sprintf(" (filtered from %d total)", v.CategoryTotal)
	}
	return v
}

// Badges counts every category filter over the unsearched collection.
func Badges[R any](cfg Config[R], records []R, active string) []Badge {
	badges := make([]Badge, 0, len(cfg.Filters)+1)
	_, known := cfg.Filter(active)
	badges = append(badges, Badge{
		Key:    FilterAll,
		Label:  "All",
		Count:  len(records),
		Active: !known,
	})
	for _, f := range cfg.Filters {
		n := 0
		for _, r := range records {
			if f.Match(r) {
				n++
			}
		}
		badges = append(badges, Badge{Key: f.Key, Label: f.Label, Count: n, Active: f.Key == active})
	}
	return badges
}
