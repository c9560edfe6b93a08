package table

import (
	"errors"
	"fmt"
)

// Column is a displayable field of a record.
type Column[R any] struct {
	Key   string
	Label string
	// Value returns the field as a string; absent values are "".
	// Sorting compares these strings.
	Value func(R) string
	// Format renders the cell. Nil means Value.
	Format   func(R) string
	Sortable bool
}

// Cell returns the rendered cell text for r.
func (c Column[R]) Cell(r R) string {
	if c.Format != nil {
		return c.Format(r)
	}
	return c.Value(r)
}

// Filter is one entry of a dataset's category filter enum.
type Filter[R any] struct {
	Key   string
	Label string
	Match func(R) bool
}

// Config parameterizes the table for one dataset shape.
type Config[R any] struct {
	// Name is the plural noun used in summaries, e.g. "agencies".
	Name     string
	BasePath string
	Columns  []Column[R]
	Filters  []Filter[R]
	// SearchFields are OR-ed by the free-text search.
	SearchFields []func(R) string
	DefaultSort  string
	// DefaultPageSize falls back to DefaultPageSize when zero.
	DefaultPageSize int
	RowKey          func(R) string
	DetailRoute     func(R) string
}

// Validate reports configuration mistakes that would make the table
// misbehave at runtime.
func (c Config[R]) Validate() error {
	if c.Name == "" {
		return errors.New("table name is required")
	}
	if c.RowKey == nil || c.DetailRoute == nil {
		return fmt.Errorf("table %s: row key and detail route are required", c.Name)
	}
	seen := make(map[string]bool)
	for _, col := range c.Columns {
		if col.Value == nil {
			return fmt.Errorf("table %s: column %q has no value accessor", c.Name, col.Key)
		}
		if seen[col.Key] {
			return fmt.Errorf("table %s: duplicate column %q", c.Name, col.Key)
		}
		seen[col.Key] = true
	}
	def, ok := c.Column(c.DefaultSort)
	if !ok || !def.Sortable {
		return fmt.Errorf("table %s: default sort %q is not a sortable column", c.Name, c.DefaultSort)
	}
	for _, f := range c.Filters {
		if f.Key == FilterAll || f.Key == "" {
			return fmt.Errorf("table %s: filter key %q is reserved", c.Name, f.Key)
		}
		if f.Match == nil {
			return fmt.Errorf("table %s: filter %q has no predicate", c.Name, f.Key)
		}
	}
	return nil
}

// Column looks up a column by key.
func (c Config[R]) Column(key string) (Column[R], bool) {
	for _, col := range c.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column[R]{}, false
}

// Filter looks up a category filter by key.
func (c Config[R]) Filter(key string) (Filter[R], bool) {
	for _, f := range c.Filters {
		if f.Key == key {
			return f, true
		}
	}
	return Filter[R]{}, false
}

// Defaults returns the view state of an unparameterized URL.
func (c Config[R]) Defaults() ViewState {
	size := c.DefaultPageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return ViewState{
		Filter:        FilterAll,
		SortField:     c.DefaultSort,
		SortDirection: Asc,
		PageSize:      size,
		Page:          1,
	}
}

// Codec returns the URL codec for this table.
func (c Config[R]) Codec() Codec {
	codec := Codec{
		BasePath: c.BasePath,
		defaults: c.Defaults(),
		filters:  make(map[string]bool, len(c.Filters)),
		sortable: make(map[string]bool, len(c.Columns)),
	}
	for _, f := range c.Filters {
		codec.filters[f.Key] = true
	}
	for _, col := range c.Columns {
		if col.Sortable {
			codec.sortable[col.Key] = true
		}
	}
	return codec
}
