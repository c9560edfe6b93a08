package table

import (
	"slices"
	"strings"
)

// FilterCategory keeps the records matching pred, preserving order. A nil
// predicate is the identity.
func FilterCategory[R any](records []R, pred func(R) bool) []R {
	if pred == nil {
		return records
	}
	out := make([]R, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Search keeps the records where any field contains query, ignoring case.
// An empty query is the identity; empty fields never match.
func Search[R any](records []R, query string, fields []func(R) string) []R {
	if query == "" {
		return records
	}
	q := strings.ToLower(query)
	out := make([]R, 0, len(records))
	for _, r := range records {
		for _, field := range fields {
			v := field(r)
			if v != "" && strings.Contains(strings.ToLower(v), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Sort returns a sorted copy of records. Values compare as strings, so
// numeric and date-like fields order lexicographically. Equal keys keep
// their input order.
func Sort[R any](records []R, value func(R) string, dir Direction) []R {
	out := slices.Clone(records)
	if value == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b R) int {
		c := strings.Compare(value(a), value(b))
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}

// TotalPages returns ceil(count/pageSize); zero records is zero pages.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	// count+pageSize-1 would overflow for sizes near math.MaxInt.
	return (count-1)/pageSize + 1
}

// Paginate returns the window of records for a 1-based page. Pages outside
// [1, TotalPages] are empty rather than an error.
func Paginate[R any](records []R, page, pageSize int) []R {
	if page < 1 || page > TotalPages(len(records), pageSize) {
		return []R{}
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, len(records)-start)
	return records[start:end]
}
