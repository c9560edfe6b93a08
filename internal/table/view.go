package table

import "net/url"

// Navigator receives the navigation requests a View issues. Calls are
// fire-and-forget.
type Navigator interface {
	// Replace swaps the current location for url without adding a history
	// entry or resetting scroll.
	Replace(url string)
	// Push navigates to url as a new history entry.
	Push(url string)
}

// Phase is the lifecycle phase of a View.
type Phase int

const (
	// Uninitialized views have not decoded their URL yet and never write it.
	Uninitialized Phase = iota
	// Ready views mirror every state change into the URL.
	Ready
)

func (p Phase) String() string {
	if p == Ready {
		return "ready"
	}
	return "uninitialized"
}

// View is one session of a table: source records, current ViewState and the
// Navigator the state is mirrored to. A View is not safe for concurrent use.
type View[R any] struct {
	cfg     Config[R]
	codec   Codec
	nav     Navigator
	records []R
	state   ViewState
	phase   Phase
}

// NewView returns an Uninitialized view over records. nav may be nil.
func NewView[R any](cfg Config[R], records []R, nav Navigator) *View[R] {
	return &View[R]{
		cfg:     cfg,
		codec:   cfg.Codec(),
		nav:     nav,
		records: records,
		state:   cfg.Defaults(),
	}
}

// Mount decodes query into the view state, opens the URL gate, then syncs
// the URL. Calling Mount again (back/forward navigation) re-decodes.
func (v *View[R]) Mount(query url.Values) {
	v.state = v.codec.Decode(query)
	v.phase = Ready
	v.sync()
}

func (v *View[R]) Phase() Phase { return v.phase }

func (v *View[R]) State() ViewState { return v.state }

func (v *View[R]) Codec() Codec { return v.codec }

func (v *View[R]) Config() Config[R] { return v.cfg }

// URL is the canonical URL of the current state.
func (v *View[R]) URL() string { return v.codec.URL(v.state) }

// Derive computes the current DerivedView.
func (v *View[R]) Derive() DerivedView[R] {
	return Derive(v.cfg, v.records, v.state)
}

// SetRecords replaces the source collection. The state is kept.
func (v *View[R]) SetRecords(records []R) {
	v.records = records
}

// SelectFilter applies a category filter and returns to page 1. Unknown
// keys are ignored.
func (v *View[R]) SelectFilter(key string) {
	if _, ok := v.cfg.Filter(key); !ok && key != FilterAll {
		return
	}
	v.apply(v.state.WithFilter(key))
}

// Search replaces the search query and returns to page 1.
func (v *View[R]) Search(q string) {
	v.apply(v.state.WithQuery(q))
}

// SortBy sorts by a sortable column, flipping direction when it is already
// active. Unknown or unsortable fields are ignored.
func (v *View[R]) SortBy(field string) {
	if col, ok := v.cfg.Column(field); !ok || !col.Sortable {
		return
	}
	v.apply(v.state.WithSort(field))
}

// SetPageSize changes the page size and returns to page 1.
func (v *View[R]) SetPageSize(n int) {
	v.apply(v.state.WithPageSize(n))
}

// NextPage advances one page; a no-op on the last page.
func (v *View[R]) NextPage() {
	if next, ok := v.nextState(); ok {
		v.apply(next)
	}
}

// PrevPage goes back one page; a no-op on page 1.
func (v *View[R]) PrevPage() {
	if prev, ok := v.prevState(); ok {
		v.apply(prev)
	}
}

// GoToPage jumps to page n. Pages below 1 are ignored; pages past the end
// are kept and render empty, like a stale shared URL.
func (v *View[R]) GoToPage(n int) {
	if n < 1 || n == v.state.Page {
		return
	}
	v.apply(v.state.WithPage(n))
}

// Open navigates to the detail route of r.
func (v *View[R]) Open(r R) {
	if v.nav != nil {
		v.nav.Push(v.cfg.DetailRoute(r))
	}
}

// FilterURL is the URL SelectFilter(key) would produce.
func (v *View[R]) FilterURL(key string) string {
	return v.codec.URL(v.state.WithFilter(key))
}

// SortURL is the URL SortBy(field) would produce.
func (v *View[R]) SortURL(field string) string {
	return v.codec.URL(v.state.WithSort(field))
}

// NextURL is the URL NextPage would produce; ok is false at the boundary.
func (v *View[R]) NextURL() (string, bool) {
	next, ok := v.nextState()
	return v.codec.URL(next), ok
}

// PrevURL is the URL PrevPage would produce; ok is false at the boundary.
func (v *View[R]) PrevURL() (string, bool) {
	prev, ok := v.prevState()
	return v.codec.URL(prev), ok
}

// PageURL is the URL GoToPage(n) would produce.
func (v *View[R]) PageURL(n int) string {
	return v.codec.URL(v.state.WithPage(max(1, n)))
}

func (v *View[R]) pages() int {
	sorted, _ := Select(v.cfg, v.records, v.state)
	return TotalPages(len(sorted), v.state.PageSize)
}

func (v *View[R]) nextState() (ViewState, bool) {
	pages := v.pages()
	if v.state.Page >= pages {
		return v.state, false
	}
	return v.state.WithPage(v.state.Page + 1), true
}

// prevState clamps a stale page beyond the end back onto the last page.
func (v *View[R]) prevState() (ViewState, bool) {
	if v.state.Page <= 1 {
		return v.state, false
	}
	return v.state.WithPage(max(1, min(v.state.Page-1, v.pages()))), true
}

func (v *View[R]) apply(s ViewState) {
	v.state = s
	v.sync()
}

func (v *View[R]) sync() {
	if v.phase != Ready || v.nav == nil {
		return
	}
	v.nav.Replace(v.codec.URL(v.state))
}
