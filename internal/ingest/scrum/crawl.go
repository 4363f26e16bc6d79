package scrum

import "sort"

// Category is one independently paginated search result category.
// The numeric values are the statsguru home_or_away query codes.
type Category int

const (
	CategoryHome    Category = 1
	CategoryNeutral Category = 3
)

func (c Category) String() string {
	switch c {
	case CategoryHome:
		return "home"
	case CategoryNeutral:
		return "neutral"
	}
	return "unknown"
}

// DefaultCategories is the full harvest: home and neutral matches.
var DefaultCategories = []Category{CategoryHome, CategoryNeutral}

// CrawlState tracks which categories are still being paginated and the
// next page to request for each. It is an immutable value: every
// transition returns the successor state, which keeps replays in tests
// deterministic. The active set only shrinks and page numbers only grow.
type CrawlState struct {
	pages map[Category]int
}

// NewCrawlState starts every given category at page 1.
func NewCrawlState(categories ...Category) CrawlState {
	pages := make(map[Category]int, len(categories))
	for _, c := range categories {
		pages[c] = 1
	}
	return CrawlState{pages: pages}
}

// Active returns the categories still being paginated, in stable order.
func (s CrawlState) Active() []Category {
	active := make([]Category, 0, len(s.pages))
	for c := range s.pages {
		active = append(active, c)
	}
	sort.Slice(active, func(i, j int) bool { return active[i] < active[j] })
	return active
}

// IsActive reports whether the category still has pages to fetch.
func (s CrawlState) IsActive(c Category) bool {
	_, ok := s.pages[c]
	return ok
}

// Page returns the next page number to request for an active category,
// or 0 for a completed one.
func (s CrawlState) Page(c Category) int {
	return s.pages[c]
}

// Advance moves an active category to its next page.
func (s CrawlState) Advance(c Category) CrawlState {
	if _, ok := s.pages[c]; !ok {
		return s
	}
	next := s.clone()
	next.pages[c]++
	return next
}

// Complete removes a category from the active set permanently. This is
// the transition taken on a "No records" page; there is no re-activation.
func (s CrawlState) Complete(c Category) CrawlState {
	if _, ok := s.pages[c]; !ok {
		return s
	}
	next := s.clone()
	delete(next.pages, c)
	return next
}

// Done reports the global terminal state: nothing left to paginate.
func (s CrawlState) Done() bool {
	return len(s.pages) == 0
}

func (s CrawlState) clone() CrawlState {
	pages := make(map[Category]int, len(s.pages))
	for c, p := range s.pages {
		pages[c] = p
	}
	return CrawlState{pages: pages}
}
