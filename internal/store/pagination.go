package store

// PageSize is the fixed number of items per listing page.
const PageSize = 12

// PageRequest selects one page of a listing. Pages are 1-based.
// Offset pagination is fine here: libraries are personal-scale and the
// mutation rate is low, so no cursor-stability guarantee is made.
type PageRequest struct {
	Page int
}

// Validate corrects out-of-range page numbers.
func (p *PageRequest) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
}

// Offset returns the row offset for this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * PageSize
}

// Page contains one page of results and paging metadata.
type Page[T any] struct {
	Items    []T  `json:"items"`
	PageNum  int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasMore  bool `json:"has_more"`
}

// NewPage builds a Page from a slice fetched with PageSize+1 rows.
// The extra row, if present, is trimmed and signals another page exists.
func NewPage[T any](items []T, req PageRequest) Page[T] {
	hasMore := false
	if len(items) > PageSize {
		items = items[:PageSize]
		hasMore = true
	}
	return Page[T]{
		Items:    items,
		PageNum:  req.Page,
		PageSize: PageSize,
		HasMore:  hasMore,
	}
}
