// Package pagination splits ordered result sets into fixed-size pages.
package pagination

// DefaultPageSize is the number of posts shown per feed page.
const DefaultPageSize = 10

// Page describes one page of a result set. Number is 1-based and always within [1, TotalPages].
type Page struct {
	Number      int   `json:"page"`
	Size        int   `json:"page_size"`
	TotalPages  int   `json:"num_pages"`
	TotalItems  int64 `json:"total"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// Offset is the number of items preceding this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Window computes the page for a requested number. Non-positive sizes fall back to
// DefaultPageSize. Requests below 1 clamp to the first page and requests past the end
// clamp to the last one. An empty result still reports a single (empty) page.
func Window(total int64, requested, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}

	n := requested
	if n < 1 {
		n = 1
	}
	if n > pages {
		n = pages
	}

	return Page{
		Number:      n,
		Size:        size,
		TotalPages:  pages,
		TotalItems:  total,
		HasNext:     n < pages,
		HasPrevious: n > 1,
	}
}

// Paginate returns the slice of items on the requested page along with its window.
func Paginate[T any](items []T, requested, size int) ([]T, Page) {
	page := Window(int64(len(items)), requested, size)
	start := page.Offset()
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	if start > end {
		start = end
	}
	return items[start:end], page
}
