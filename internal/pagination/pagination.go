// Package pagination slices ordered, already-filtered result sets into
// pages and carries the count metadata callers surface alongside the
// items. Filtering and ordering must happen before slicing or the
// metadata stops matching what the caller displayed.
package pagination

const (
	// DefaultPageSize is used when the caller does not specify a size.
	DefaultPageSize = 10
	// MaxPageSize caps the requested size.
	MaxPageSize = 50
)

// Params carries a requested page number and size.
type Params struct {
	PageNumber int
	PageSize   int
}

// Normalize clamps the parameters to valid values: page numbers start
// at 1, sizes fall back to the default and cap at MaxPageSize.
func (p Params) Normalize() Params {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for SQL LIMIT/OFFSET queries.
func (p Params) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// Page is one page of items plus the metadata describing the full set.
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"itemsPerPage"`
	TotalCount  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
}

// New wraps items already sliced to a single page (e.g. by a SQL
// LIMIT/OFFSET query) together with the total count of the full set.
func New[T any](items []T, totalCount int, params Params) Page[T] {
	params = params.Normalize()
	return Page[T]{
		Items:       items,
		CurrentPage: params.PageNumber,
		PageSize:    params.PageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages(totalCount, params.PageSize),
	}
}

// Paginate slices an in-memory ordered result set. A page past the end
// yields an empty page with the metadata intact.
func Paginate[T any](items []T, params Params) Page[T] {
	params = params.Normalize()
	total := len(items)

	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	return New(items[start:end], total, params)
}

func totalPages(totalCount, pageSize int) int {
	if totalCount <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
