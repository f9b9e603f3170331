package shared

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Filter is the list query handed to repositories. Attrs holds exact-match
// column filters; repositories read only the keys they understand.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Attrs    map[string]string
}

// DefaultFilter lists the newest rows first, one default page at a time
func DefaultFilter() Filter {
	return Filter{Page: 1, PageSize: defaultPageSize, OrderBy: "created_at", OrderDir: "desc"}
}

// Where returns a copy of f with key = value added. Empty values are
// dropped so an absent query parameter does not filter.
func (f Filter) Where(key, value string) Filter {
	if value == "" {
		return f
	}
	attrs := make(map[string]string, len(f.Attrs)+1)
	for k, v := range f.Attrs {
		attrs[k] = v
	}
	attrs[key] = value
	f.Attrs = attrs
	return f
}

// Attr returns the exact-match value for key, or ""
func (f Filter) Attr(key string) string {
	return f.Attrs[key]
}

func (f Filter) PageNumber() int {
	return max(f.Page, 1)
}

func (f Filter) Limit() int {
	if f.PageSize < 1 {
		return defaultPageSize
	}
	return min(f.PageSize, maxPageSize)
}

func (f Filter) Offset() int {
	return (f.PageNumber() - 1) * f.Limit()
}

// Paginated is one page of a list result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	size := max(pageSize, 1)
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}
}
