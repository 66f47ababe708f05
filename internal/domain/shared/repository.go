package shared

import (
	"strings"
	"time"
)

const (
	// DefaultPageSize is used when a caller does not ask for a page size
	DefaultPageSize = 20
	// MaxPageSize caps the page size of every search
	MaxPageSize = 100
)

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Normalize applies paging defaults and bounds in place and returns the filter
func (f Filter) Normalize() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if f.Filters == nil {
		f.Filters = make(map[string]interface{})
	}
	return f
}

// Offset returns the number of rows to skip for the current page
func (f Filter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// With sets a filter key when the value is present and returns the filter.
// Nil pointers, empty strings and zero times are skipped.
func (f Filter) With(key string, value any) Filter {
	if f.Filters == nil {
		f.Filters = make(map[string]interface{})
	}
	switch v := value.(type) {
	case nil:
		return f
	case string:
		if v == "" {
			return f
		}
	case *string:
		if v == nil || *v == "" {
			return f
		}
		value = *v
	case *bool:
		if v == nil {
			return f
		}
		value = *v
	case *int:
		if v == nil {
			return f
		}
		value = *v
	case *time.Time:
		if v == nil || v.IsZero() {
			return f
		}
		value = *v
	case time.Time:
		if v.IsZero() {
			return f
		}
	}
	f.Filters[key] = value
	return f
}

// DateRange is an optional closed interval used by search filters
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsEmpty reports whether neither bound is set
func (r DateRange) IsEmpty() bool {
	return r.From == nil && r.To == nil
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// PageRequest is the paging and keyword part of a search request body
type PageRequest struct {
	Keyword  string `json:"keyword" binding:"max=200"`
	Page     int    `json:"page" binding:"omitempty,min=1"`
	PageSize int    `json:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `json:"order_by" binding:"omitempty,max=64"`
	OrderDir string `json:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToFilter converts the request into a normalized Filter
func (p PageRequest) ToFilter() Filter {
	return Filter{
		Page:     p.Page,
		PageSize: p.PageSize,
		OrderBy:  p.OrderBy,
		OrderDir: p.OrderDir,
		Search:   strings.TrimSpace(p.Keyword),
	}.Normalize()
}
