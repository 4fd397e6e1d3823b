package apartments

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MinLimit     = 1
	MaxLimit     = 100
)

// Window is a clamped page/limit pair.
type Window struct {
	Page  int
	Limit int
}

// PageMeta describes a page of results relative to the total.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewWindow clamps raw inputs; zero means the value was not supplied.
// Pages past the end are allowed and yield empty results.
func NewWindow(page, limit int) Window {
	if page < DefaultPage {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Window{Page: page, Limit: limit}
}

// Skip is the number of records before the window. It saturates at
// math.MaxInt64 for pages too large to address.
func (w Window) Skip() int64 {
	pages, limit := int64(w.Page-1), int64(w.Limit)
	if pages <= 0 || limit <= 0 {
		return 0
	}
	if pages > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return pages * limit
}

func (w Window) Meta(total int64) PageMeta {
	var totalPages int
	if total > 0 && w.Limit > 0 {
		totalPages = int((total + int64(w.Limit) - 1) / int64(w.Limit))
	}
	return PageMeta{
		Page:       w.Page,
		Limit:      w.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    w.Page < totalPages,
		HasPrev:    w.Page > 1,
	}
}
