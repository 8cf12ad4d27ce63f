package pagination

// DefaultPageSize matches the admin dashboard grid.
const DefaultPageSize = 12

// Page describes one slice of a filtered result set.
type Page struct {
	Number     int `json:"page"`
	Size       int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Params are the raw paging inputs from a request.
type Params struct {
	Page int
	Size int
}

// Normalize clamps the params against the total item count. Page numbers are
// 1-based; a page past the end clamps to the last non-empty page, and an
// empty result set still reports page 1 of 1.
func (p Params) Normalize(totalItems int) Page {
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := 1
	if totalItems > 0 {
		totalPages = (totalItems + size - 1) / size
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Page{
		Number:     page,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Bounds returns the half-open [start, end) slice indexes for the page.
func (p Page) Bounds() (int, int) {
	start := (p.Number - 1) * p.Size
	if start > p.TotalItems {
		start = p.TotalItems
	}
	end := start + p.Size
	if end > p.TotalItems {
		end = p.TotalItems
	}
	return start, end
}
