package shared

// Page size limits for list pages
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is the result of clamping a requested page against a result count.
// Offset and End delimit the page's items in the full list.
type Page struct {
	Number     int
	Size       int
	Total      int
	TotalPages int
	Offset     int
	End        int
	HasPrev    bool
	HasNext    bool
}

// Paginate computes the page for total items. The page number is clamped
// into [1, TotalPages] and TotalPages is at least 1, so an empty list still
// renders as page 1 of 1.
func Paginate(total, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if total < 0 {
		total = 0
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	offset := (page - 1) * pageSize
	end := min(offset+pageSize, total)

	return Page{
		Number:     page,
		Size:       pageSize,
		Total:      total,
		TotalPages: totalPages,
		Offset:     offset,
		End:        end,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

// Window returns up to width page numbers centred on current
func Window(current, totalPages, width int) []int {
	if totalPages < 1 {
		return nil
	}
	if width <= 0 || width > totalPages {
		width = totalPages
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start := current - width/2
	if start < 1 {
		start = 1
	}
	if start+width-1 > totalPages {
		start = totalPages - width + 1
	}

	pages := make([]int, width)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}

// Slice returns the items that fall on page
func Slice[T any](items []T, page Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	end := min(page.End, len(items))
	return items[page.Offset:end]
}
