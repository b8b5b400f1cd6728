package shared

import "strings"

// ListQuery is what a list page asks for: a search term and a page
type ListQuery struct {
	Search   string
	Page     int
	PageSize int
}

// ListResult is one page of a searched list
type ListResult[T any] struct {
	Items  []T
	Page   Page
	Search string
}

// List filters items by the query's search term and cuts out the requested page
func List[T any](items []T, q ListQuery, fields func(T) []string) ListResult[T] {
	matched := Filter(items, q.Search, fields)
	page := Paginate(len(matched), q.Page, q.PageSize)
	return ListResult[T]{
		Items:  Slice(matched, page),
		Page:   page,
		Search: strings.TrimSpace(q.Search),
	}
}
