package view

import (
	"net/url"
	"strconv"

	"github.com/facturaec/dashboard/internal/domain/shared"
)

// pagerWidth is how many page numbers are shown around the current page
const pagerWidth = 5

// Pager renders the page links under a table
type Pager struct {
	Page     shared.Page
	Links    []PageLink
	PrevHref string
	NextHref string
	From     int
	To       int
}

// PageLink is one numbered page link
type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// NewPager builds the links for page. query holds the other list
// parameters (search, filters) so they survive page changes.
func NewPager(page shared.Page, path string, query map[string]string) *Pager {
	p := &Pager{Page: page, To: page.End}
	if page.Total > 0 {
		p.From = page.Offset + 1
	}
	for _, n := range shared.Window(page.Number, page.TotalPages, pagerWidth) {
		p.Links = append(p.Links, PageLink{
			Number:  n,
			Href:    PageHref(path, query, n),
			Current: n == page.Number,
		})
	}
	if page.HasPrev {
		p.PrevHref = PageHref(path, query, page.Number-1)
	}
	if page.HasNext {
		p.NextHref = PageHref(path, query, page.Number+1)
	}
	return p
}

// PageHref returns path with query and the page number encoded. Empty
// values are dropped and page 1 is implicit.
func PageHref(path string, query map[string]string, page int) string {
	values := url.Values{}
	for k, v := range query {
		if v != "" && k != "page" {
			values.Set(k, v)
		}
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}
