package view

import "github.com/facturaec/dashboard/internal/domain/shared"

// Table is a searchable, paginated list
type Table struct {
	Title       string
	Columns     []Column
	Rows        []Row
	Empty       string
	Search      string
	SearchHint  string
	SearchPath  string
	Filters     []Filter
	Pager       *Pager
	Actions     []Action
	Description string
}

// Column is a table header
type Column struct {
	Label string
	Align string
}

// Row is one table row with optional per-row actions
type Row struct {
	Cells   []Cell
	Actions []Action
}

// Cell is one rendered value. Tone renders the text as a badge.
type Cell struct {
	Text  string
	Href  string
	Tone  string
	Mono  bool
	Align string
}

// Action is a link or a POST button. Confirm asks before submitting.
type Action struct {
	Label   string
	Href    string
	Method  string
	Confirm string
	Tone    string
}

// IsPost reports whether the action submits a form
func (a Action) IsPost() bool {
	return a.Method == "post"
}

// Filter is a select in the table toolbar
type Filter struct {
	Name    string
	Label   string
	Value   string
	Type    string
	Options []Option
}

// Text is a plain cell
func Text(s string) Cell {
	return Cell{Text: s}
}

// Link is a cell linking to href
func Link(s, href string) Cell {
	return Cell{Text: s, Href: href}
}

// Badge is a cell rendered as a coloured badge
func Badge(s, tone string) Cell {
	return Cell{Text: s, Tone: tone}
}

// Number is a right-aligned cell
func Number(s string) Cell {
	return Cell{Text: s, Align: "right"}
}

// Mono is a cell in a monospace font, for access keys and document numbers
func Mono(s string) Cell {
	return Cell{Text: s, Mono: true}
}

// NewTable creates a table for a list result. path and query build the
// search form and page links.
func NewTable[T any](title, path string, query map[string]string, result shared.ListResult[T], columns []Column, row func(T) Row) *Table {
	rows := make([]Row, 0, len(result.Items))
	for _, item := range result.Items {
		rows = append(rows, row(item))
	}
	return &Table{
		Title:      title,
		Columns:    columns,
		Rows:       rows,
		Empty:      "No hay registros",
		Search:     result.Search,
		SearchPath: path,
		Pager:      NewPager(result.Page, path, query),
	}
}
