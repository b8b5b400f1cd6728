package view

import (
	"errors"

	"github.com/facturaec/dashboard/internal/domain/shared"
)

// Form is an edit or create form
type Form struct {
	Title     string
	Action    string
	Submit    string
	Cancel    string
	Multipart bool
	Error     string
	Fields    []Field
	Lines     *Lines
	Preview   *Preview
	Aside     *Detail
}

// Field is one form input. Type is an HTML input type plus "select",
// "textarea" and "checkbox".
type Field struct {
	Name        string
	Label       string
	Type        string
	Value       string
	Checked     bool
	Options     []Option
	Required    bool
	Placeholder string
	Help        string
	Min         string
	Max         string
	Step        string
	MaxLength   int
	Pattern     string
	Error       string
	Width       string
}

// Option is a select choice
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Lines is a repeatable group of inputs such as purchase or withholding
// lines. Each row holds the fields of one line named Name.N.field.
type Lines struct {
	Name    string
	Label   string
	Error   string
	Columns []string
	Rows    [][]Field
	AddRow  bool
}

// Preview is a display-only computed value (subtotal, withheld total)
type Preview struct {
	Label   string
	Value   string
	Formula string
}

// Options builds select options marking value as selected
func Options(value string, pairs ...string) []Option {
	out := make([]Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Option{Value: pairs[i], Label: pairs[i+1], Selected: pairs[i] == value})
	}
	return out
}

// Select marks the option matching value
func Select(options []Option, value string) []Option {
	out := make([]Option, len(options))
	for i, o := range options {
		o.Selected = o.Value == value
		out[i] = o
	}
	return out
}

// Field returns the field named name, nil when absent
func (f *Form) Field(name string) *Field {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			return &f.Fields[i]
		}
	}
	return nil
}

// ApplyError copies a failed submission's messages onto the form: per-field
// messages go to their inputs and the rest become the form error.
func (f *Form) ApplyError(err error) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		f.Error = "No se pudo guardar, intente nuevamente"
		return
	}
	f.Error = de.Message
	for name, msg := range de.Fields {
		if field := f.Field(name); field != nil {
			field.Error = msg
			continue
		}
		if f.Lines != nil && f.Lines.apply(name, msg) {
			continue
		}
		if name == "_form" {
			f.Error = msg
		}
	}
}

func (l *Lines) apply(name, msg string) bool {
	if name == l.Name {
		l.Error = msg
		return true
	}
	for _, row := range l.Rows {
		for i := range row {
			if row[i].Name == name {
				row[i].Error = msg
				return true
			}
		}
	}
	return false
}

// HasErrors reports whether any field or line carries a message
func (f *Form) HasErrors() bool {
	if f.Error != "" {
		return true
	}
	for _, field := range f.Fields {
		if field.Error != "" {
			return true
		}
	}
	return false
}
