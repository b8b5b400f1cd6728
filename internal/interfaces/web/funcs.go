package web

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Ecuador formats amounts in US dollars with Spanish separators
var printer = message.NewPrinter(language.MustParse("es-EC"))

// Funcs returns the template helpers
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":       Money,
		"num":         Num,
		"date":        FormatDate,
		"datetime":    FormatDateTime,
		"estadoBadge": EstadoBadge,
		"estadoLabel": func(e sri.Estado) string { return e.Label() },
		"upper":       strings.ToUpper,
		"add":         func(a, b int) int { return a + b },
		"year":        func() int { return time.Now().Year() },
	}
}

// Money formats an amount as dollars with two decimals, e.g. $12.345,50
func Money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	if f < 0 {
		return "-$" + printer.Sprint(number.Decimal(-f, number.Scale(2)))
	}
	return "$" + printer.Sprint(number.Decimal(f, number.Scale(2)))
}

// Num formats a quantity with up to the given number of decimals
func Num(d decimal.Decimal, places int32) string {
	f, _ := d.Round(places).Float64()
	return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(int(places))))
}

// FormatDate renders a date as dd/mm/yyyy, empty for the zero date
func FormatDate(v any) string {
	t, ok := asTime(v)
	if !ok || t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// FormatDateTime renders a timestamp as dd/mm/yyyy hh:mm
func FormatDateTime(v any) string {
	t, ok := asTime(v)
	if !ok || t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case shared.Date:
		return t.Time, true
	case *shared.Date:
		if t == nil {
			return time.Time{}, false
		}
		return t.Time, true
	default:
		return time.Time{}, false
	}
}

// EstadoBadge renders an SRI state as a coloured badge
func EstadoBadge(e sri.Estado) template.HTML {
	return template.HTML(fmt.Sprintf(`<span class="badge badge-%s">%s</span>`,
		e.Tone(), template.HTMLEscapeString(e.Label())))
}
