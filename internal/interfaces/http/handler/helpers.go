package handler

import (
	"strconv"
	"strings"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/facturaec/dashboard/internal/interfaces/web"
	"github.com/shopspring/decimal"
)

// toDecimal parses a bound form value. Binding has already checked the
// format, so blanks and leftovers read as zero.
func toDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// decimalValue renders a decimal back into a form input
func decimalValue(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func money(d decimal.Decimal) string {
	return web.Money(d)
}

func date(d shared.Date) string {
	return web.FormatDate(d)
}

func datetime(d shared.Date) string {
	return web.FormatDateTime(d)
}

func estadoCell(e sri.Estado) view.Cell {
	return view.Badge(e.Label(), e.Tone())
}

func siNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func activoCell(b bool) view.Cell {
	if b {
		return view.Badge("Activo", "success")
	}
	return view.Badge("Inactivo", "muted")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
