package shared

import (
	"bytes"
	"strings"
	"time"
)

// DateLayout is the calendar date format used in forms and query strings
const DateLayout = "2006-01-02"

// Date is a timestamp decoded leniently from the backend, which sends either
// RFC 3339 timestamps or plain calendar dates
type Date struct {
	time.Time
}

// NewDate wraps t
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// ParseDate parses a form or query value in DateLayout
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// UnmarshalJSON accepts RFC 3339, RFC 3339 without zone, a calendar date or null
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return NewDomainError(CodeInvalidInput, "fecha inválida: "+s)
}

// MarshalJSON writes the zero date as null
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(time.RFC3339) + `"`), nil
}

// DateString formats the date for a form input, empty when unset
func (d Date) DateString() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}
