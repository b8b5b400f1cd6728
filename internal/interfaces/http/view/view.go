// Package view holds the models the HTML templates render. Handlers build
// these from domain values; templates never see domain types directly.
package view

import (
	"github.com/facturaec/dashboard/internal/domain/identity"
	"github.com/facturaec/dashboard/internal/infrastructure/session"
)

// Layout names understood by the template set
const (
	LayoutApp    = "app"
	LayoutPublic = "public"
)

// Page is the root value passed to a layout
type Page struct {
	Title     string
	Tenant    string
	User      *identity.User
	Nav       []NavItem
	Flashes   []Flash
	RequestID string

	Table  *Table
	Form   *Form
	Detail *Detail
	Error  *ErrorView

	// Page-specific blocks
	Home    *Home
	Reporte *Reporte
	Login   *Login
	Landing *Landing
	Estado  *EstadoPoll
}

// Flash is an inline success or error message
type Flash struct {
	Kind    string
	Message string
}

// Flashes converts queued session messages
func Flashes(in []session.Flash) []Flash {
	out := make([]Flash, 0, len(in))
	for _, f := range in {
		out = append(out, Flash{Kind: string(f.Kind), Message: f.Message})
	}
	return out
}

// Tone returns the alert styling for the flash kind
func (f Flash) Tone() string {
	switch f.Kind {
	case string(session.FlashSuccess):
		return "success"
	case string(session.FlashError):
		return "danger"
	default:
		return "info"
	}
}

// ErrorView is the content of the error page
type ErrorView struct {
	Status    int
	Code      string
	Message   string
	RetryHref string
}

// Login is the sign-in form
type Login struct {
	Email string
	Next  string
	Error string
}

// Landing is the public site shown on the base domain
type Landing struct {
	AppName    string
	BaseDomain string
}

// EstadoPoll drives the status polling script on a document page
type EstadoPoll struct {
	URL        string
	IntervalMS int64
	Final      bool
}
