// Package sri holds the format rules of Ecuador's tax authority (Servicio de
// Rentas Internas) that the dashboard checks before a form reaches the
// backend: taxpayer identification numbers, access keys, document numbers,
// fiscal periods, document states and VAT rate codes.
//
// These checks are a convenience for the user. The backend stays
// authoritative for every rule.
package sri
