package shared

import (
	"context"
	"io"
	"net/url"
)

// Gateway is the backend REST API as seen by application services.
// Paths are relative to the API prefix, e.g. "/productos/12".
type Gateway interface {
	Get(ctx context.Context, path string, query url.Values, out any) (*Meta, error)
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
	Download(ctx context.Context, path string, query url.Values) (*File, error)
	Upload(ctx context.Context, path string, fields map[string]string, file Upload, out any) error
}

// Meta is the pagination block the backend attaches to list responses
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// File is a downloaded artifact (XML, PDF, spreadsheet)
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Upload describes one file sent as multipart form data
type Upload struct {
	Field    string
	Filename string
	Reader   io.Reader
}

// Common content types for downloaded artifacts
const (
	ContentTypeXML  = "application/xml"
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
