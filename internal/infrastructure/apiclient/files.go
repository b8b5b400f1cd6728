package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/facturaec/dashboard/internal/domain/shared"
)

// Download fetches a binary artifact. Error responses still arrive as JSON envelopes.
func (c *Client) Download(ctx context.Context, p string, query url.Values) (*shared.File, error) {
	resp, err := c.do(ctx, c.downloadClient, c.maxDownload, http.MethodGet, p, query, nil, "")
	if err != nil {
		return nil, err
	}
	if resp.status >= 300 {
		_, err := decodeResponse(resp.status, resp.body, nil)
		return nil, err
	}

	contentType := resp.header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := Filename(resp.header.Get("Content-Disposition"))
	if name == "" {
		name = path.Base(strings.TrimRight(p, "/"))
	}

	return &shared.File{Name: name, ContentType: contentType, Data: resp.body}, nil
}

// Upload sends fields plus one file as multipart/form-data
func (c *Client) Upload(ctx context.Context, p string, fields map[string]string, file shared.Upload, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("apiclient: write field %s: %w", k, err)
		}
	}
	if file.Reader != nil {
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return fmt.Errorf("apiclient: create form file: %w", err)
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return fmt.Errorf("apiclient: read upload: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("apiclient: close multipart body: %w", err)
	}

	resp, err := c.do(ctx, c.downloadClient, c.maxResponse, http.MethodPost, p, nil, &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	_, err = decodeResponse(resp.status, resp.body, out)
	return err
}

// Filename extracts the file name from a Content-Disposition header,
// preferring the RFC 5987 filename* form. Directory components are dropped.
func Filename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	name := params["filename"]
	if name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
