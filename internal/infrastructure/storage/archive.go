// Package storage archives authorized SRI documents per tenant so repeat
// downloads are served without calling the backend.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"

	"github.com/facturaec/dashboard/internal/domain/shared"
)

// ErrNotArchived is returned when a document has not been archived yet
var ErrNotArchived = errors.New("document not archived")

// Archive stores document artifacts (XML, PDF)
type Archive interface {
	Get(ctx context.Context, key string) (*shared.File, error)
	Put(ctx context.Context, key string, file *shared.File) error
}

// Key builds the object key for a document artifact, e.g.
// "acme/facturas/42.xml". Every segment is reduced to its base name so a
// crafted ID cannot escape the tenant prefix.
func Key(tenant, kind, id, format string) string {
	clean := func(s string) string {
		s = path.Base(strings.TrimSpace(s))
		if s == "." || s == "/" || s == ".." {
			return "_"
		}
		return s
	}
	return clean(tenant) + "/" + clean(kind) + "/" + clean(id) + "." + clean(format)
}

// MemoryArchive keeps artifacts in process memory
type MemoryArchive struct {
	mu    sync.RWMutex
	files map[string]shared.File
}

// NewMemoryArchive creates an empty in-memory archive
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{files: make(map[string]shared.File)}
}

// Get returns a copy of the archived file
func (a *MemoryArchive) Get(_ context.Context, key string) (*shared.File, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.files[key]
	if !ok {
		return nil, ErrNotArchived
	}
	f.Data = append([]byte(nil), f.Data...)
	return &f, nil
}

// Put stores a copy of the file
func (a *MemoryArchive) Put(_ context.Context, key string, file *shared.File) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	f := *file
	f.Data = append([]byte(nil), file.Data...)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.files[key] = f
	return nil
}

// Len returns the number of archived files
func (a *MemoryArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.files)
}

// NoopArchive archives nothing; every download goes to the backend
type NoopArchive struct{}

// Get always reports the document as not archived
func (NoopArchive) Get(context.Context, string) (*shared.File, error) {
	return nil, ErrNotArchived
}

// Put discards the file
func (NoopArchive) Put(context.Context, string, *shared.File) error {
	return nil
}

var (
	_ Archive = (*MemoryArchive)(nil)
	_ Archive = NoopArchive{}
)
