package billing

import (
	"context"
	"errors"
	"net/url"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/facturaec/dashboard/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// Formato is a downloadable artifact of an electronic document
type Formato string

const (
	FormatoXML Formato = "xml"
	FormatoPDF Formato = "pdf"
)

// ParseFormato accepts "xml" or "pdf"
func ParseFormato(s string) (Formato, bool) {
	switch Formato(s) {
	case FormatoXML, FormatoPDF:
		return Formato(s), true
	}
	return "", false
}

// artifacts downloads the XML and PDF of one document kind. When authorized
// is set, artifacts of authorized documents are kept in the archive and later
// downloads are served from it.
type artifacts struct {
	gateway    shared.Gateway
	archive    storage.Archive
	resource   string
	authorized func(ctx context.Context, id shared.ID) (bool, error)
}

func (a *artifacts) download(ctx context.Context, tenant string, id shared.ID, formato Formato) (*shared.File, error) {
	if _, ok := ParseFormato(string(formato)); !ok {
		return nil, shared.ErrNotFound
	}

	key := storage.Key(tenant, a.resource, id.String(), string(formato))
	archivable := a.archive != nil && a.authorized != nil && tenant != ""
	if archivable {
		file, err := a.archive.Get(ctx, key)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, storage.ErrNotArchived) {
			logger.L(ctx).Warn("Archive read failed", zap.String("key", key), zap.Error(err))
		}
	}

	file, err := a.gateway.Download(ctx, "/"+a.resource+"/"+url.PathEscape(id.String())+"/"+string(formato), nil)
	if err != nil {
		return nil, err
	}

	if archivable {
		a.store(ctx, key, id, file)
	}
	return file, nil
}

// store archives the file if the document is authorized. Failures only cost
// a later backend round trip, so they are logged and swallowed.
func (a *artifacts) store(ctx context.Context, key string, id shared.ID, file *shared.File) {
	ok, err := a.authorized(ctx, id)
	if err != nil {
		logger.L(ctx).Warn("Could not check document status for archiving", zap.String("key", key), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if err := a.archive.Put(ctx, key, file); err != nil {
		logger.L(ctx).Warn("Archive write failed", zap.String("key", key), zap.Error(err))
	}
}
