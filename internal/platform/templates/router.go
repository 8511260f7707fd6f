package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ehr/formfill/internal/formfill"
	"github.com/ehr/formfill/internal/platform/blobstore"
)

// Router picks the template for a document type. An upload in Store wins;
// otherwise the configured location is read from disk or over HTTP.
type Router struct {
	Store     blobstore.Store
	Locations map[string]string
	Files     FileSource
	HTTP      *HTTPSource
	Logger    zerolog.Logger
}

// Location returns the configured path or URL for a document type.
func (r *Router) Location(docType string) (string, bool) {
	loc, ok := r.Locations[docType]
	return loc, ok && loc != ""
}

// Load returns the template bytes for docType.
func (r *Router) Load(ctx context.Context, docType string) ([]byte, error) {
	if r.Store != nil {
		data, err := StoreSource{Store: r.Store}.Fetch(ctx, docType)
		switch {
		case err == nil:
			r.Logger.Debug().Str("doc_type", docType).Str("source", "store").Msg("template loaded")
			return data, nil
		case !errors.Is(err, blobstore.ErrTemplateNotFound):
			return nil, err
		}
	}

	loc, ok := r.Location(docType)
	if !ok {
		return nil, fmt.Errorf("%w: no template configured for %s", formfill.ErrTemplateFetchFailed, docType)
	}
	data, err := r.Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug().Str("doc_type", docType).Str("source", loc).Msg("template loaded")
	return data, nil
}

// Fetch reads a location directly, choosing HTTP for URLs and the
// filesystem otherwise.
func (r *Router) Fetch(ctx context.Context, location string) ([]byte, error) {
	if IsURL(location) {
		if r.HTTP == nil {
			return nil, fmt.Errorf("%w: %s: http source not configured", formfill.ErrTemplateFetchFailed, location)
		}
		return r.HTTP.Fetch(ctx, location)
	}
	return r.Files.Fetch(ctx, location)
}
