// Package templates acquires form template bytes from the local filesystem,
// over HTTP, or from the runtime template store. Every failure matches
// formfill.ErrTemplateFetchFailed.
package templates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ehr/formfill/internal/formfill"
	"github.com/ehr/formfill/internal/platform/blobstore"
)

// DefaultMaxBytes caps template size when no limit is configured.
const DefaultMaxBytes = 20 * 1024 * 1024

// Source fetches template bytes from a location it understands.
type Source interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

func fetchFailed(location string, err error) error {
	return fmt.Errorf("%w: %s: %w", formfill.ErrTemplateFetchFailed, location, err)
}

func maxOrDefault(n int64) int64 {
	if n <= 0 {
		return DefaultMaxBytes
	}
	return n
}

// IsURL reports whether location names an http or https resource.
func IsURL(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

// FileSource reads templates from disk. Relative locations are resolved
// against Dir.
type FileSource struct {
	Dir      string
	MaxBytes int64
}

func (s FileSource) path(location string) string {
	if filepath.IsAbs(location) || s.Dir == "" {
		return location
	}
	return filepath.Join(s.Dir, location)
}

// Fetch reads the file at location.
func (s FileSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fetchFailed(location, err)
	}
	p := s.path(location)
	fi, err := os.Stat(p)
	if err != nil {
		return nil, fetchFailed(p, err)
	}
	if fi.IsDir() {
		return nil, fetchFailed(p, errors.New("is a directory"))
	}
	if fi.Size() > maxOrDefault(s.MaxBytes) {
		return nil, fetchFailed(p, fmt.Errorf("size %d exceeds limit", fi.Size()))
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fetchFailed(p, err)
	}
	return data, nil
}

// ---------------------------------------------------------------------------
// HTTP
// ---------------------------------------------------------------------------

// HTTPConfig configures an HTTPSource.
type HTTPConfig struct {
	Timeout  time.Duration
	Retries  int
	MaxBytes int64
}

// HTTPSource downloads templates with a resty client.
type HTTPSource struct {
	client   *resty.Client
	maxBytes int64
}

// NewHTTPSource builds an HTTPSource. Retries default to zero.
func NewHTTPSource(cfg HTTPConfig) *HTTPSource {
	client := resty.New().
		SetRetryCount(cfg.Retries).
		SetHeader("Accept", "application/pdf, */*")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &HTTPSource{client: client, maxBytes: maxOrDefault(cfg.MaxBytes)}
}

// Fetch GETs location. Any non-2xx status is a failure. The body is read
// through a limit, so an oversized template is never held in memory whole.
func (s *HTTPSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	resp, err := s.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(location)
	if err != nil {
		return nil, fetchFailed(location, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return nil, fetchFailed(location, fmt.Errorf("status %d", resp.StatusCode()))
	}
	if n := resp.RawResponse.ContentLength; n > s.maxBytes {
		return nil, fetchFailed(location, fmt.Errorf("size %d exceeds limit", n))
	}
	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, fetchFailed(location, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fetchFailed(location, fmt.Errorf("body exceeds limit of %d bytes", s.maxBytes))
	}
	return data, nil
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// StoreSource reads uploaded templates. The location is the document type.
type StoreSource struct {
	Store blobstore.Store
}

// Fetch loads the template stored for a document type.
func (s StoreSource) Fetch(ctx context.Context, docType string) ([]byte, error) {
	data, _, err := s.Store.Get(ctx, docType)
	if err != nil {
		return nil, fetchFailed("store:"+docType, err)
	}
	return data, nil
}
