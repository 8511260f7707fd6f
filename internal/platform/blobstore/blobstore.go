// Package blobstore stores uploaded form templates. It defines the Store
// interface, an in-memory implementation for development and tests, a
// PostgreSQL implementation, and Echo handlers for upload, listing,
// download and deletion.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrNotPDF           = errors.New("content is not a PDF document")
	ErrMissingDocType   = errors.New("document type is required")
)

// DefaultMaxSize is the upload cap used when a store is built with size 0.
const DefaultMaxSize = 20 * 1024 * 1024

var pdfMagic = []byte("%PDF-")

// ---------------------------------------------------------------------------
// Domain types
// ---------------------------------------------------------------------------

// TemplateInfo describes a stored template. There is at most one template
// per document type; a new upload replaces the previous one.
type TemplateInfo struct {
	ID         string    `json:"id"`
	DocType    string    `json:"doc_type"`
	FileName   string    `json:"file_name"`
	Size       int64     `json:"size"`
	Hash       string    `json:"hash"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
}

// Store defines the contract for template storage backends.
type Store interface {
	Put(ctx context.Context, info TemplateInfo, content io.Reader) (*TemplateInfo, error)
	Get(ctx context.Context, docType string) ([]byte, *TemplateInfo, error)
	List(ctx context.Context) ([]*TemplateInfo, error)
	Delete(ctx context.Context, docType string) error
}

// readTemplate enforces the size cap and the PDF header, and fills in the
// derived metadata.
func readTemplate(info TemplateInfo, content io.Reader, maxSize int64) ([]byte, TemplateInfo, error) {
	if info.DocType == "" {
		return nil, info, ErrMissingDocType
	}
	data, err := io.ReadAll(io.LimitReader(content, maxSize+1))
	if err != nil {
		return nil, info, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, info, ErrFileTooLarge
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, info, ErrNotPDF
	}

	h := sha256.Sum256(data)
	info.ID = uuid.New().String()
	info.Size = int64(len(data))
	info.Hash = fmt.Sprintf("%x", h)
	info.UploadedAt = time.Now().UTC()
	if info.FileName == "" {
		info.FileName = info.DocType + ".pdf"
	}
	return data, info, nil
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

type storedTemplate struct {
	info    TemplateInfo
	content []byte
}

// MemoryStore is a thread-safe, in-memory Store.
type MemoryStore struct {
	mu        sync.RWMutex
	maxSize   int64
	templates map[string]*storedTemplate
}

// NewMemoryStore returns a ready-to-use MemoryStore. A maxSize of 0 selects
// DefaultMaxSize.
func NewMemoryStore(maxSize int64) *MemoryStore {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &MemoryStore{
		maxSize:   maxSize,
		templates: make(map[string]*storedTemplate),
	}
}

// Put validates and stores a template, replacing any previous upload for
// the same document type.
func (s *MemoryStore) Put(_ context.Context, info TemplateInfo, content io.Reader) (*TemplateInfo, error) {
	data, info, err := readTemplate(info, content, s.maxSize)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.templates[info.DocType] = &storedTemplate{info: info, content: data}
	s.mu.Unlock()

	out := info // copy
	return &out, nil
}

// Get returns a copy of the stored bytes and metadata.
func (s *MemoryStore) Get(_ context.Context, docType string) ([]byte, *TemplateInfo, error) {
	s.mu.RLock()
	t, ok := s.templates[docType]
	s.mu.RUnlock()

	if !ok {
		return nil, nil, ErrTemplateNotFound
	}

	info := t.info // copy
	return bytes.Clone(t.content), &info, nil
}

// List returns metadata for every stored template, ordered by document type.
func (s *MemoryStore) List(_ context.Context) ([]*TemplateInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*TemplateInfo, 0, len(s.templates))
	for _, t := range s.templates {
		info := t.info // copy
		out = append(out, &info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocType < out[j].DocType })
	return out, nil
}

// Delete removes the template for a document type.
func (s *MemoryStore) Delete(_ context.Context, docType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[docType]; !ok {
		return ErrTemplateNotFound
	}
	delete(s.templates, docType)
	return nil
}
