package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

var _ queryable = (*pgxpool.Pool)(nil)

// PGStore keeps templates in the form_template table.
type PGStore struct {
	db      queryable
	maxSize int64
}

// NewPGStore returns a Store backed by pool.
func NewPGStore(pool *pgxpool.Pool, maxSize int64) *PGStore {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &PGStore{db: pool, maxSize: maxSize}
}

const templateCols = `id, doc_type, file_name, size, hash, uploaded_at, uploaded_by`

func scanInfo(row pgx.Row, extra ...any) (*TemplateInfo, error) {
	var t TemplateInfo
	dest := append([]any{&t.ID, &t.DocType, &t.FileName, &t.Size, &t.Hash, &t.UploadedAt, &t.UploadedBy}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PGStore) Put(ctx context.Context, info TemplateInfo, content io.Reader) (*TemplateInfo, error) {
	data, info, err := readTemplate(info, content, s.maxSize)
	if err != nil {
		return nil, err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO form_template (id, doc_type, file_name, size, hash, uploaded_at, uploaded_by, content)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (doc_type) DO UPDATE SET
			id = EXCLUDED.id, file_name = EXCLUDED.file_name, size = EXCLUDED.size,
			hash = EXCLUDED.hash, uploaded_at = EXCLUDED.uploaded_at,
			uploaded_by = EXCLUDED.uploaded_by, content = EXCLUDED.content`,
		info.ID, info.DocType, info.FileName, info.Size, info.Hash, info.UploadedAt, info.UploadedBy, data)
	if err != nil {
		return nil, fmt.Errorf("store template %s: %w", info.DocType, err)
	}
	return &info, nil
}

func (s *PGStore) Get(ctx context.Context, docType string) ([]byte, *TemplateInfo, error) {
	var content []byte
	info, err := scanInfo(s.db.QueryRow(ctx,
		`SELECT `+templateCols+`, content FROM form_template WHERE doc_type = $1`, docType), &content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrTemplateNotFound
		}
		return nil, nil, fmt.Errorf("load template %s: %w", docType, err)
	}
	return content, info, nil
}

func (s *PGStore) List(ctx context.Context) ([]*TemplateInfo, error) {
	rows, err := s.db.Query(ctx, `SELECT `+templateCols+` FROM form_template ORDER BY doc_type`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	out := []*TemplateInfo{}
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *PGStore) Delete(ctx context.Context, docType string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM form_template WHERE doc_type = $1`, docType)
	if err != nil {
		return fmt.Errorf("delete template %s: %w", docType, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
