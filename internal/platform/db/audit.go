package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/formfill/internal/platform/middleware"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

var _ execer = (*pgxpool.Pool)(nil)

// AuditLog writes document access entries to the document_audit table.
type AuditLog struct {
	db      execer
	timeout time.Duration
}

// NewAuditLog returns a middleware.AuditRecorder backed by pool.
func NewAuditLog(pool *pgxpool.Pool) *AuditLog {
	return &AuditLog{db: pool, timeout: 3 * time.Second}
}

// RecordAccess inserts one audit row. It runs after the response is written,
// so it uses its own deadline rather than the request context.
func (a *AuditLog) RecordAccess(entry middleware.AuditEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	roles := entry.UserRoles
	if roles == nil {
		roles = []string{}
	}
	_, err := a.db.Exec(ctx, `
		INSERT INTO document_audit
			(request_id, user_id, user_roles, action, doc_type, method, path, ip_address, user_agent, status_code, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		entry.RequestID, entry.UserID, roles, entry.Action, entry.DocType,
		entry.Method, entry.Path, entry.IPAddress, entry.UserAgent, entry.StatusCode, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
