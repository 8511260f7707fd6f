package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/formfill/internal/platform/auth"
)

// Audit actions.
const (
	ActionGenerate = "generate"
	ActionInspect  = "inspect"
	ActionDownload = "download"
	ActionUpload   = "upload"
	ActionDelete   = "delete"
)

// AuditEntry records who touched which document type, and how.
type AuditEntry struct {
	UserID     string
	UserRoles  []string
	Action     string
	DocType    string
	IPAddress  string
	UserAgent  string
	Path       string
	Method     string
	Timestamp  time.Time
	RequestID  string
	StatusCode int
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit logs every request under /api/v1/documents and /api/v1/templates.
// Generated documents carry patient data, so each generation is recorded
// with the caller's identity. Entries are always written to logger and also
// handed to recorders when given.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			action, docType, ok := classify(req.Method, req.URL.Path)
			if !ok {
				return next(c)
			}

			err := next(c)

			status := c.Response().Status
			if he, isHTTP := err.(*echo.HTTPError); isHTTP {
				status = he.Code
			}

			ctx := req.Context()
			entry := AuditEntry{
				UserID:     auth.UserIDFromContext(ctx),
				UserRoles:  auth.RolesFromContext(ctx),
				Action:     action,
				DocType:    docType,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				Path:       req.URL.Path,
				Method:     req.Method,
				Timestamp:  time.Now().UTC(),
				RequestID:  requestID(c),
				StatusCode: status,
			}

			for _, r := range recorders {
				if r == nil {
					continue
				}
				if recErr := r.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "document_audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Strs("user_roles", entry.UserRoles).
				Str("action", entry.Action).
				Str("doc_type", entry.DocType).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("document_access")

			return err
		}
	}
}

// classify maps a request onto an audit action and document type.
//
//   - POST /api/v1/documents/:type            -> generate
//   - GET  /api/v1/templates/:type/{fields,audit,field-map} -> inspect
//   - GET  /api/v1/templates[/:type]          -> download
//   - PUT  /api/v1/templates/:type            -> upload
//   - DELETE /api/v1/templates/:type          -> delete
func classify(method, path string) (action, docType string, ok bool) {
	rest, found := strings.CutPrefix(path, "/api/v1/")
	if !found {
		return "", "", false
	}
	segments := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segments) > 1 {
		docType = segments[1]
	}

	switch segments[0] {
	case "documents":
		if method != http.MethodPost {
			return "", "", false
		}
		return ActionGenerate, docType, true
	case "templates":
		switch method {
		case http.MethodGet, http.MethodHead:
			if len(segments) > 2 {
				return ActionInspect, docType, true
			}
			return ActionDownload, docType, true
		case http.MethodPut:
			return ActionUpload, docType, true
		case http.MethodDelete:
			return ActionDelete, docType, true
		}
	}
	return "", "", false
}
