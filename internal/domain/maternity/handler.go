package maternity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/formfill/internal/formfill"
	"github.com/ehr/formfill/internal/platform/auth"
)

// WarningsHeader carries the per-field warnings of a generated document as a
// JSON array.
const WarningsHeader = "X-Form-Warnings"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.ClinicalRoles...))
	g.POST("/documents/:type", h.GenerateDocument)
	g.GET("/templates/:type/fields", h.ListFields)
	g.GET("/templates/:type/audit", h.AuditTemplate)
	g.GET("/templates/:type/field-map", h.FieldMap)
}

// httpError maps service errors onto HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownDocType), errors.Is(err, ErrInvalidRecord):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, formfill.ErrTemplateFetchFailed):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	case errors.Is(err, formfill.ErrTemplateUnreadable):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, formfill.ErrSerializationFailed):
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func sendDocument(c echo.Context, doc *Document) error {
	warnings, err := json.Marshal(doc.Warnings)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(WarningsHeader, string(warnings))
	c.Response().Header().Set(echo.HeaderContentDisposition, formfill.ContentDisposition(doc.Filename))
	return c.Blob(http.StatusOK, "application/pdf", doc.Content)
}

func (h *Handler) GenerateDocument(c echo.Context) error {
	docType := c.Param("type")
	if !KnownDocType(docType) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown document type %q", docType))
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body")
	}
	doc, err := h.svc.Generate(c.Request().Context(), docType, body)
	if err != nil {
		return httpError(err)
	}
	return sendDocument(c, doc)
}

func (h *Handler) ListFields(c echo.Context) error {
	widgets, err := h.svc.ListFields(c.Request().Context(), c.Param("type"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"doc_type": c.Param("type"),
		"fields":   widgets,
		"total":    len(widgets),
	})
}

func (h *Handler) AuditTemplate(c echo.Context) error {
	rep, err := h.svc.Audit(c.Request().Context(), c.Param("type"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) FieldMap(c echo.Context) error {
	doc, err := h.svc.FieldMap(c.Request().Context(), c.Param("type"))
	if err != nil {
		return httpError(err)
	}
	return sendDocument(c, doc)
}
