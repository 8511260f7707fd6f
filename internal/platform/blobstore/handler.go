package blobstore

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/formfill/internal/formfill"
	"github.com/ehr/formfill/internal/platform/auth"
)

// listResponse is the JSON envelope returned by the list endpoint.
type listResponse struct {
	Items []*TemplateInfo `json:"items"`
	Total int             `json:"total"`
}

// Handler provides Echo HTTP handlers for template uploads.
type Handler struct {
	store    Store
	docTypes map[string]bool
}

// NewHandler creates a Handler accepting uploads for the given document
// types only.
func NewHandler(store Store, docTypes ...string) *Handler {
	h := &Handler{store: store, docTypes: make(map[string]bool, len(docTypes))}
	for _, t := range docTypes {
		h.docTypes[t] = true
	}
	return h
}

// RegisterRoutes mounts template store routes on the supplied Echo group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	read := g.Group("", auth.RequireRole(auth.ClinicalRoles...))
	read.GET("/templates", h.handleList)
	read.GET("/templates/:type", h.handleDownload)

	write := g.Group("", auth.RequireRole(auth.RoleAdmin))
	write.PUT("/templates/:type", h.handleUpload)
	write.DELETE("/templates/:type", h.handleDelete)
}

func (h *Handler) docType(c echo.Context) (string, error) {
	t := c.Param("type")
	if !h.docTypes[t] {
		return "", echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown document type %q", t))
	}
	return t, nil
}

func (h *Handler) handleUpload(c echo.Context) error {
	docType, err := h.docType(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open uploaded file"})
	}
	defer src.Close()

	info := TemplateInfo{
		DocType:    docType,
		FileName:   file.Filename,
		UploadedBy: auth.UserIDFromContext(c.Request().Context()),
	}

	result, err := h.store.Put(c.Request().Context(), info, src)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrNotPDF):
			return c.JSON(http.StatusUnsupportedMediaType, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrMissingDocType):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) handleDownload(c echo.Context) error {
	docType, err := h.docType(c)
	if err != nil {
		return err
	}

	content, info, err := h.store.Get(c.Request().Context(), docType)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, formfill.ContentDisposition(info.FileName))
	return c.Blob(http.StatusOK, "application/pdf", content)
}

func (h *Handler) handleList(c echo.Context) error {
	items, err := h.store.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if items == nil {
		items = []*TemplateInfo{}
	}
	return c.JSON(http.StatusOK, listResponse{Items: items, Total: len(items)})
}

func (h *Handler) handleDelete(c echo.Context) error {
	docType, err := h.docType(c)
	if err != nil {
		return err
	}

	if err := h.store.Delete(c.Request().Context(), docType); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
