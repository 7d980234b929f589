// handlers_prospectus.go - Prospectus document handlers
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ipo-insight/backend/internal/metrics"
	"github.com/ipo-insight/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// ProspectusHandlerImpl implements the ProspectusHandler interface
type ProspectusHandlerImpl struct {
	store  storage.Store
	logger *slog.Logger
}

// NewProspectusHandler creates a new prospectus handler instance
func NewProspectusHandler(store storage.Store, logger *slog.Logger) ProspectusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProspectusHandlerImpl{
		store:  store,
		logger: logger,
	}
}

// HandleGetProspectus serves a stored prospectus PDF. The store runs the
// full validation chain; each classified failure maps to its own status.
func (h *ProspectusHandlerImpl) HandleGetProspectus(c echo.Context) error {
	fileID := c.Param("fileId")
	if fileID == "" {
		metrics.ProspectusServed.WithLabelValues("bad_request").Inc()
		return NewValidationError("fileId")
	}

	doc, err := h.store.Open(fileID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidID):
			metrics.ProspectusServed.WithLabelValues("bad_id").Inc()
			return NewBadRequestError("invalid prospectus id format", nil)
		case errors.Is(err, storage.ErrOutsideRoot):
			metrics.ProspectusServed.WithLabelValues("forbidden").Inc()
			return NewForbiddenError("access denied")
		case errors.Is(err, storage.ErrNotFound):
			metrics.ProspectusServed.WithLabelValues("not_found").Inc()
			return NewNotFoundError("prospectus", fileID)
		case errors.Is(err, storage.ErrExpired):
			metrics.ProspectusServed.WithLabelValues("expired").Inc()
			return NewGoneError("prospectus has expired")
		case errors.Is(err, storage.ErrNotPDF):
			metrics.ProspectusServed.WithLabelValues("bad_content").Inc()
			return NewBadRequestError("stored document is not a valid PDF", nil)
		default:
			metrics.ProspectusServed.WithLabelValues("error").Inc()
			return NewInternalError("failed to read prospectus", err)
		}
	}

	metrics.ProspectusServed.WithLabelValues("ok").Inc()

	header := c.Response().Header()
	header.Set(echo.HeaderContentLength, strconv.Itoa(len(doc.Data)))
	// Fixed filename: user input never reaches the disposition header.
	header.Set(echo.HeaderContentDisposition, `inline; filename="prospectus.pdf"`)
	header.Set("Cache-Control", "no-store, no-cache, must-revalidate")
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("X-Frame-Options", "DENY")
	header.Set("Referrer-Policy", "no-referrer")

	return c.Blob(http.StatusOK, "application/pdf", doc.Data)
}

// HandleUploadProspectus accepts a prospectus PDF as multipart/form-data
// and stores it under a fresh identifier.
func (h *ProspectusHandlerImpl) HandleUploadProspectus(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	info, err := h.store.Save(src)
	if err != nil {
		if errors.Is(err, storage.ErrNotPDF) {
			return NewBadRequestError("uploaded file is not a PDF", nil)
		}
		return NewInternalError("failed to save prospectus", err)
	}

	return c.JSON(http.StatusCreated, info)
}

// HandleListProspectuses returns metadata for recently uploaded, still-fresh
// prospectus documents.
func (h *ProspectusHandlerImpl) HandleListProspectuses(c echo.Context) error {
	list, err := h.store.List(20)
	if err != nil {
		return NewInternalError("failed to list prospectuses", err)
	}
	return c.JSON(http.StatusOK, list)
}
