// handlers_track.go - Page-view tracking handlers
package api

import (
	"net/http"

	"github.com/ipo-insight/backend/internal/track"
	"github.com/labstack/echo/v4"
)

// TrackHandlerImpl implements the TrackHandler interface
type TrackHandlerImpl struct {
	counter *track.Counter
}

// NewTrackHandler creates a new tracking handler instance
func NewTrackHandler(counter *track.Counter) TrackHandler {
	return &TrackHandlerImpl{
		counter: counter,
	}
}

// HandleRecordPageView records one view of a page path.
func (h *TrackHandlerImpl) HandleRecordPageView(c echo.Context) error {
	var req pageViewRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	if track.Normalize(req.Path) == "" {
		return NewValidationError("path")
	}

	// At path-cardinality capacity new paths are silently dropped; the
	// caller is a fire-and-forget beacon either way.
	h.counter.Record(req.Path)

	return c.NoContent(http.StatusNoContent)
}

// HandleGetPageViews returns the current in-process view counts.
func (h *TrackHandlerImpl) HandleGetPageViews(c echo.Context) error {
	return c.JSON(http.StatusOK, pageViewsResponse{
		Views: h.counter.Snapshot(),
	})
}

// Request/Response types

type pageViewRequest struct {
	Path string `json:"path"`
}

type pageViewsResponse struct {
	Views map[string]int64 `json:"views"`
}
