// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"
)

// StockHandler handles financial-metric proxy operations
type StockHandler interface {
	HandleGetMetric(c echo.Context) error
}

// ProspectusHandler handles prospectus document operations
type ProspectusHandler interface {
	HandleGetProspectus(c echo.Context) error
	HandleUploadProspectus(c echo.Context) error
	HandleListProspectuses(c echo.Context) error
}

// TrackHandler handles page-view tracking operations
type TrackHandler interface {
	HandleRecordPageView(c echo.Context) error
	HandleGetPageViews(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// MetricsProvider is the outbound market-data dependency.
// This allows mocking in tests.
type MetricsProvider interface {
	FetchMetrics(ctx context.Context, symbol, metricSet string) (json.RawMessage, error)
}
