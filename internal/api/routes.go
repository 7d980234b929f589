// routes.go - Route registration helpers
package api

import (
	"log/slog"

	"github.com/ipo-insight/backend/internal/metrics"
	"github.com/ipo-insight/backend/internal/storage"
	"github.com/ipo-insight/backend/internal/track"
	"github.com/labstack/echo/v4"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store    storage.Store
	Provider MetricsProvider
	Counter  *track.Counter
	Logger   *slog.Logger
	Version  string
}

// Handlers holds all handler instances
type Handlers struct {
	Health     HealthHandler
	Stock      StockHandler
	Prospectus ProspectusHandler
	Track      TrackHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(deps.Version),
		Stock:      NewStockHandler(deps.Provider),
		Prospectus: NewProspectusHandler(deps.Store, deps.Logger),
		Track:      NewTrackHandler(deps.Counter),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check and metrics exposition
	e.GET("/health", handlers.Health.HandleHealth)
	e.GET("/metrics", metrics.Exposer())

	// Financial metrics proxy
	stockGroup := e.Group("/api/stock")
	stockGroup.GET("/metric", handlers.Stock.HandleGetMetric)

	// Prospectus documents
	fileGroup := e.Group("/api/files")
	fileGroup.GET("/prospectus", handlers.Prospectus.HandleListProspectuses)
	fileGroup.POST("/prospectus", handlers.Prospectus.HandleUploadProspectus)
	fileGroup.GET("/prospectus/:fileId", handlers.Prospectus.HandleGetProspectus)

	// Page-view tracking
	trackGroup := e.Group("/api/track")
	trackGroup.POST("/pageview", handlers.Track.HandleRecordPageView)
	trackGroup.GET("/pageview", handlers.Track.HandleGetPageViews)
}
