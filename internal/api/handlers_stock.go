// handlers_stock.go - Financial metrics proxy handlers
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ipo-insight/backend/internal/models"
	"github.com/ipo-insight/backend/internal/provider"
	"github.com/labstack/echo/v4"
)

// StockHandlerImpl implements the StockHandler interface
type StockHandlerImpl struct {
	provider MetricsProvider
}

// NewStockHandler creates a new stock handler instance
func NewStockHandler(p MetricsProvider) StockHandler {
	return &StockHandlerImpl{
		provider: p,
	}
}

// HandleGetMetric proxies a metrics query to the market-data provider and
// relays the JSON payload wrapped with the echoed symbol. Provider detail
// never reaches the caller on failure.
func (h *StockHandlerImpl) HandleGetMetric(c echo.Context) error {
	symbol := strings.TrimSpace(c.QueryParam("symbol"))
	if symbol == "" {
		return NewValidationError("symbol")
	}
	metricSet := c.QueryParam("metric")

	payload, err := h.provider.FetchMetrics(c.Request().Context(), symbol, metricSet)
	if err != nil {
		if errors.Is(err, provider.ErrNoCredential) {
			return NewMisconfiguredError(err)
		}
		return NewUpstreamError(err)
	}

	return c.JSON(http.StatusOK, models.MetricsResponse{
		Symbol:  symbol,
		Metrics: payload,
	})
}
