// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the outbound provider client.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipo_insight_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ipo_insight_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ipo_insight_provider_request_duration_seconds",
			Help:    "Outbound market-data provider call latency by outcome.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	ProspectusServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipo_insight_prospectus_requests_total",
			Help: "Prospectus retrieval attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Middleware records request count and latency for every route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				// The error handler has not run yet; report what it will send.
				switch e := err.(type) {
				case *echo.HTTPError:
					status = e.Code
				case interface{ HTTPStatus() int }:
					status = e.HTTPStatus()
				default:
					status = 500
				}
			}

			HTTPLatency.WithLabelValues(path, c.Request().Method).Observe(time.Since(start).Seconds())
			HTTPRequests.WithLabelValues(path, c.Request().Method, strconv.Itoa(status)).Inc()
			return err
		}
	}
}

// ObserveProviderCall records one outbound provider call.
func ObserveProviderCall(outcome string, elapsed time.Duration) {
	ProviderRequestDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Exposer returns the standard Prometheus exposition handler wrapped for Echo.
func Exposer() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
