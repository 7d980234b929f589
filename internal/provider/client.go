// Package provider implements the outbound client for the external
// market-data service supplying stock metrics.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ipo-insight/backend/internal/metrics"
)

const (
	// DefaultTimeout bounds every outbound call. The hosting runtime applies
	// no timeout of its own, so the client must.
	DefaultTimeout = 10 * time.Second

	// DefaultMetricSet is used when the caller omits a metric selector.
	DefaultMetricSet = "all"

	// maxResponseBytes caps how much of a provider response is buffered.
	maxResponseBytes = 4 << 20
)

var (
	ErrNoCredential   = errors.New("market data api key not configured")
	ErrProviderStatus = errors.New("provider returned non-success status")
)

// Client is a one-shot proxy to the market-data provider. Calls carry an
// explicit timeout and are not retried; a failed call fails the request.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *slog.Logger
}

// New creates a provider client. baseURL is the provider API root, e.g.
// https://finnhub.io/api/v1.
func New(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// FetchMetrics requests the metric set for a ticker symbol and returns the
// provider's JSON payload untouched. Provider failures are logged with full
// detail here; callers surface only a generic error.
func (c *Client) FetchMetrics(ctx context.Context, symbol, metricSet string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrNoCredential
	}
	if metricSet == "" {
		metricSet = DefaultMetricSet
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("metric", metricSet)
	q.Set("token", c.apiKey)
	endpoint := c.baseURL + "/stock/metric?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building provider request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.ObserveProviderCall("transport_error", time.Since(start))
		return nil, fmt.Errorf("calling provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.ObserveProviderCall("read_error", time.Since(start))
		return nil, fmt.Errorf("reading provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ObserveProviderCall("bad_status", time.Since(start))
		c.logger.Error("provider request failed",
			"status", resp.StatusCode,
			"symbol", symbol,
			"body", string(body))
		return nil, fmt.Errorf("%w: %d", ErrProviderStatus, resp.StatusCode)
	}

	if !json.Valid(body) {
		metrics.ObserveProviderCall("bad_payload", time.Since(start))
		return nil, errors.New("provider returned malformed JSON")
	}

	metrics.ObserveProviderCall("ok", time.Since(start))
	return json.RawMessage(body), nil
}
