package models

import "encoding/json"

// MetricsResponse wraps the provider payload together with the echoed symbol.
// The payload is relayed untouched; this service does not interpret it.
type MetricsResponse struct {
	Symbol  string          `json:"symbol"`
	Metrics json.RawMessage `json:"metrics"`
}
