package types

import "time"

// Endpoint is a rate-limited API surface.
type Endpoint string

const (
	EndpointDownload Endpoint = "download"
	EndpointExport   Endpoint = "export"
)

// BurstWindow is the trailing window used for the burst allowance check.
const BurstWindow = time.Second

// RateLimitConfig is the sliding-window configuration for one endpoint.
type RateLimitConfig struct {
	WindowSize     time.Duration `json:"window_size"`
	MaxRequests    int           `json:"max_requests"`
	BurstAllowance int           `json:"burst_allowance"`
}

var rateLimitTable = map[Endpoint]RateLimitConfig{
	EndpointDownload: {
		WindowSize:     time.Minute,
		MaxRequests:    10,
		BurstAllowance: 3,
	},
	EndpointExport: {
		WindowSize:     time.Minute,
		MaxRequests:    2,
		BurstAllowance: 1,
	},
}

// GetRateLimitConfig returns the sliding-window config for an endpoint,
// defaulting to the download limits for unknown endpoints.
func GetRateLimitConfig(endpoint Endpoint) RateLimitConfig {
	if cfg, ok := rateLimitTable[endpoint]; ok {
		return cfg
	}
	return rateLimitTable[EndpointDownload]
}
