// Package gateway provides the HTTP server that fronts an inference backend
// with a small JSON contract: /health, /api/models, /api/chat and /api/generate.
package gateway

import "github.com/papercomputeco/ollamagw/pkg/metrics"

// Config is the gateway server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string

	// CORSOrigins is a comma separated list of allowed origins, "*" for any
	CORSOrigins string

	// Metrics, when set, records request and connector metrics and serves
	// them at /metrics
	Metrics *metrics.Collector

	// MCP mounts the MCP server at /mcp
	MCP bool
}
