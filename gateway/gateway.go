package gateway

import (
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/papercomputeco/ollamagw/gateway/mcp"
	"github.com/papercomputeco/ollamagw/pkg/connector"
	"github.com/papercomputeco/ollamagw/pkg/metrics"
)

// Server is the gateway HTTP server.
type Server struct {
	config    Config
	connector connector.Connector
	logger    *slog.Logger
	app       *fiber.App
}

// New creates a gateway server around conn. The connector is injected so the
// caller decides, once at startup, whether it is a live client or the
// connector.Unavailable variant.
func New(config Config, conn connector.Connector, logger *slog.Logger) (*Server, error) {
	if conn == nil {
		return nil, errors.New("connector is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	if config.Metrics != nil {
		conn = metrics.InstrumentConnector(conn, config.Metrics)
	}

	s := &Server{
		config:    config,
		connector: conn,
		logger:    logger,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	// Logging wraps recovery so panics are logged with their final status
	s.app.Use(s.requestLogger)
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(config.CORSOrigins),
	}))
	s.app.Use(compress.New())

	s.app.Get("/health", s.handleHealth)
	s.app.Get("/api/models", s.handleModels)
	s.app.Post("/api/chat", s.handleChat)
	s.app.Post("/api/generate", s.handleGenerate)

	if config.Metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(config.Metrics.Handler()))
	}

	if config.MCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Connector: conn,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create MCP server: %w", err)
		}
		s.app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	// Must be registered last: catches every unmatched route
	s.app.Use(s.handleNotFound)

	return s, nil
}

// Run starts the gateway on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting gateway",
		"listen", s.config.ListenAddr,
		"ollama", s.connector.BaseURL(),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the gateway using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting gateway",
		"listen", listener.Addr().String(),
		"ollama", s.connector.BaseURL(),
	)
	return s.app.Listener(listener)
}

// Shutdown gracefully shuts down the gateway. In-flight backend calls are
// canceled through their request contexts.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Endpoints lists the routes reported by the 404 handler.
func (s *Server) Endpoints() []string {
	endpoints := []string{
		"GET /health",
		"GET /api/models",
		"POST /api/chat",
		"POST /api/generate",
	}
	if s.config.Metrics != nil {
		endpoints = append(endpoints, "GET /metrics")
	}
	if s.config.MCP {
		endpoints = append(endpoints, "POST /mcp")
	}
	return endpoints
}

func corsOrigins(origins string) string {
	if origins == "" {
		return "*"
	}
	return origins
}
