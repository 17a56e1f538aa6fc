// Package mcp exposes the gateway's connector as MCP (Model Context Protocol)
// tools over streamable HTTP.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/ollamagw/pkg/connector"
	"github.com/papercomputeco/ollamagw/pkg/utils"
)

type Config struct {
	// Connector answers the chat and list_models tools
	Connector connector.Connector

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the chat and list_models tools.
func NewServer(c Config) (*Server, error) {
	if c.Connector == nil {
		return nil, errors.New("connector is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "ollamagw",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        chatToolName,
		Description: chatDescription,
	}, s.handleChat)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        listModelsToolName,
		Description: listModelsDescription,
	}, s.handleListModels)

	s.mcpServer = mcpServer

	// Stateless: conversation history travels in each tool call
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// MCPServer returns the underlying MCP server, for in-memory transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}
