// File: internal/mcp/server.go
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/qaforge/api/schemas"
	"github.com/xkilldash9x/qaforge/internal/config"
	"github.com/xkilldash9x/qaforge/internal/service"
)

// Server exposes the synthesis service as Model Context Protocol tools.
type Server struct {
	mcpServer *mcp.Server
	logger    *zap.Logger
}

// NewServer registers the tools against svc.
func NewServer(cfg config.MCPConfig, svc *service.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("mcp")

	name := cfg.ServerName
	if name == "" {
		name = schemas.ServiceName
	}
	version := cfg.ServerVersion
	if version == "" {
		version = "dev"
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)
	mcp.AddTool(mcpServer, generateActionsTool(), GenerateActionsHandler(svc, logger))
	mcp.AddTool(mcpServer, actionExamplesTool(), ActionExamplesHandler())

	return &Server{mcpServer: mcpServer, logger: logger}
}

// Serve runs the server on stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

// Run serves a single session over transport. Context cancellation is a
// normal shutdown, not an error.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	s.logger.Info("MCP tool server starting")
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	s.logger.Info("MCP tool server stopped.")
	return nil
}
