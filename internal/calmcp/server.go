// Package calmcp serves the size derivation arithmetic as MCP tools so
// experiment builders can compute ppi and ppd without running the wizard.
package calmcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/logger"
)

var ErrAlreadyStarted = errors.New("server already started")

// Server manages the MCP HTTP server.
type Server struct {
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	port       int
	mu         sync.Mutex

	catalog    *calibration.Catalog
	distanceCm float64 // Default viewing distance for tools called without one
}

// New creates a server instance. It is not started until Start is called.
func New(catalog *calibration.Catalog, distanceCm float64) *Server {
	if catalog == nil {
		catalog = calibration.DefaultCatalog()
	}
	if distanceCm <= 0 {
		distanceCm = calibration.DefaultDistanceCm
	}
	return &Server{catalog: catalog, distanceCm: distanceCm}
}

// Start serves on 127.0.0.1:port, or a random free port when port is zero.
// Returns the bound port.
func (s *Server) Start(ctx context.Context, port int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return 0, ErrAlreadyStarted
	}

	s.mcpServer = server.NewMCPServer(
		"screencal",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()

	if port == 0 {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return 0, fmt.Errorf("failed to find available port: %w", err)
		}
		port = listener.Addr().(*net.TCPAddr).Port
		// NOTE: the port can be taken between this Close and Start below.
		_ = listener.Close()
	}
	s.port = port

	s.httpServer = server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	httpServer := s.httpServer
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.httpServer = nil
			return 0, fmt.Errorf("failed to start HTTP server: %w", err)
		}
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	logger.Info("MCP server ready on %s", addr)
	return s.port, nil
}

// Stop shuts the HTTP server down. Stopping a stopped server is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.mcpServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP URL of the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
