package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/easy-books/easy-books-server/internal/model"
)

// Timeouts bounds connection-level reads and writes.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
}

// HTTPServer serves the REST API.
// It wraps an http.Server and adds start and graceful stop around it.
type HTTPServer struct {
	server *http.Server
	addr   string
}

// NewHTTPServer creates a new HTTPServer instance.
// Header reads share the read timeout and idle connections are kept for twice
// the write timeout.
//
// Parameters:
//   - handler: The root handler, usually the registered router
//   - addr: The address to listen on
//   - timeouts: Connection level read and write timeouts
//
// Returns a pointer to the newly created HTTPServer instance.
func NewHTTPServer(handler http.Handler, addr string, timeouts Timeouts) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       timeouts.Read,
			ReadHeaderTimeout: timeouts.Read,
			WriteTimeout:      timeouts.Write,
			IdleTimeout:       2 * timeouts.Write,
		},
		addr: addr,
	}
}

// Start serves requests until the server is stopped.
// It blocks while serving.
//
// Parameters:
//   - securityLayer: Creates the listener, either plain or TLS
//
// Returns nil once Stop has shut the server down, or an error if listening
// or serving fails.
func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	err = s.server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts the server down.
// In-flight requests may finish until ctx expires. Remaining connections are
// then closed.
//
// Parameters:
//   - ctx: Bounds how long to wait for in-flight requests
//
// Returns an error if the graceful shutdown did not complete.
func (s *HTTPServer) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		_ = s.server.Close()
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// Address returns the address the server was configured to listen on.
func (s *HTTPServer) Address() string {
	return s.addr
}
