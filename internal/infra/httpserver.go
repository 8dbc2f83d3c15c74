package infra

import (
	"context"
	"net"
	"net/http"
	"time"
)

// HTTPServer pairs a configured http.Server with the start and shutdown
// calls the commands drive during graceful termination.
type HTTPServer struct {
	srv *http.Server
}

// NewHTTPServer builds a server listening on the configured port with the
// configured timeouts.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	return &HTTPServer{srv: &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}}
}

// Addr returns the listen address.
func (s *HTTPServer) Addr() string {
	return s.srv.Addr
}

// Start serves until Shutdown is called or the listener fails.
func (s *HTTPServer) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests until the context expires.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
