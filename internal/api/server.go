package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Server wraps the HTTP server with its rate limiter lifecycle
type Server struct {
	httpServer  *http.Server
	rateLimiter *IPRateLimiter
}

// NewServer creates a server on the given port serving the router
func NewServer(port int, engine EngineInterface, hub *Hub) *Server {
	rl := NewIPRateLimiter(DefaultRateLimitConfig)
	router := NewRouter(engine, hub, rl)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		rateLimiter: rl,
	}
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	log.Printf("🌐 HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}
