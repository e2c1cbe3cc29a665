package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the HTTP router with middleware, API routes,
// metrics, and the WebSocket endpoint
func NewRouter(engine EngineInterface, hub *Hub, rateLimiter *IPRateLimiter) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := NewHandlers(engine, hub)

	r.Get("/health", h.HandleHealth)
	r.Method("GET", "/metrics", MetricsHandler())

	// WebSocket endpoint has its own connection limiter, skip the
	// HTTP rate limiter so a reconnecting peer is not starved
	r.Get("/ws", hub.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimiter.Middleware)
		r.Get("/state", h.HandleState)
		r.Get("/leaderboard", h.HandleLeaderboard)
		r.Get("/stats", h.HandleStats)
	})

	return r
}
