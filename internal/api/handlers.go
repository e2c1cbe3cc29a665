package api

import (
	"encoding/json"
	"log"
	"net/http"

	"sword-arena/internal/game"
)

// EngineInterface is what the HTTP layer needs from the simulation
type EngineInterface interface {
	GetState() game.WorldState
	Leaderboard() []game.PlayerView
	GetEventLogStats() map[string]interface{}
}

// Handlers holds HTTP handlers with their dependencies
type Handlers struct {
	engine EngineInterface
	hub    *Hub
}

// NewHandlers creates the handler set
func NewHandlers(engine EngineInterface, hub *Hub) *Handlers {
	return &Handlers{engine: engine, hub: hub}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ Failed to encode response: %v", err)
	}
}

// HandleState returns the current world state
// GET /api/state
func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.GetState())
}

// HandleLeaderboard returns players sorted by score
// GET /api/leaderboard
func (h *Handlers) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"players": h.engine.Leaderboard(),
	})
}

// HandleStats returns operational statistics
// GET /api/stats
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	state := h.engine.GetState()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tick":        state.Tick,
		"role":        state.Role,
		"aliveCount":  state.AliveCount,
		"connections": h.hub.ClientCount(),
		"eventLog":    h.engine.GetEventLogStats(),
	})
}

// HandleHealth is a liveness probe
// GET /health
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
