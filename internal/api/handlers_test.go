package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sword-arena/internal/game"
)

// fakeEngine satisfies EngineInterface for handler tests
type fakeEngine struct {
	state game.WorldState
}

func (f *fakeEngine) GetState() game.WorldState { return f.state }

func (f *fakeEngine) Leaderboard() []game.PlayerView { return f.state.Players }

func (f *fakeEngine) GetEventLogStats() map[string]interface{} {
	return map[string]interface{}{"total": uint64(0)}
}

// fakeSink satisfies CommandSink for hub construction
type fakeSink struct {
	commands  []game.Command
	snapshots []game.Snapshot
}

func (f *fakeSink) QueueCommand(cmd game.Command) { f.commands = append(f.commands, cmd) }
func (f *fakeSink) QueueSnapshot(s game.Snapshot) { f.snapshots = append(f.snapshots, s) }

func newTestRouter(t *testing.T) (http.Handler, *fakeEngine) {
	t.Helper()

	engine := &fakeEngine{
		state: game.WorldState{
			Tick: 42,
			Role: "host",
			Players: []game.PlayerView{
				{ID: 0, Health: game.Health{Current: 100, Max: 100}},
				{ID: 1, Health: game.Health{Current: 60, Max: 100}},
			},
			AliveCount: 2,
		},
	}

	hub := NewHub(&fakeSink{})
	rl := NewIPRateLimiter(DefaultRateLimitConfig)
	t.Cleanup(rl.Stop)

	return NewRouter(engine, hub, rl), engine
}

// TestHandleState verifies the state endpoint returns the world view
func TestHandleState(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/state", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var state game.WorldState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if state.Tick != 42 {
		t.Errorf("Expected tick 42, got %d", state.Tick)
	}
	if len(state.Players) != 2 {
		t.Errorf("Expected 2 players, got %d", len(state.Players))
	}
	if state.AliveCount != 2 {
		t.Errorf("Expected 2 alive, got %d", state.AliveCount)
	}
}

// TestHandleLeaderboard verifies the leaderboard endpoint shape
func TestHandleLeaderboard(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/leaderboard", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Players []game.PlayerView `json:"players"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body.Players) != 2 {
		t.Errorf("Expected 2 players, got %d", len(body.Players))
	}
}

// TestHandleStats verifies the stats endpoint aggregates engine and hub
// state
func TestHandleStats(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["role"] != "host" {
		t.Errorf("Expected role 'host', got %v", body["role"])
	}
	if body["connections"] != float64(0) {
		t.Errorf("Expected 0 connections, got %v", body["connections"])
	}
}

// TestHandleHealth verifies the liveness probe
func TestHandleHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}

// TestMethodNotAllowed verifies write methods are rejected on read-only
// endpoints
func TestMethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/state", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}
