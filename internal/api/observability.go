package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metrics for the simulation and its transport
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Time spent advancing one simulation tick",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
	})

	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_ticks_total",
		Help: "Total number of simulation ticks advanced",
	})

	commandsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_commands_applied_total",
		Help: "Total number of remote commands applied to the simulation",
	})

	snapshotsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_snapshots_applied_total",
		Help: "Total number of authoritative snapshots applied",
	})

	killsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_kills_total",
		Help: "Total number of player kills",
	})

	playersAlive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sim_players_alive",
		Help: "Number of players currently alive",
	})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ws_connections_active",
		Help: "Number of active WebSocket connections",
	})

	wsMessagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_messages_received_total",
		Help: "Total WebSocket messages received by type",
	}, []string{"type"})

	wsMessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ws_messages_sent_total",
		Help: "Total WebSocket messages broadcast to clients",
	})

	wsConnectionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_connections_rejected_total",
		Help: "Total WebSocket connections rejected by reason",
	}, []string{"reason"})
)

// RecordTick records one simulation step and its duration
func RecordTick(d time.Duration) {
	ticksTotal.Inc()
	tickDuration.Observe(d.Seconds())
}

// RecordCommandApplied increments the applied-command counter
func RecordCommandApplied() {
	commandsApplied.Inc()
}

// RecordSnapshotApplied increments the applied-snapshot counter
func RecordSnapshotApplied() {
	snapshotsApplied.Inc()
}

// RecordKill increments the kill counter
func RecordKill() {
	killsTotal.Inc()
}

// SetPlayersAlive updates the alive-player gauge
func SetPlayersAlive(n int) {
	playersAlive.Set(float64(n))
}

// RecordWSConnection tracks WebSocket connection lifecycle
func RecordWSConnection(delta int) {
	wsConnectionsActive.Add(float64(delta))
}

// RecordWSMessageReceived tracks an inbound WebSocket message by type
func RecordWSMessageReceived(msgType string) {
	wsMessagesReceived.WithLabelValues(msgType).Inc()
}

// RecordWSMessageSent tracks an outbound broadcast
func RecordWSMessageSent() {
	wsMessagesSent.Inc()
}

// RecordConnectionRejected tracks rejected connections by reason
func RecordConnectionRejected(reason string) {
	wsConnectionsRejected.WithLabelValues(reason).Inc()
}

// MetricsHandler returns the Prometheus metrics HTTP handler
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// StartDebugServer starts a localhost-only debug server with pprof endpoints.
// Never expose this port publicly.
func StartDebugServer(addr string) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		log.Printf("🔍 Debug server (pprof) listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()

	return srv
}
