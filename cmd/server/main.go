package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sword-arena/internal/api"
	"sword-arena/internal/config"
	"sword-arena/internal/game"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	} else {
		log.Println("✅ Loaded environment from .env")
	}

	log.Println("⚔️ ================================")
	log.Println("⚔️  SWORD ARENA - SYNC CORE")
	log.Println("⚔️ ================================")

	appConfig := config.Load()
	simCfg := appConfig.Sim
	serverCfg := appConfig.Server
	logCfg := appConfig.Log

	role := game.RoleHost
	if simCfg.Role == "client" {
		role = game.RoleClient
	}

	log.Printf("🎮 Config: role=%s, %d TPS, player slot %d, port %d",
		simCfg.Role, simCfg.TickRate, simCfg.LocalID, serverCfg.Port)

	engine := game.NewEngine(game.EngineConfig{
		TickRate: simCfg.TickRate,
		Role:     role,
		LocalID:  uint8(simCfg.LocalID),
	})

	// Arena entities are part of the fixed map, so every peer seeds the
	// same layout and only the host mutates their authoritative state.
	seedArena(engine)

	// Start event log
	if logCfg.EventLogPath != "" {
		if err := engine.StartEventLog(logCfg.EventLogPath); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", logCfg.EventLogPath)
		}
	}

	// Start debug server
	var debugSrv interface {
		Shutdown(context.Context) error
	}
	if serverCfg.DebugAddr != "" && os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		debugSrv = api.StartDebugServer(serverCfg.DebugAddr)
	}

	hub := api.NewHub(engine)
	go hub.Run()

	// Wire the simulation to the transport by role. The host fans
	// snapshots out to every peer; a client streams its commands to the
	// single host link and receives snapshots back over it.
	var peer *api.PeerLink
	if role == game.RoleHost {
		engine.OnSnapshot = hub.BroadcastSnapshot
	} else {
		peer = api.NewPeerLink(serverCfg.HostURL, engine)
		engine.OnCommand = peer.SendCommand
		peer.Start()
		log.Printf("🔗 Client role: dialing host at %s", serverCfg.HostURL)
	}

	engine.OnKill = func(killer, victim uint8) {
		api.RecordKill()
	}
	engine.OnTick = func(tick game.Tick, elapsed time.Duration) {
		api.RecordTick(elapsed)
		if tick%30 == 0 {
			api.SetPlayersAlive(engine.GetState().AliveCount)
		}
	}

	engine.Start()
	log.Println("✅ Simulation started")

	server := api.NewServer(serverCfg.Port, engine, hub)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	if peer != nil {
		peer.Stop()
	}
	engine.Stop()
	engine.StopEventLog()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if debugSrv != nil {
		debugSrv.Shutdown(ctx)
	}
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Server shutdown error: %v", err)
	}
	log.Println("👋 Goodbye!")
}

// seedArena places the fixed map entities. Positions mirror the arena
// layout all peers agree on.
func seedArena(e *game.Engine) {
	hostileSpawns := []game.Vec2{
		{X: 200, Y: 200},
		{X: 600, Y: 200},
		{X: 400, Y: 500},
	}
	for i, pos := range hostileSpawns {
		e.AddHostile(game.NewHostile(uint8(i), pos, game.DefaultHP))
	}

	crateSpawns := []game.Vec2{
		{X: 150, Y: 400},
		{X: 650, Y: 400},
	}
	for _, pos := range crateSpawns {
		e.AddCrate(game.NewCrate(pos))
	}

	e.AddPowerUp(&game.PowerUp{Type: game.PowerUpMeat, Pos: game.Vec2{X: 300, Y: 300}})
	e.AddPowerUp(&game.PowerUp{Type: game.PowerUpDamageDealt, Pos: game.Vec2{X: 500, Y: 300}})
	e.AddPowerUp(&game.PowerUp{Type: game.PowerUpAttackSpeed, Pos: game.Vec2{X: 400, Y: 200}})
	e.AddPowerUp(&game.PowerUp{Type: game.PowerUpMovementSpeed, Pos: game.Vec2{X: 400, Y: 400}})
}
