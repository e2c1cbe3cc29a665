// Package config provides centralized runtime configuration.
//
// Only scheduling, networking, and observability knobs live here. Combat
// balance (weapon reach, damage, cooldowns, buffer capacity, network delay)
// is compiled into the game package: host and clients must agree on those
// values, so they are deliberately not runtime-configurable.
package config

import (
	"os"
	"strconv"
)

// SimConfig holds simulation scheduling settings.
type SimConfig struct {
	TickRate int    // Simulation steps per second
	Role     string // "host" or "client"
	LocalID  int    // Player slot controlled by this process
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate: 30,
		Role:     "host",
		LocalID:  0,
	}
}

// SimFromEnv returns simulation configuration with environment overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if r := os.Getenv("ROLE"); r == "host" || r == "client" {
		cfg.Role = r
	}
	if id := getEnvInt("LOCAL_ID", -1); id >= 0 {
		cfg.LocalID = id
	}

	return cfg
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port      int
	HostURL   string // WebSocket URL of the host, used in client role
	DebugAddr string // pprof listen address, empty disables
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:      3000,
		HostURL:   "ws://localhost:3000/ws",
		DebugAddr: "localhost:6060",
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if u := os.Getenv("HOST_URL"); u != "" {
		cfg.HostURL = u
	}
	if a, ok := os.LookupEnv("DEBUG_ADDR"); ok {
		cfg.DebugAddr = a
	}

	return cfg
}

// LogConfig holds audit log settings.
type LogConfig struct {
	EventLogPath string // Empty disables the on-disk audit log
}

// LogFromEnv returns audit log configuration with environment overrides.
func LogFromEnv() LogConfig {
	cfg := LogConfig{EventLogPath: "events.jsonl"}
	if p, ok := os.LookupEnv("EVENT_LOG_PATH"); ok {
		cfg.EventLogPath = p
	}
	return cfg
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim    SimConfig
	Server ServerConfig
	Log    LogConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:    SimFromEnv(),
		Server: ServerFromEnv(),
		Log:    LogFromEnv(),
	}
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
