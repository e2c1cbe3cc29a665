package game

import (
	"encoding/json"
	"time"
)

// EventType enum for audit log classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick
	EventTypeCommand
	EventTypeSnapshot
	EventTypeAttack
	EventTypeDamage
	EventTypeKill
	EventTypeSpawn
	EventTypeDeath
	EventTypePickup
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core record written to the audit log.
type Event struct {
	Version   uint8     `json:"version"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence
	TickNum   uint64    `json:"tickNum"`   // Simulation tick this occurred in
	EntityID  uint8     `json:"entityId"`  // Source entity (for rate limiting)
	Payload   []byte    `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeCommand:
		return "command"
	case EventTypeSnapshot:
		return "snapshot"
	case EventTypeAttack:
		return "attack"
	case EventTypeDamage:
		return "damage"
	case EventTypeKill:
		return "kill"
	case EventTypeSpawn:
		return "spawn"
	case EventTypeDeath:
		return "death"
	case EventTypePickup:
		return "pickup"
	default:
		return "unknown"
	}
}

// Typed payloads for different event types

// TickPayload marks a tick boundary for replay alignment.
type TickPayload struct {
	Role        string `json:"role"`
	PlayerCount int    `json:"playerCount"`
}

// CommandPayload records an applied client command.
type CommandPayload struct {
	ID     uint8  `json:"id"`
	Tick   uint16 `json:"tick"`
	Events uint8  `json:"events"`
}

// SnapshotPayload records an applied host snapshot.
type SnapshotPayload struct {
	ID   uint8  `json:"id"`
	Tick uint16 `json:"tick"`
	HP   uint8  `json:"hp"`
}

// DamagePayload records a resolved hit.
type DamagePayload struct {
	AttackerID uint8 `json:"attackerId"`
	TargetID   uint8 `json:"targetId"`
	Hostile    bool  `json:"hostile,omitempty"`
	Damage     uint8 `json:"damage"`
	TargetHP   uint8 `json:"targetHp"`
}

// KillPayload records a player-vs-player kill.
type KillPayload struct {
	KillerID     uint8  `json:"killerId"`
	VictimID     uint8  `json:"victimId"`
	KillerKills  uint32 `json:"killerKills"`
	VictimDeaths uint32 `json:"victimDeaths"`
}

// SpawnPayload records a granted spawn.
type SpawnPayload struct {
	PlayerID uint8 `json:"playerId"`
}

// DeathPayload records a death transition.
type DeathPayload struct {
	PlayerID uint8 `json:"playerId"`
}

// PickupPayload records a powerup grab.
type PickupPayload struct {
	PlayerID uint8  `json:"playerId"`
	Type     string `json:"type"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, entityID uint8, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		EntityID:  entityID,
		Payload:   EncodePayload(payload),
	}
}
