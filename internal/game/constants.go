package game

// Balance and protocol constants. These are authoritative and fixed: the
// host and every client must agree on them, so they are compiled in rather
// than read from runtime configuration.
const (
	// MaxPlayers is the number of pre-allocated player slots. Slots exist
	// for the whole match whether or not a client ever claims them.
	MaxPlayers = 4

	// DefaultHP is full health for a freshly spawned player.
	DefaultHP uint8 = 100

	// PlayerSpeed is base movement speed in world units per second.
	PlayerSpeed = 250.0

	// Sword geometry and damage.
	SwordDamage     uint8 = 40
	SwordReach            = 90.0
	SwordHalfArcDeg       = 70.0

	// DefaultCooldown is the attack cooldown in seconds before any
	// attack-speed stacks are applied.
	DefaultCooldown = 0.8

	// ScorePerKill is awarded to the attacker when a hit kills a player.
	ScorePerKill uint32 = 20

	// BufferCap is the capacity of every ring history buffer. Power of two
	// for cheap modular indexing; also the reordering window the transport
	// layer tolerates.
	BufferCap = 64

	// NetDelayTicks is the fixed one-way-plus-jitter network latency in
	// ticks. Clients read remote entities this far in the past.
	NetDelayTicks Tick = 2

	// PickupRange is the touch distance for grabbing a powerup.
	PickupRange = 32.0
)

// Event bitflags, one byte per entity per tick. Bits are additive: multiple
// intents can co-occur in one tick, and each bit is set or cleared
// individually, never as a group.
const (
	AttackFlag uint8 = 1 << iota
	SpawnFlag
	ShieldFlag
)
