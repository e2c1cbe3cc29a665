package game

// Health is the externally visible health state, derived every tick from
// the HP buffer rather than stored as the source of truth.
type Health struct {
	Current uint8 `json:"current"`
	Max     uint8 `json:"max"`
	Dead    bool  `json:"dead"`
}

// Stats are cumulative per-match counters. All arithmetic saturates.
type Stats struct {
	Score         uint32  `json:"score"`
	PlayersKilled uint32  `json:"playersKilled"`
	EnemiesKilled uint32  `json:"enemiesKilled"`
	Deaths        uint32  `json:"deaths"`
	KDRatio       float64 `json:"kdRatio"`
}

// recordKD refreshes the kill/death ratio: kills when deaths is zero,
// kills/deaths otherwise.
func (s *Stats) recordKD() {
	if s.Deaths == 0 {
		s.KDRatio = float64(s.PlayersKilled)
	} else {
		s.KDRatio = float64(s.PlayersKilled) / float64(s.Deaths)
	}
}

// Player is one pre-allocated entity slot. It owns one ring history buffer
// per tracked quantity; everything a consumer reads (Health, Stats,
// ShieldActive) is derived from those buffers once per tick.
type Player struct {
	ID uint8 `json:"id"`

	Pos    *RingBuffer[Vec2]    `json:"-"`
	Dir    *RingBuffer[float64] `json:"-"`
	Events *RingBuffer[uint8]   `json:"-"`
	HP     *RingBuffer[uint8]   `json:"-"`

	Health   Health         `json:"health"`
	Stats    Stats          `json:"stats"`
	PowerUps StoredPowerUps `json:"powerUps"`

	// ShieldActive is derived from the event buffer each tick; a raised
	// shield blocks attacks both by and against this player.
	ShieldActive bool `json:"shieldActive"`

	// Cooldown is seconds until the next attack is allowed;
	// CooldownDuration is what it resets to (shrinks with attack-speed
	// stacks).
	Cooldown         float64 `json:"-"`
	CooldownDuration float64 `json:"-"`

	// Local marks the entity controlled by this process. The local entity
	// predicts: its event buffer is never clobbered by snapshots.
	Local bool `json:"local"`
}

func newPlayer(id uint8, local bool) *Player {
	return &Player{
		ID:     id,
		Pos:    &RingBuffer[Vec2]{},
		Dir:    &RingBuffer[float64]{},
		Events: &RingBuffer[uint8]{},
		HP:     &RingBuffer[uint8]{},
		Health: Health{
			Current: 0,
			Max:     DefaultHP,
			Dead:    true, // everyone starts dead until a spawn event
		},
		CooldownDuration: DefaultCooldown,
		Local:            local,
	}
}

// recordEvent ORs a bit into the tick's event slot, preserving bits other
// writers already set this tick.
func (p *Player) recordEvent(t Tick, flag uint8) {
	ev, _ := p.Events.Get(t)
	p.Events.Set(t, ev|flag)
}

// clearEvent clears a single bit, leaving the rest of the slot intact.
func (p *Player) clearEvent(t Tick, flag uint8) {
	ev, _ := p.Events.Get(t)
	p.Events.Set(t, ev&^flag)
}

// Saturating arithmetic helpers. Overflow and underflow clamp; they are
// defined behavior, never a trap.

func satAddU8(a, b uint8) uint8 {
	if a > 255-b {
		return 255
	}
	return a + b
}

func satSubU8(a, b uint8) uint8 {
	if b > a {
		return 0
	}
	return a - b
}

func satMulU8(a, b uint8) uint8 {
	prod := uint16(a) * uint16(b)
	if prod > 255 {
		return 255
	}
	return uint8(prod)
}

func satAddU32(a, b uint32) uint32 {
	if a > ^uint32(0)-b {
		return ^uint32(0)
	}
	return a + b
}
