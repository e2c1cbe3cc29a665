package game

// Hostile is a host-simulated enemy. It gets the same per-quantity history
// buffers as players so lag-compensated swings can look its position up at
// the attack's sequence tick.
type Hostile struct {
	ID  uint8              `json:"id"`
	Pos *RingBuffer[Vec2]  `json:"-"`
	HP  *RingBuffer[uint8] `json:"-"`

	// LastAttacker is the slot of the last player to land a hit, -1 if
	// untouched. Used for kill credit when the hostile dies.
	LastAttacker int `json:"lastAttacker"`
}

// NewHostile creates a hostile at a fixed position with full health,
// seeding tick zero so history lookups work from the first swing.
func NewHostile(id uint8, pos Vec2, hp uint8) *Hostile {
	h := &Hostile{
		ID:           id,
		Pos:          &RingBuffer[Vec2]{},
		HP:           &RingBuffer[uint8]{},
		LastAttacker: -1,
	}
	h.Pos.Set(0, pos)
	h.HP.Set(0, hp)
	return h
}

// Crate is a breakable world object. It has no history buffer: it never
// moves, so its current position is valid at any sequence tick.
type Crate struct {
	Pos    Vec2   `json:"pos"`
	Health Health `json:"health"`
}

// NewCrate creates an intact crate.
func NewCrate(pos Vec2) *Crate {
	return &Crate{Pos: pos, Health: Health{Current: 1, Max: 1}}
}

// advanceHostiles carries each hostile's state forward one tick so history
// stays continuous: the previous tick's position and health become this
// tick's starting values, until combat overwrites them later in the step.
func (e *Engine) advanceHostiles() {
	cur := e.clock.Current()
	prev := cur.Sub(1)
	for _, h := range e.hostiles {
		if pos, ok := h.Pos.Get(prev); ok {
			h.Pos.Set(cur, pos)
		}
		if hp, ok := h.HP.Get(prev); ok {
			h.HP.Set(cur, hp)
		}
	}
}
