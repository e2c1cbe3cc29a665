package game

import "math"

// DirMask packs the four movement keys into one nibble. The device layer
// decodes physical keys into this mask; the core never sees key codes.
type DirMask uint8

const (
	DirUp DirMask = 1 << iota
	DirDown
	DirLeft
	DirRight
)

const diag = math.Sqrt2 / 2

// MoveVectors maps a DirMask to a unit (or diagonal) movement vector.
// A lookup table instead of trigonometry keeps movement deterministic and
// avoids square roots at runtime. Opposing keys cancel out.
var MoveVectors = [16]Vec2{
	{0, 0},         // ----
	{0, 1},         // U
	{0, -1},        // D
	{0, 0},         // UD
	{-1, 0},        // L
	{-diag, diag},  // UL
	{-diag, -diag}, // DL
	{-1, 0},        // UDL
	{1, 0},         // R
	{diag, diag},   // UR
	{diag, -diag},  // DR
	{1, 0},         // UDR
	{0, 0},         // LR
	{0, 1},         // ULR
	{0, -1},        // DLR
	{0, 0},         // UDLR
}

// InputSample is one tick's worth of already-decoded device state.
// Attack and spawn are edge-sensitive (transitions), shield is
// level-sensitive (held).
type InputSample struct {
	Move          DirMask
	Aim           float64 // facing angle in radians
	AttackPressed bool
	SpawnPressed  bool
	ShieldHeld    bool
}

// InputSource supplies one sample per simulation tick for the locally
// controlled entity.
type InputSource interface {
	Sample() InputSample
}

// InputFunc adapts a plain function to an InputSource.
type InputFunc func() InputSample

func (f InputFunc) Sample() InputSample { return f() }

// capture writes the local entity's sampled input into the current tick's
// buffer slots: integrated position, facing angle, and event bits.
//
// Event bits are OR'd into whatever the slot already holds so that two
// intents landing in the same tick (an attack press while the shield bit is
// being managed) both stay observable; overwriting would drop one.
func (e *Engine) capture(in InputSample) {
	p := e.localPlayer()
	if p == nil {
		return
	}
	cur := e.clock.Current()

	// Attack cooldown decays in wall time regardless of what else happens.
	if p.Cooldown > 0 {
		p.Cooldown -= e.tickLen
	}

	// Position: integrate last known position by the movement vector.
	// Movement-speed stacks add a flat bonus per stack.
	prev, ok := p.Pos.Get(cur.Sub(1))
	if !ok {
		prev = Vec2{}
	}
	speed := p.PowerUps.MoveSpeed(PlayerSpeed)
	pos := prev.Add(MoveVectors[in.Move&0xF].Scale(speed * e.tickLen))
	p.Pos.Set(cur, pos)
	p.Dir.Set(cur, in.Aim)

	// Shield is level-sensitive: set or clear only its own bit.
	if in.ShieldHeld {
		p.recordEvent(cur, ShieldFlag)
	} else {
		p.clearEvent(cur, ShieldFlag)
	}

	// Attacking is blocked while shielding and gated by the cooldown.
	if in.AttackPressed && !p.ShieldActive && p.Cooldown <= 0 {
		p.recordEvent(cur, AttackFlag)
		p.Cooldown = p.CooldownDuration
	}

	// Spawn requests only mean something while dead.
	if in.SpawnPressed && p.Health.Dead {
		p.recordEvent(cur, SpawnFlag)
	}
}
