package game

import "math"

// PowerUpType indexes into a player's stack counters.
type PowerUpType uint8

const (
	PowerUpMeat PowerUpType = iota
	PowerUpDamageDealt
	PowerUpDamageReduction
	PowerUpAttackSpeed
	PowerUpMovementSpeed
	NumPowerUps
)

func (t PowerUpType) String() string {
	switch t {
	case PowerUpMeat:
		return "meat"
	case PowerUpDamageDealt:
		return "damage_dealt"
	case PowerUpDamageReduction:
		return "damage_reduction"
	case PowerUpAttackSpeed:
		return "attack_speed"
	case PowerUpMovementSpeed:
		return "movement_speed"
	default:
		return "unknown"
	}
}

// Per-stack effect magnitudes.
const (
	// MeatValue is instant healing on pickup.
	MeatValue uint8 = 20
	// DamageDealtBonus adds flat damage per stack.
	DamageDealtBonus uint8 = 10
	// DamageReductionFactor is the per-stack defense multiplier reported
	// to presentation layers.
	DamageReductionFactor = 0.9
	// AttackSpeedFactor divides the cooldown duration per stack.
	AttackSpeedFactor = 1.2
	// MovementSpeedBonus adds world units per second per stack.
	MovementSpeedBonus = 40.0
)

// StoredPowerUps counts collected stacks per powerup type. Stacks modify
// cooldown, damage, and movement; they never expire within a match.
type StoredPowerUps struct {
	Stacks [NumPowerUps]uint8 `json:"stacks"`
}

// DamageBonus is the flat damage added by damage-dealt stacks, saturating.
func (s StoredPowerUps) DamageBonus() uint8 {
	return satMulU8(s.Stacks[PowerUpDamageDealt], DamageDealtBonus)
}

// MoveSpeed applies movement stacks additively to the base speed.
func (s StoredPowerUps) MoveSpeed(base float64) float64 {
	return base + float64(s.Stacks[PowerUpMovementSpeed])*MovementSpeedBonus
}

// CooldownDuration applies attack-speed stacks multiplicatively to the base
// cooldown.
func (s StoredPowerUps) CooldownDuration(base float64) float64 {
	return base * math.Pow(1/AttackSpeedFactor, float64(s.Stacks[PowerUpAttackSpeed]))
}

// Reduction scales a damage figure by the damage-reduction stacks.
// Display helper for the defense readout; combat resolution deals base
// damage plus the attacker's bonus and never consults it.
func (s StoredPowerUps) Reduction(damage uint8) uint8 {
	factor := math.Pow(DamageReductionFactor, float64(s.Stacks[PowerUpDamageReduction]))
	return uint8(float64(damage) * factor)
}

// PowerUp is a world pickup waiting to be grabbed.
type PowerUp struct {
	Type  PowerUpType `json:"type"`
	Pos   Vec2        `json:"pos"`
	Taken bool        `json:"taken"`
}
