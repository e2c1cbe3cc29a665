package game

// AttackEvent is a transient request to resolve one swing. It carries no
// target: targets are discovered at replay time from the positions buffered
// at Seq, which is what makes resolution lag-compensated and reproducible.
type AttackEvent struct {
	Seq Tick  // tick the attack was issued
	ID  uint8 // attacker slot
}

// SpawnEvent asks the host to respawn a player at the current tick.
type SpawnEvent struct {
	ID uint8
}
