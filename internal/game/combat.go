package game

import (
	"log"
	"math"
)

// Combat resolution is host-only and lag-compensated: every geometric
// lookup happens at the tick recorded in the attack event, never at "now",
// so identical buffer contents always resolve identically. Damage, by
// contrast, lands at the current tick — detection uses "then", effects use
// "now".

// raiseLocalEvents turns the local entity's freshly captured event bits
// into gameplay events, mirroring what applyCommand does for remote
// entities.
func (e *Engine) raiseLocalEvents() {
	p := e.localPlayer()
	if p == nil {
		return
	}
	cur := e.clock.Current()
	ev, ok := p.Events.Get(cur)
	if !ok {
		return
	}
	if ev&AttackFlag != 0 && !p.ShieldActive {
		e.attackEvents = append(e.attackEvents, AttackEvent{Seq: cur, ID: p.ID})
	}
	if ev&SpawnFlag != 0 {
		e.spawnEvents = append(e.spawnEvents, SpawnEvent{ID: p.ID})
	}
}

// resolveAttacks replays every pending attack against buffered history.
func (e *Engine) resolveAttacks() {
	cur := e.clock.Current()

	for _, ev := range e.attackEvents {
		attacker := e.player(ev.ID)
		if attacker == nil {
			continue
		}
		// Shields are fully defensive blocks, checked before any geometry:
		// a shielded attacker cannot deal damage at all. Note the shield
		// state read here is current-tick, not sequence-tick.
		if attacker.ShieldActive {
			continue
		}

		swordAngle, okDir := attacker.Dir.Get(ev.Seq)
		attackerPos, okPos := attacker.Pos.Get(ev.Seq)
		if !okDir || !okPos {
			// Stale or absent history: the swing is unresolvable this
			// round. Skip, never fail.
			log.Printf("⚔️ attack by %d at tick %d dropped: history absent", ev.ID, ev.Seq)
			continue
		}

		e.resolveAgainstHostiles(ev, attacker, attackerPos, swordAngle, cur)
		e.resolveAgainstCrates(attackerPos, swordAngle)
		e.resolveAgainstPlayers(ev, attacker, attackerPos, swordAngle, cur)
	}
	e.attackEvents = e.attackEvents[:0]
}

// inSwordArc reports whether a target position is within reach and inside
// the attack cone.
func inSwordArc(attackerPos Vec2, swordAngle float64, targetPos Vec2) bool {
	if attackerPos.Distance(targetPos) > SwordReach {
		return false
	}
	combatAngle := targetPos.Sub(attackerPos).Angle()
	diff := normalizeAngle(swordAngle - combatAngle)
	return math.Abs(diff) <= SwordHalfArcDeg*math.Pi/180
}

func (e *Engine) resolveAgainstHostiles(ev AttackEvent, attacker *Player, attackerPos Vec2, swordAngle float64, cur Tick) {
	for _, h := range e.hostiles {
		targetPos, ok := h.Pos.Get(ev.Seq)
		if !ok {
			continue
		}
		hp, ok := h.HP.Get(cur)
		if !ok || hp == 0 {
			continue
		}
		if !inSwordArc(attackerPos, swordAngle, targetPos) {
			continue
		}

		damage := satAddU8(SwordDamage, attacker.PowerUps.DamageBonus())
		next := satSubU8(hp, damage)
		h.HP.Set(cur, next)
		h.LastAttacker = int(ev.ID)
		if next == 0 {
			attacker.Stats.EnemiesKilled = satAddU32(attacker.Stats.EnemiesKilled, 1)
		}
		e.eventLog.EmitSimple(EventTypeDamage, uint64(cur), ev.ID,
			DamagePayload{AttackerID: ev.ID, TargetID: h.ID, Hostile: true, Damage: damage, TargetHP: next})
	}
}

func (e *Engine) resolveAgainstCrates(attackerPos Vec2, swordAngle float64) {
	for _, c := range e.crates {
		if c.Health.Current == 0 {
			continue
		}
		if !inSwordArc(attackerPos, swordAngle, c.Pos) {
			continue
		}
		// Crates shatter in one hit regardless of damage math.
		c.Health.Current = 0
		c.Health.Dead = true
	}
}

func (e *Engine) resolveAgainstPlayers(ev AttackEvent, attacker *Player, attackerPos Vec2, swordAngle float64, cur Tick) {
	for _, target := range e.players {
		if target.ID == ev.ID {
			continue
		}
		// Either party's shield cancels the whole exchange for this pair.
		if target.ShieldActive || attacker.ShieldActive {
			continue
		}
		targetPos, ok := target.Pos.Get(ev.Seq)
		if !ok {
			continue
		}
		if !inSwordArc(attackerPos, swordAngle, targetPos) {
			continue
		}
		hp, ok := target.HP.Get(cur)
		if !ok || hp == 0 {
			continue // already down; the death transition fires once
		}

		damage := satAddU8(SwordDamage, attacker.PowerUps.DamageBonus())
		next := satSubU8(hp, damage)
		target.HP.Set(cur, next)

		e.eventLog.EmitSimple(EventTypeDamage, uint64(cur), ev.ID,
			DamagePayload{AttackerID: ev.ID, TargetID: target.ID, Damage: damage, TargetHP: next})

		if next == 0 {
			e.recordKill(attacker, target, cur)
		}
	}
}

// recordKill updates both combatants' counters and awards the kill bonus.
func (e *Engine) recordKill(attacker, target *Player, cur Tick) {
	target.Stats.Deaths = satAddU32(target.Stats.Deaths, 1)
	target.Stats.recordKD()
	attacker.Stats.PlayersKilled = satAddU32(attacker.Stats.PlayersKilled, 1)
	attacker.Stats.recordKD()
	attacker.Stats.Score = satAddU32(attacker.Stats.Score, ScorePerKill)

	log.Printf("💀 player %d killed by %d (kills: %d)", target.ID, attacker.ID, attacker.Stats.PlayersKilled)
	e.eventLog.EmitSimple(EventTypeKill, uint64(cur), attacker.ID,
		KillPayload{KillerID: attacker.ID, VictimID: target.ID,
			KillerKills: attacker.Stats.PlayersKilled, VictimDeaths: target.Stats.Deaths})

	if e.OnKill != nil {
		e.OnKill(attacker.ID, target.ID)
	}
}
