package game

import "log"

// Lifecycle simulators derive externally observable state from buffered
// history once per tick. They run after transport application and combat so
// they see everything that was written for the current tick.

// carryForward seeds the current tick's health slots from the previous
// tick. Health persists across ticks in which nothing happens; without the
// carry the slot would read as a wrapped value from a full window ago.
func (e *Engine) carryForward() {
	cur := e.clock.Current()
	prev := cur.Sub(1)
	for _, p := range e.players {
		if hp, ok := p.HP.Get(prev); ok {
			p.HP.Set(cur, hp)
		}
	}
}

// spawnSimulate grants full health at the current tick for every pending
// spawn request. Host only — clients learn about spawns via snapshots.
func (e *Engine) spawnSimulate() {
	cur := e.clock.Current()
	for _, ev := range e.spawnEvents {
		p := e.player(ev.ID)
		if p == nil {
			continue
		}
		p.HP.Set(cur, DefaultHP)
		log.Printf("✨ player %d spawned at tick %d", ev.ID, cur)
		e.eventLog.EmitSimple(EventTypeSpawn, uint64(cur), ev.ID, SpawnPayload{PlayerID: ev.ID})
	}
	e.spawnEvents = e.spawnEvents[:0]
}

// healthSimulate transitions visible health/alive state from the HP buffer.
// Transitions are edge-triggered: a crossing fires exactly once, no matter
// how many ticks the entity stays on either side of it.
func (e *Engine) healthSimulate() {
	cur := e.clock.Current()
	for _, p := range e.players {
		hp, ok := p.HP.Get(cur)
		if !ok {
			continue // never spawned, nothing to derive
		}
		p.Health.Current = hp
		p.Health.Max = DefaultHP

		switch {
		case hp > 0 && p.Health.Dead:
			p.Health.Dead = false
			if p.Local && e.OnLocalSpawn != nil {
				e.OnLocalSpawn()
			}
		case hp == 0 && !p.Health.Dead:
			p.Health.Dead = true
			e.eventLog.EmitSimple(EventTypeDeath, uint64(cur), p.ID, DeathPayload{PlayerID: p.ID})
			if p.Local && e.OnLocalDeath != nil {
				e.OnLocalDeath()
			}
		}
	}
}

// shieldSimulate derives every entity's shield flag from its event buffer.
// The local entity reads at the current tick; remote entities read
// NetDelayTicks in the past to stay consistent with when their snapshots
// actually arrived.
func (e *Engine) shieldSimulate() {
	cur := e.clock.Current()
	for _, p := range e.players {
		readTick := cur
		if !p.Local {
			readTick = cur.Sub(NetDelayTicks)
		}
		ev, _ := p.Events.Get(readTick) // absent slot reads as no bits set
		p.ShieldActive = ev&ShieldFlag != 0
	}
}

// powerupSimulate hands out pickups by proximity. Host only; clients detect
// the resulting stack change when the next snapshot arrives.
func (e *Engine) powerupSimulate() {
	cur := e.clock.Current()
	for _, pu := range e.powerups {
		if pu.Taken {
			continue
		}
		for _, p := range e.players {
			if p.Health.Dead {
				continue
			}
			pos, ok := p.Pos.Get(cur)
			if !ok || pos.Distance(pu.Pos) >= PickupRange {
				continue
			}

			p.PowerUps.Stacks[pu.Type] = satAddU8(p.PowerUps.Stacks[pu.Type], 1)
			pu.Taken = true

			switch pu.Type {
			case PowerUpMeat:
				if hp, ok := p.HP.Get(cur); ok {
					p.HP.Set(cur, satAddU8(hp, MeatValue))
				}
			case PowerUpAttackSpeed:
				p.CooldownDuration = p.PowerUps.CooldownDuration(DefaultCooldown)
			}

			e.eventLog.EmitSimple(EventTypePickup, uint64(cur), p.ID,
				PickupPayload{PlayerID: p.ID, Type: pu.Type.String()})
			if p.Local && e.OnPickup != nil {
				e.OnPickup(pu.Type)
			}
			break // one claimant per pickup
		}
	}
}
