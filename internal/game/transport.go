package game

import "log"

// Command carries one entity's per-tick input from a client to the host.
type Command struct {
	ID     uint8   `json:"id"`
	Tick   Tick    `json:"tick"`
	Pos    Vec2    `json:"pos"`
	Dir    float64 `json:"dir"`
	Events uint8   `json:"events"`
}

// Snapshot carries the host's authoritative per-tick state for one entity
// down to clients.
type Snapshot struct {
	ID       uint8          `json:"id"`
	Tick     Tick           `json:"tick"`
	Pos      Vec2           `json:"pos"`
	Dir      float64        `json:"dir"`
	Events   uint8          `json:"events"`
	HP       uint8          `json:"hp"`
	Stats    Stats          `json:"stats"`
	PowerUps StoredPowerUps `json:"powerUps"`
}

// QueueCommand enqueues an inbound command for application at the start of
// the next tick. Safe to call from transport goroutines.
func (e *Engine) QueueCommand(cmd Command) {
	e.mu.Lock()
	e.inCommands = append(e.inCommands, cmd)
	e.mu.Unlock()
}

// QueueSnapshot enqueues an inbound snapshot for application at the start
// of the next tick. Safe to call from transport goroutines.
func (e *Engine) QueueSnapshot(snap Snapshot) {
	e.mu.Lock()
	e.inSnapshots = append(e.inSnapshots, snap)
	e.mu.Unlock()
}

// applyTransport drains the inbound queues. Messages may arrive out of
// order; each write is idempotent per (entity, tick), so the last write for
// a tick wins. A message older than the buffer window lands on an
// already-recycled slot and is silently accepted — a documented boundary of
// the fixed retention window, tolerated rather than patched.
func (e *Engine) applyTransport() {
	cmds := e.inCommands
	snaps := e.inSnapshots
	e.inCommands = e.inCommands[:0]
	e.inSnapshots = e.inSnapshots[:0]

	if e.clock.Role() == RoleHost {
		for _, cmd := range cmds {
			e.applyCommand(cmd)
		}
		return
	}
	e.syncClock(snaps)
	for _, snap := range snaps {
		e.applySnapshot(snap)
	}
}

// syncClock aligns a client's clock with the host tick domain carried by
// inbound snapshots. A client process starts its counter at zero, so
// without adoption every snapshot would land on slots the delayed reads
// never reach. The local entity's freshly captured slots move with the
// clock so prediction stays continuous across the jump.
func (e *Engine) syncClock(snaps []Snapshot) {
	var host Tick
	for _, s := range snaps {
		if s.Tick > host {
			host = s.Tick
		}
	}
	old := e.clock.Current()
	e.clock.Adopt(host)
	cur := e.clock.Current()
	if cur == old {
		return
	}

	if p := e.localPlayer(); p != nil {
		if pos, ok := p.Pos.Get(old); ok {
			p.Pos.Set(cur, pos)
		}
		if dir, ok := p.Dir.Get(old); ok {
			p.Dir.Set(cur, dir)
		}
		if ev, ok := p.Events.Get(old); ok {
			p.Events.Set(cur, ev)
		}
		if hp, ok := p.HP.Get(old); ok {
			p.HP.Set(cur, hp)
		}
	}
	log.Printf("🕐 clock adopted host tick %d (local %d -> %d)", host, old, cur)
}

// applyCommand writes a client's input into its entity's buffers at the
// command tick and raises the gameplay events its bits encode. Raising is
// idempotent per (entity, tick): only bits not already stored for that
// tick raise events, so a retransmitted command cannot resolve the same
// swing twice.
func (e *Engine) applyCommand(cmd Command) {
	p := e.player(cmd.ID)
	if p == nil || p.Local {
		return
	}

	prev, producedAt, known := p.Events.GetWithTick(cmd.Tick)
	if !known || producedAt != cmd.Tick {
		prev = 0 // slot holds another tick's bits, not this command's
	}

	// Position uses SetWithTick so reconciliation of a late command keeps
	// track of which tick actually produced the value.
	p.Pos.SetWithTick(cmd.Tick, cmd.Pos, cmd.Tick)
	p.Dir.Set(cmd.Tick, cmd.Dir)
	p.Events.Set(cmd.Tick, cmd.Events)

	if cmd.Events&AttackFlag != 0 && prev&AttackFlag == 0 {
		e.attackEvents = append(e.attackEvents, AttackEvent{Seq: cmd.Tick, ID: cmd.ID})
	}
	if cmd.Events&SpawnFlag != 0 && prev&SpawnFlag == 0 {
		e.spawnEvents = append(e.spawnEvents, SpawnEvent{ID: cmd.ID})
	}
	if cmd.Events&ShieldFlag != 0 {
		p.ShieldActive = true
	}
	e.eventLog.EmitSimple(EventTypeCommand, uint64(e.clock.Current()), cmd.ID,
		CommandPayload{ID: cmd.ID, Tick: uint16(cmd.Tick), Events: cmd.Events})
}

// applySnapshot overwrites an entity's buffers with host truth. Stats,
// powerups, and health land unconditionally; the local entity's own event
// buffer is left alone so locally captured intent survives (the local
// entity predicts — only remote entities are snapshot-driven for events).
func (e *Engine) applySnapshot(snap Snapshot) {
	p := e.player(snap.ID)
	if p == nil {
		return
	}
	cur := e.clock.Current()

	p.Stats = snap.Stats

	// Diff old vs. new stacks rather than recomputing from scratch: a
	// changed stack is how we know a pickup happened on the host.
	prev := p.PowerUps
	p.PowerUps = snap.PowerUps
	if prev != snap.PowerUps {
		if prev.Stacks[PowerUpAttackSpeed] != snap.PowerUps.Stacks[PowerUpAttackSpeed] {
			p.CooldownDuration = snap.PowerUps.CooldownDuration(DefaultCooldown)
		}
		if p.Local && e.OnPickup != nil {
			e.OnPickup(changedStack(prev, snap.PowerUps))
		}
	}

	p.Pos.Set(snap.Tick, snap.Pos)
	p.Dir.Set(snap.Tick, snap.Dir)
	// Health lands "now": the snapshot's HP is the host's latest word, not
	// a historical correction.
	p.HP.Set(cur, snap.HP)

	if !p.Local {
		p.Events.Set(snap.Tick, snap.Events)
		if snap.Events&ShieldFlag != 0 {
			p.ShieldActive = true
		}
	}
	e.eventLog.EmitSimple(EventTypeSnapshot, uint64(cur), snap.ID,
		SnapshotPayload{ID: snap.ID, Tick: uint16(snap.Tick), HP: snap.HP})
}

// changedStack returns the first powerup type whose stack count differs.
func changedStack(a, b StoredPowerUps) PowerUpType {
	for i := range a.Stacks {
		if a.Stacks[i] != b.Stacks[i] {
			return PowerUpType(i)
		}
	}
	return NumPowerUps
}

// emitOutbound publishes this tick's transport messages: the host pushes a
// snapshot per entity, a client pushes a command for its local entity.
func (e *Engine) emitOutbound() {
	cur := e.clock.Current()

	if e.clock.Role() == RoleHost {
		if e.OnSnapshot == nil {
			return
		}
		for _, p := range e.players {
			pos, okPos := p.Pos.Get(cur)
			dir, _ := p.Dir.Get(cur)
			ev, _ := p.Events.Get(cur)
			hp, okHP := p.HP.Get(cur)
			if !okPos && !okHP {
				continue // nothing known about this slot yet
			}
			e.OnSnapshot(Snapshot{
				ID:       p.ID,
				Tick:     cur,
				Pos:      pos,
				Dir:      dir,
				Events:   ev,
				HP:       hp,
				Stats:    p.Stats,
				PowerUps: p.PowerUps,
			})
		}
		return
	}

	if e.OnCommand == nil {
		return
	}
	p := e.localPlayer()
	if p == nil {
		return
	}
	pos, ok := p.Pos.Get(cur)
	if !ok {
		return
	}
	dir, _ := p.Dir.Get(cur)
	ev, _ := p.Events.Get(cur)
	e.OnCommand(Command{ID: p.ID, Tick: cur, Pos: pos, Dir: dir, Events: ev})
}
