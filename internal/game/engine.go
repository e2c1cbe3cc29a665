package game

import (
	"log"
	"sort"
	"sync"
	"time"
)

// EngineConfig selects the runtime shape of the simulation. Combat balance
// is compiled in (see constants.go); only scheduling and role vary.
type EngineConfig struct {
	TickRate int  // simulation steps per second
	Role     Role // host resolves combat, client predicts
	LocalID  uint8
	Input    InputSource // device layer port; nil means no local input
}

// Engine is the state-synchronization and combat-resolution core. It owns
// every entity's history buffers and advances them in lock step with the
// tick clock.
//
// Scheduling is single-threaded cooperative: one mutex hold per tick, all
// stage reads and writes sequential and run-to-completion. The required
// order — capture, transport-apply, combat, lifecycle — is an explicit call
// sequence in Step, because later stages read slots earlier stages wrote
// for the same tick.
type Engine struct {
	mu    sync.Mutex
	clock *Clock

	players  [MaxPlayers]*Player
	hostiles []*Hostile
	crates   []*Crate
	powerups []*PowerUp

	localID uint8
	input   InputSource
	tickLen float64 // seconds per tick

	// Inbound transport queues, drained at the start of each step.
	inCommands  []Command
	inSnapshots []Snapshot

	// Pending gameplay events raised this step.
	attackEvents []AttackEvent
	spawnEvents  []SpawnEvent

	tickRate int
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	eventLog *EventLog

	// Outbound and notification callbacks. Presentation layers subscribe
	// here; they read derived state, never the buffers.
	OnCommand    func(Command)
	OnSnapshot   func(Snapshot)
	OnKill       func(killer, victim uint8)
	OnLocalDeath func()
	OnLocalSpawn func()
	OnPickup     func(PowerUpType)
	OnTick       func(tick Tick, elapsed time.Duration)
}

// NewEngine creates the engine with every player slot pre-allocated. Slots
// are not created on join: all of them exist from the first tick, dead and
// hidden until a spawn event brings them in.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30
	}
	e := &Engine{
		clock:    NewClock(cfg.Role),
		localID:  cfg.LocalID,
		input:    cfg.Input,
		tickRate: cfg.TickRate,
		tickLen:  1.0 / float64(cfg.TickRate),
		stopChan: make(chan struct{}),
		eventLog: NewEventLog(),
	}
	for i := range e.players {
		e.players[i] = newPlayer(uint8(i), uint8(i) == cfg.LocalID)
	}
	return e
}

// Start begins the fixed-rate simulation loop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.tick()
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("🎮 simulation started as %s at %d TPS", e.clock.Role(), e.tickRate)
}

// Stop stops the simulation loop. The player slots and their buffers are
// discarded when the engine itself is released; a stopped engine cannot be
// restarted.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Printf("🛑 simulation stopped at tick %d", e.clock.Current())
}

// tick runs one scheduled step, sampling the device layer if present.
func (e *Engine) tick() {
	var in InputSample
	if e.input != nil {
		in = e.input.Sample()
	}
	start := time.Now()
	cur := e.Step(in)
	if e.OnTick != nil {
		e.OnTick(cur, time.Since(start))
	}
}

// Step advances the simulation by exactly one tick. Exported so tests can
// drive the core with synthetic ticks and inputs, without the ticker loop.
func (e *Engine) Step(in InputSample) Tick {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.clock.Advance()

	e.eventLog.EmitSimple(EventTypeTick, uint64(cur), e.localID,
		TickPayload{Role: e.clock.Role().String(), PlayerCount: MaxPlayers})

	// Stage order is load-bearing; see the type comment.
	e.carryForward()
	e.advanceHostiles()
	e.capture(in)
	e.applyTransport()

	if e.clock.Role() == RoleHost {
		e.raiseLocalEvents()
		e.resolveAttacks()
		e.spawnSimulate()
		e.powerupSimulate()
	} else {
		// Clients raise no gameplay events locally; captured intent rides
		// out through the outbound command and comes back confirmed in
		// snapshots.
		e.attackEvents = e.attackEvents[:0]
		e.spawnEvents = e.spawnEvents[:0]
	}

	e.healthSimulate()
	e.shieldSimulate()
	e.emitOutbound()

	// Transport application may have adopted the host clock, so the
	// advanced tick from the top of the step can be stale.
	return e.clock.Current()
}

// player returns the slot for an id, nil if out of range.
func (e *Engine) player(id uint8) *Player {
	if int(id) >= len(e.players) {
		return nil
	}
	return e.players[id]
}

// localPlayer returns the locally controlled entity, nil if the local id
// is out of range (a headless host relay has no local entity).
func (e *Engine) localPlayer() *Player {
	return e.player(e.localID)
}

// Clock returns the engine's tick clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// AddHostile registers a host-simulated enemy.
func (e *Engine) AddHostile(h *Hostile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hostiles = append(e.hostiles, h)
}

// AddCrate registers a breakable object.
func (e *Engine) AddCrate(c *Crate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.crates = append(e.crates, c)
}

// AddPowerUp registers a pickup.
func (e *Engine) AddPowerUp(pu *PowerUp) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.powerups = append(e.powerups, pu)
}

// PlayerView is an immutable copy of one slot's derived state, safe to hand
// to presentation layers.
type PlayerView struct {
	ID           uint8          `json:"id"`
	Pos          Vec2           `json:"pos"`
	Dir          float64        `json:"dir"`
	Health       Health         `json:"health"`
	Stats        Stats          `json:"stats"`
	PowerUps     StoredPowerUps `json:"powerUps"`
	ShieldActive bool           `json:"shieldActive"`
	Local        bool           `json:"local"`
}

// WorldState is the read-only view consumers poll.
type WorldState struct {
	Tick       Tick         `json:"tick"`
	Role       string       `json:"role"`
	Players    []PlayerView `json:"players"`
	AliveCount int          `json:"aliveCount"`
}

// GetState snapshots derived state for all slots. Remote entities report
// their delayed position, matching what the shield and render layers see.
func (e *Engine) GetState() WorldState {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.clock.Current()
	state := WorldState{
		Tick:    cur,
		Role:    e.clock.Role().String(),
		Players: make([]PlayerView, 0, MaxPlayers),
	}
	for _, p := range e.players {
		readTick := cur
		if !p.Local {
			readTick = e.clock.Remote()
		}
		pos, _ := p.Pos.Get(readTick)
		dir, _ := p.Dir.Get(readTick)
		state.Players = append(state.Players, PlayerView{
			ID:           p.ID,
			Pos:          pos,
			Dir:          dir,
			Health:       p.Health,
			Stats:        p.Stats,
			PowerUps:     p.PowerUps,
			ShieldActive: p.ShieldActive,
			Local:        p.Local,
		})
		if !p.Health.Dead {
			state.AliveCount++
		}
	}
	return state
}

// Leaderboard returns player views sorted by score, kills, then id.
func (e *Engine) Leaderboard() []PlayerView {
	state := e.GetState()
	players := state.Players
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Stats.Score != players[j].Stats.Score {
			return players[i].Stats.Score > players[j].Stats.Score
		}
		if players[i].Stats.PlayersKilled != players[j].Stats.PlayersKilled {
			return players[i].Stats.PlayersKilled > players[j].Stats.PlayersKilled
		}
		return players[i].ID < players[j].ID
	})
	return players
}

// StartEventLog initializes the audit logging system
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog gracefully stops the audit logging system
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns audit log statistics for monitoring
func (e *Engine) GetEventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}
