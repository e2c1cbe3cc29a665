package game

import (
	"math"
	"testing"
)

func newHostEngine() *Engine {
	return NewEngine(EngineConfig{TickRate: 30, Role: RoleHost, LocalID: 0})
}

// stepRemote queues a command for the upcoming tick and advances one step
func stepRemote(e *Engine, cmd Command, in InputSample) Tick {
	cmd.Tick = e.Clock().Current() + 1
	e.QueueCommand(cmd)
	return e.Step(in)
}

// spawnBoth brings the local player and remote slot 1 into the match
func spawnBoth(e *Engine, remotePos Vec2) {
	stepRemote(e, Command{ID: 1, Pos: remotePos, Events: SpawnFlag}, InputSample{SpawnPressed: true})
}

// TestInSwordArc verifies reach and cone geometry including angle wrap
func TestInSwordArc(t *testing.T) {
	deg := math.Pi / 180

	tests := []struct {
		name   string
		aim    float64
		target Vec2
		want   bool
	}{
		{"dead ahead", 0, Vec2{50, 0}, true},
		{"at reach boundary", 0, Vec2{SwordReach, 0}, true},
		{"out of reach", 0, Vec2{SwordReach + 1, 0}, false},
		{"inside cone edge", 0, Vec2{50 * math.Cos(69 * deg), 50 * math.Sin(69 * deg)}, true},
		{"outside cone", 0, Vec2{50 * math.Cos(71 * deg), 50 * math.Sin(71 * deg)}, false},
		{"perpendicular", 0, Vec2{0, 50}, false},
		{"barely off axis", 0, Vec2{50 * math.Cos(0.1 * deg), 50 * math.Sin(0.1 * deg)}, true},
		{"behind attacker", 0, Vec2{-50, 0}, false},
		{"wraps across pi", 3.0, Vec2{50 * math.Cos(-3.0), 50 * math.Sin(-3.0)}, true},
		{"facing left hits left", math.Pi, Vec2{-50, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inSwordArc(Vec2{}, tt.aim, tt.target)
			if got != tt.want {
				t.Errorf("Expected %v for aim %v target %v, got %v", tt.want, tt.aim, tt.target, got)
			}
		})
	}
}

// TestNormalizeAngle verifies normalization into (-pi, pi]
func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-math.Pi / 2, -math.Pi / 2},
		{5 * math.Pi / 2, math.Pi / 2},
	}

	for _, tt := range tests {
		got := normalizeAngle(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Expected normalizeAngle(%v) = %v, got %v", tt.in, tt.want, got)
		}
	}
}

// TestAttackDealsDamage verifies a swing in range lands sword damage
func TestAttackDealsDamage(t *testing.T) {
	e := newHostEngine()
	spawnBoth(e, Vec2{X: 50})

	cur := stepRemote(e, Command{ID: 1, Pos: Vec2{X: 50}}, InputSample{AttackPressed: true})

	hp, ok := e.player(1).HP.Get(cur)
	if !ok {
		t.Fatal("Expected target HP at the attack tick")
	}
	if hp != DefaultHP-SwordDamage {
		t.Errorf("Expected HP %d after one hit, got %d", DefaultHP-SwordDamage, hp)
	}
	if e.player(1).Health.Current != DefaultHP-SwordDamage {
		t.Errorf("Expected derived health %d, got %d", DefaultHP-SwordDamage, e.player(1).Health.Current)
	}
}

// TestAttackOutOfRange verifies a swing beyond reach does nothing
func TestAttackOutOfRange(t *testing.T) {
	e := newHostEngine()
	spawnBoth(e, Vec2{X: 200})

	cur := stepRemote(e, Command{ID: 1, Pos: Vec2{X: 200}}, InputSample{AttackPressed: true})

	hp, _ := e.player(1).HP.Get(cur)
	if hp != DefaultHP {
		t.Errorf("Expected full HP out of range, got %d", hp)
	}
}

// TestKillSequence verifies repeated hits kill exactly once and update
// both combatants' counters
func TestKillSequence(t *testing.T) {
	e := newHostEngine()
	spawnBoth(e, Vec2{X: 50})

	kills := 0
	e.OnKill = func(killer, victim uint8) {
		kills++
		if killer != 1 || victim != 0 {
			t.Errorf("Expected kill 1 -> 0, got %d -> %d", killer, victim)
		}
	}

	// The host trusts remote attack bits, so the remote attacker can
	// swing every tick: 100 -> 60 -> 20 -> 0, then one more on a corpse
	for i := 0; i < 4; i++ {
		stepRemote(e, Command{ID: 1, Pos: Vec2{X: 50}, Dir: math.Pi, Events: AttackFlag}, InputSample{})
	}

	if kills != 1 {
		t.Errorf("Expected exactly 1 kill callback, got %d", kills)
	}

	target := e.player(0)
	attacker := e.player(1)
	if !target.Health.Dead {
		t.Error("Expected target dead")
	}
	if target.Stats.Deaths != 1 {
		t.Errorf("Expected 1 death, got %d", target.Stats.Deaths)
	}
	if attacker.Stats.PlayersKilled != 1 {
		t.Errorf("Expected 1 player kill, got %d", attacker.Stats.PlayersKilled)
	}
	if attacker.Stats.Score != ScorePerKill {
		t.Errorf("Expected score %d, got %d", ScorePerKill, attacker.Stats.Score)
	}
	if attacker.Stats.KDRatio != 1.0 {
		t.Errorf("Expected KD 1.0 with zero deaths, got %v", attacker.Stats.KDRatio)
	}
	if target.Stats.KDRatio != 0.0 {
		t.Errorf("Expected KD 0.0 for the victim, got %v", target.Stats.KDRatio)
	}
}

// TestDamageSaturates verifies a hit on low HP clamps at zero instead of
// wrapping
func TestDamageSaturates(t *testing.T) {
	e := newHostEngine()
	spawnBoth(e, Vec2{X: 50})

	// Drop the local player to 10 HP directly in the buffer
	e.player(0).HP.Set(e.Clock().Current(), 10)

	cur := stepRemote(e, Command{ID: 1, Pos: Vec2{X: 50}, Dir: math.Pi, Events: AttackFlag}, InputSample{})

	hp, _ := e.player(0).HP.Get(cur)
	if hp != 0 {
		t.Errorf("Expected HP clamped at 0, got %d", hp)
	}
	if e.player(0).Stats.Deaths != 1 {
		t.Errorf("Expected exactly one death, got %d", e.player(0).Stats.Deaths)
	}
}

// TestTargetShieldBlocks verifies a raised target shield cancels the hit
func TestTargetShieldBlocks(t *testing.T) {
	e := newHostEngine()
	spawnBoth(e, Vec2{X: 50})

	// Hold the shield one tick so the derived flag is up before the swing
	e.Step(InputSample{ShieldHeld: true})

	cur := stepRemote(e, Command{ID: 1, Pos: Vec2{X: 50}, Dir: math.Pi, Events: AttackFlag},
		InputSample{ShieldHeld: true})

	hp, _ := e.player(0).HP.Get(cur)
	if hp != DefaultHP {
		t.Errorf("Expected shield to block all damage, got HP %d", hp)
	}
}

// TestAttackerShieldCancels verifies an attacker cannot deal damage while
// their own shield is up
func TestAttackerShieldCancels(t *testing.T) {
	e := newHostEngine()
	spawnBoth(e, Vec2{X: 50})

	cur := stepRemote(e,
		Command{ID: 1, Pos: Vec2{X: 50}, Dir: math.Pi, Events: AttackFlag | ShieldFlag},
		InputSample{})

	hp, _ := e.player(0).HP.Get(cur)
	if hp != DefaultHP {
		t.Errorf("Expected no damage from a shielded attacker, got HP %d", hp)
	}
}

// TestLagCompensation verifies a late swing resolves against where the
// target was at the swing's tick, not where it is now
func TestLagCompensation(t *testing.T) {
	e := newHostEngine()
	spawnBoth(e, Vec2{X: 50})

	// Local player runs left, away from the attacker
	for i := 0; i < 5; i++ {
		e.Step(InputSample{Move: DirLeft})
	}

	// Attack referencing tick 2, when the target was still in reach
	e.QueueCommand(Command{ID: 1, Tick: 2, Pos: Vec2{X: 50}, Dir: math.Pi, Events: AttackFlag})
	cur := e.Step(InputSample{Move: DirLeft})

	// Current distance is past reach, hit lands anyway
	pos, _ := e.player(0).Pos.Get(cur)
	if pos.Distance(Vec2{X: 50}) <= SwordReach {
		t.Fatalf("Test setup broken: target still in reach at %v", pos)
	}

	hp, _ := e.player(0).HP.Get(cur)
	if hp != DefaultHP-SwordDamage {
		t.Errorf("Expected lag-compensated hit for %d damage, got HP %d", SwordDamage, hp)
	}
}

// TestDamageBonusStacks verifies flat damage stacks raise the hit
func TestDamageBonusStacks(t *testing.T) {
	e := newHostEngine()
	spawnBoth(e, Vec2{X: 50})

	e.player(1).PowerUps.Stacks[PowerUpDamageDealt] = 2

	cur := stepRemote(e, Command{ID: 1, Pos: Vec2{X: 50}, Dir: math.Pi, Events: AttackFlag}, InputSample{})

	want := DefaultHP - (SwordDamage + 2*DamageDealtBonus)
	hp, _ := e.player(0).HP.Get(cur)
	if hp != want {
		t.Errorf("Expected HP %d with 2 damage stacks, got %d", want, hp)
	}
}

// TestReductionStacksDoNotReduceHits verifies reduction stacks change the
// displayed multiplier but never the damage a hit lands
func TestReductionStacksDoNotReduceHits(t *testing.T) {
	e := newHostEngine()
	spawnBoth(e, Vec2{X: 50})

	e.player(0).PowerUps.Stacks[PowerUpDamageReduction] = 1

	cur := stepRemote(e, Command{ID: 1, Pos: Vec2{X: 50}, Dir: math.Pi, Events: AttackFlag}, InputSample{})

	hp, _ := e.player(0).HP.Get(cur)
	if hp != DefaultHP-SwordDamage {
		t.Errorf("Expected full sword damage (HP %d) despite reduction stacks, got %d", DefaultHP-SwordDamage, hp)
	}

	// The stacks still drive the defense readout: 40 * 0.9 = 36
	if got := e.player(0).PowerUps.Reduction(SwordDamage); got != 36 {
		t.Errorf("Expected display reduction 36, got %d", got)
	}
}

// TestDuplicateCommandSingleSwing verifies a retransmitted attack command
// resolves only once
func TestDuplicateCommandSingleSwing(t *testing.T) {
	e := newHostEngine()
	spawnBoth(e, Vec2{X: 50})

	cmd := Command{ID: 1, Tick: e.Clock().Current() + 1, Pos: Vec2{X: 50}, Dir: math.Pi, Events: AttackFlag}
	e.QueueCommand(cmd)
	e.QueueCommand(cmd)
	cur := e.Step(InputSample{})

	hp, _ := e.player(0).HP.Get(cur)
	if hp != DefaultHP-SwordDamage {
		t.Errorf("Expected one swing's damage (HP %d), got %d", DefaultHP-SwordDamage, hp)
	}

	// The same command arriving again a step later is also a no-op
	e.QueueCommand(cmd)
	cur = e.Step(InputSample{})
	hp, _ = e.player(0).HP.Get(cur)
	if hp != DefaultHP-SwordDamage {
		t.Errorf("Expected no damage from a late duplicate, got HP %d", hp)
	}
}

// TestAttackHitsHostile verifies hostiles take damage and credit the
// killer on death
func TestAttackHitsHostile(t *testing.T) {
	e := newHostEngine()
	e.AddHostile(NewHostile(0, Vec2{X: 400}, DefaultHP))
	spawnBoth(e, Vec2{X: 350})

	for i := 0; i < 3; i++ {
		stepRemote(e, Command{ID: 1, Pos: Vec2{X: 350}, Dir: 0, Events: AttackFlag}, InputSample{})
	}

	h := e.hostiles[0]
	hp, _ := h.HP.Get(e.Clock().Current())
	if hp != 0 {
		t.Errorf("Expected hostile dead after 3 hits, got HP %d", hp)
	}
	if h.LastAttacker != 1 {
		t.Errorf("Expected last attacker 1, got %d", h.LastAttacker)
	}
	if e.player(1).Stats.EnemiesKilled != 1 {
		t.Errorf("Expected 1 enemy kill, got %d", e.player(1).Stats.EnemiesKilled)
	}
}

// TestAttackShattersCrate verifies crates break in a single hit
func TestAttackShattersCrate(t *testing.T) {
	e := newHostEngine()
	e.AddCrate(NewCrate(Vec2{X: 400}))
	spawnBoth(e, Vec2{X: 350})

	stepRemote(e, Command{ID: 1, Pos: Vec2{X: 350}, Dir: 0, Events: AttackFlag}, InputSample{})

	c := e.crates[0]
	if c.Health.Current != 0 || !c.Health.Dead {
		t.Errorf("Expected crate shattered, got %+v", c.Health)
	}
}

// TestStatsRecordKD verifies the kill/death ratio rules
func TestStatsRecordKD(t *testing.T) {
	s := Stats{PlayersKilled: 5, Deaths: 0}
	s.recordKD()
	if s.KDRatio != 5.0 {
		t.Errorf("Expected KD 5.0 with zero deaths, got %v", s.KDRatio)
	}

	s.Deaths = 2
	s.recordKD()
	if s.KDRatio != 2.5 {
		t.Errorf("Expected KD 2.5, got %v", s.KDRatio)
	}
}
