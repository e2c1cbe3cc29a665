package game

// Role selects which transport messages the simulation emits and consumes.
// The combat and lifecycle math is identical on both sides; only the host
// resolves attacks and publishes authoritative snapshots.
type Role int

const (
	RoleHost Role = iota
	RoleClient
)

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleClient:
		return "client"
	default:
		return "unknown"
	}
}

// Tick identifies one discrete step of the fixed-rate simulation.
// 16-bit on the wire; arithmetic near zero saturates instead of wrapping.
type Tick uint16

// Sub returns t - d, clamped at zero.
func (t Tick) Sub(d Tick) Tick {
	if d > t {
		return 0
	}
	return t - d
}

// Clock advances a monotonically increasing tick counter at the fixed
// simulation rate. The host tick is ground truth; a client runs the same
// rate but reads remote entities NetDelayTicks in the past, since remote
// snapshots necessarily lag by the network round trip.
type Clock struct {
	role Role
	tick Tick
}

// NewClock creates a clock for the given role, starting at tick zero.
func NewClock(role Role) *Clock {
	return &Clock{role: role}
}

// Advance steps the clock by exactly one tick and returns the new value.
// Pure step function; no failure mode.
func (c *Clock) Advance() Tick {
	c.tick++
	return c.tick
}

// Adopt jumps a client clock forward into the host's tick domain. The
// local tick lands at hostTick - NetDelayTicks so delayed remote reads
// fall on slots the host is actually writing. Host clocks never adopt,
// their tick is ground truth; and the jump is forward-only, a stale
// snapshot must not rewind local time.
func (c *Clock) Adopt(hostTick Tick) {
	if c.role != RoleClient {
		return
	}
	local := hostTick.Sub(NetDelayTicks)
	if local > c.tick {
		c.tick = local
	}
}

// Current returns the current tick.
func (c *Clock) Current() Tick {
	return c.tick
}

// Remote returns the tick at which remote entities should be read: the
// current tick on the host, current minus NetDelayTicks on a client.
func (c *Clock) Remote() Tick {
	if c.role == RoleClient {
		return c.tick.Sub(NetDelayTicks)
	}
	return c.tick
}

// Role returns the clock's role.
func (c *Clock) Role() Role {
	return c.role
}
