package game

// RingBuffer is a fixed-capacity history of one tracked quantity, indexed
// by tick modulo BufferCap. Each slot holds an optional value: absence
// means "never written" or "overwritten since", which is distinct from a
// zero value (zero health is real data).
//
// Reads and writes are O(1). There is no eviction beyond overwrite-on-wrap,
// so callers must not read ticks more than BufferCap steps in the past; a
// stale read silently returns whatever newer write landed in that slot.
type RingBuffer[T any] struct {
	slots [BufferCap]bufferSlot[T]
}

type bufferSlot[T any] struct {
	value T
	// produced is the tick that generated this value. Under normal writes
	// it equals the slot's own tick; prediction reconciliation may differ.
	produced Tick
	known    bool
}

// Get returns the value stored for the given tick, or false if the slot
// has never been written.
func (b *RingBuffer[T]) Get(t Tick) (T, bool) {
	s := &b.slots[int(t)%BufferCap]
	return s.value, s.known
}

// GetWithTick returns the stored value together with the tick that
// produced it.
func (b *RingBuffer[T]) GetWithTick(t Tick) (T, Tick, bool) {
	s := &b.slots[int(t)%BufferCap]
	return s.value, s.produced, s.known
}

// Set overwrites the slot for the given tick unconditionally.
func (b *RingBuffer[T]) Set(t Tick, v T) {
	b.SetWithTick(t, v, t)
}

// SetWithTick writes a value at an arbitrary tick while recording which
// tick produced it. Used when reconciling an out-of-order input command
// for a locally predicted entity.
func (b *RingBuffer[T]) SetWithTick(t Tick, v T, produced Tick) {
	s := &b.slots[int(t)%BufferCap]
	s.value = v
	s.produced = produced
	s.known = true
}
