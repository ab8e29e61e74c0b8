package ring

import (
	"errors"
	"runtime"
)

// Errors returned by TryPush/TryPop, matching the contract in spec §4.D.
var (
	ErrFull     = errors.New("ring: full")
	ErrEmpty    = errors.New("ring: empty")
	ErrOversize = errors.New("ring: payload exceeds slot body")
)

// New allocates a Ring with capacity rounded up to the next power of
// two (NextPowerOfTwo), matching the --ring-cap CLI contract. It
// refuses to allocate a ring whose slot storage would not plausibly
// fit in free system memory.
func New(requestedCapacity int) (*Ring, error) {
	capacity := NextPowerOfTwo(requestedCapacity)
	if err := CheckCapacityFits(capacity); err != nil {
		return nil, err
	}

	r := &Ring{
		mask:     uint64(capacity) - 1,
		capacity: uint64(capacity),
		slots:    make([]slot, capacity),
	}
	return r, nil
}

// Capacity returns the ring's actual (power-of-two) slot count.
func (r *Ring) Capacity() int {
	return int(r.capacity)
}

// TryPush reserves a slot, copies data into it, and publishes it. It
// never blocks: a full ring or an oversize payload return immediately
// without mutating any slot, matching property 7 in spec §8.
func (r *Ring) TryPush(data []byte) error {
	if len(data) > SlotBody {
		return ErrOversize
	}

	for {
		h := r.head.Load()
		t := r.tail.Load()
		if h-t >= r.capacity {
			return ErrFull
		}

		if r.head.CompareAndSwap(h, h+1) {
			s := &r.slots[h&r.mask]
			s.len = uint16(len(data))
			copy(s.data[:], data)
			// Release-store: publishes the write above to any consumer
			// that observes ready=1 via an acquire load.
			s.ready.Store(1)
			return nil
		}

		runtime.Gosched()
	}
}

// TryPop claims the oldest ready slot and copies its bytes into out,
// returning the number of bytes copied. out must be at least SlotBody
// bytes. Returns ErrEmpty if the ring has nothing ready to claim —
// either genuinely empty, or a producer has reserved but not yet
// published its slot, in which case the caller is expected to back off
// and retry (spec §4.H back-pressure-free processor loop).
func (r *Ring) TryPop(out []byte) (int, error) {
	for {
		t := r.tail.Load()
		h := r.head.Load()
		if t >= h {
			return 0, ErrEmpty
		}

		s := &r.slots[t&r.mask]
		if s.ready.Load() == 0 {
			// Producer has reserved this slot but not finished writing.
			return 0, ErrEmpty
		}

		if r.tail.CompareAndSwap(t, t+1) {
			n := int(s.len)
			copy(out, s.data[:n])
			s.ready.Store(0)
			return n, nil
		}

		runtime.Gosched()
	}
}

// PopBatch repeatedly calls TryPop into out (sized SlotBody) until the
// ring reports empty or max slots have been claimed. Not atomic across
// slots — other consumers may interleave — but each slot is still
// claimed exactly once.
func (r *Ring) PopBatch(out []byte, max int) (popped [][]byte) {
	for i := 0; i < max; i++ {
		n, err := r.TryPop(out)
		if err != nil {
			break
		}
		cp := make([]byte, n)
		copy(cp, out[:n])
		popped = append(popped, cp)
	}
	return
}

// Occupancy returns head-tail, the number of reserved-or-ready slots.
func (r *Ring) Occupancy() uint64 {
	return r.head.Load() - r.tail.Load()
}
