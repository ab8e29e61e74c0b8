package ring

import (
	"fmt"

	"github.com/pbnjay/memory"
)

// NextPowerOfTwo rounds start up to the nearest power of two, with a
// floor of 1. Ring capacities are always a power of two so the index
// mask (capacity-1) can replace a modulo on every push/pop.
func NextPowerOfTwo(start int) (next int) {
	if start <= 1 {
		next = 1
		return
	}
	start--
	start |= start >> 1
	start |= start >> 2
	start |= start >> 4
	start |= start >> 8
	start |= start >> 16
	start |= start >> 32
	next = start + 1
	return
}

// CheckCapacityFits compares the byte footprint of a ring with the
// given slot count against currently free system memory, returning an
// error if the allocation would plausibly exhaust it. A zero reading
// from memory.FreeMemory (container cgroup without a readable limit,
// or an unsupported platform) disables the check rather than blocking
// startup on a value that can't be trusted.
func CheckCapacityFits(capacity int) error {
	avail := memory.FreeMemory()
	if avail == 0 {
		return nil
	}

	want := uint64(capacity) * uint64(SlotSize)
	if want > avail {
		return fmt.Errorf("ring: requested capacity %d needs %d bytes, only %d free", capacity, want, avail)
	}
	return nil
}
