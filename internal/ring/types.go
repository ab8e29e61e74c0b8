// Package ring implements the bounded lock-free MPMC ring that decouples
// receiver threads from processor threads: fixed-size byte slots, a
// power-of-two capacity, and a per-slot readiness flag that resolves the
// producer-reservation-vs-write-completion race without a global lock.
package ring

import "sync/atomic"

const (
	// SlotBody is the usable byte capacity of a single slot. It must
	// hold the largest frame any transport can legitimately push: a
	// full 32-byte wire header plus the 4096-byte payload ceiling
	// (wire.HeaderLen + wire.MaxPayload = 4128), rounded up to a
	// 64-byte cache-line multiple. A smaller SLOT_BODY (spec.md's
	// floor is 504) would Oversize-drop most real packets.
	SlotBody = 4160

	// SlotSize is the total per-slot footprint: an 8-byte header
	// (ready + len + padding) followed by SlotBody bytes of storage.
	SlotSize = SlotBody + 8
)

// slot is one fixed-size ring cell. ready is the per-slot readiness
// flag from the spec: 0 = empty/free, 1 = written/claimable. len is the
// number of valid bytes in data. Both transition under the Ring's
// push/pop discipline; no other synchronization protects them.
type slot struct {
	ready atomic.Uint32
	len   uint16
	data  [SlotBody]byte
}

// Ring is a bounded MPMC queue of byte slices. head and tail are kept on
// separate cache lines (each padded to its own 64-byte region) since
// they are written by disjoint sets of goroutines (producers vs.
// consumers) and false-sharing between them would serialize otherwise
// independent CAS loops.
type Ring struct {
	head     atomic.Uint64
	_        [56]byte // pad head off tail's cache line
	tail     atomic.Uint64
	_        [56]byte
	mask     uint64
	capacity uint64
	slots    []slot
}
