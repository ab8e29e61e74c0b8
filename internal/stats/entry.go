package stats

// RecordRecv accounts one received packet of n bytes.
func (c *Counters) RecordRecv(n int) {
	c.recvPackets.Add(1)
	c.recvBytes.Add(uint64(n))
}

// RecordProcessed accounts one decoded-and-scored packet, tallying it
// against the active-VAD counter when active is true.
func (c *Counters) RecordProcessed(active bool) {
	c.processed.Add(1)
	if active {
		c.active.Add(1)
	}
}

// RecordParseError accounts one packet rejected by the wire codec.
func (c *Counters) RecordParseError() {
	c.parseErrors.Add(1)
}

// RecordRecvError accounts one persistent transport-level receive
// error (not the transient Interrupted/WouldBlock/Timeout cases,
// which are not counted at all per spec.md §4.E).
func (c *Counters) RecordRecvError() {
	c.recvErrors.Add(1)
}

// RecordDrop accounts one packet discarded because the ring was full.
func (c *Counters) RecordDrop() {
	c.drops.Add(1)
}

// snapshotAndReset atomically exchanges every counter to zero and
// returns what it held, so concurrent producers between the read and
// the reset never lose an increment: it lands in the next period.
func (c *Counters) snapshotAndReset() (s Snapshot) {
	s.RecvPackets = c.recvPackets.Swap(0)
	s.RecvBytes = c.recvBytes.Swap(0)
	s.Processed = c.processed.Swap(0)
	s.Active = c.active.Swap(0)
	s.ParseErrors = c.parseErrors.Swap(0)
	s.RecvErrors = c.recvErrors.Swap(0)
	s.Drops = c.drops.Swap(0)
	return
}
