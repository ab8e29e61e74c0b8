// Package tcpt is the stream receiver: a single accept loop over a
// reuseport TCP listener, framing each connection's byte stream with
// a 4-byte little-endian length prefix ahead of each wire packet.
package tcpt

import (
	"sensorpipe/internal/ring"
	"sensorpipe/internal/stats"
)

const (
	minFrameLen = 32    // a frame must contain at least the wire header
	maxFrameLen = 65535 // spec ceiling on a single framed packet
)

// Server owns the accept loop for one TCP listener.
type Server struct {
	Addr     string
	Backlog  int
	Ring     *ring.Ring
	Counters *stats.Counters
}
