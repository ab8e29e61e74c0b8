// Package udpt is the datagram receiver: N worker goroutines, each
// owning its own reuseport UDP socket, feeding raw datagrams into the
// shared ring.
package udpt

import (
	"time"

	"sensorpipe/internal/ring"
	"sensorpipe/internal/stats"
)

// readDeadline bounds each blocking recv so a worker can observe
// context cancellation without an extra goroutine per socket.
const readDeadline = 1 * time.Second

// Server owns the set of reuseport sockets for one UDP listener.
type Server struct {
	Port     int
	Workers  int
	Ring     *ring.Ring
	Counters *stats.Counters
}
