// Package stats implements the ingestion pipeline's counter set: seven
// relaxed atomic counters fed by every receiver and processor thread,
// and a periodic reporter (owned by processor index 0) that exchanges
// each counter to zero and emits per-second rates.
package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// Counters holds the seven advisory counters from spec.md §4.C. Every
// field is updated with plain atomic adds; cross-counter skew between
// a concurrent recv and a concurrent reset is tolerated.
type Counters struct {
	recvPackets atomic.Uint64
	recvBytes   atomic.Uint64
	processed   atomic.Uint64
	active      atomic.Uint64
	parseErrors atomic.Uint64
	recvErrors  atomic.Uint64
	drops       atomic.Uint64
}

// Snapshot is a point-in-time, zero-and-exchange read of a Counters.
type Snapshot struct {
	Timestamp   time.Time
	Elapsed     time.Duration
	RecvPackets uint64
	RecvBytes   uint64
	Processed   uint64
	Active      uint64
	ParseErrors uint64
	RecvErrors  uint64
	Drops       uint64
}

// Reporter drives the periodic "[STATS]" log line for one transport.
// It owns the monotonic report clock; callers invoke Tick once per
// processor iteration and it no-ops until the interval elapses.
type Reporter struct {
	Transport string
	Counters  *Counters
	Interval  time.Duration

	mu         sync.Mutex
	lastTick   time.Time
	history    []Snapshot
	historyCap int
	forwarder  Forwarder
}

// NewReporter constructs a Reporter. A zero interval disables
// reporting: Tick becomes a permanent no-op, matching spec.md §4.C's
// "interval = 0 disables reporting".
func NewReporter(transport string, counters *Counters, interval time.Duration) *Reporter {
	return &Reporter{
		Transport:  transport,
		Counters:   counters,
		Interval:   interval,
		lastTick:   time.Now(),
		historyCap: 64,
	}
}
