package stats

import (
	"context"
	"time"

	"sensorpipe/internal/global"
	"sensorpipe/internal/logctx"
)

// Forwarder receives every snapshot a Reporter produces, in addition
// to the stable log line. Implemented by the optional beats sink so
// stats stays decoupled from any particular export transport.
type Forwarder interface {
	Forward(ctx context.Context, transport string, s Snapshot) error
}

// SetForwarder attaches an optional snapshot sink. Passing nil detaches it.
func (r *Reporter) SetForwarder(f Forwarder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forwarder = f
}

// Tick checks the monotonic report clock and, once Interval has
// elapsed, resets the counters and emits the "[STATS]" line. now
// should be a fresh time.Now() reading from the caller so the clock
// retains its monotonic component across the subtraction.
func (r *Reporter) Tick(ctx context.Context, now time.Time) {
	if r.Interval <= 0 {
		return
	}

	r.mu.Lock()
	elapsed := now.Sub(r.lastTick)
	if elapsed < r.Interval {
		r.mu.Unlock()
		return
	}
	r.lastTick = now
	r.mu.Unlock()

	if elapsed < time.Millisecond {
		elapsed = time.Millisecond
	}

	snap := r.Counters.snapshotAndReset()
	snap.Timestamp = now
	snap.Elapsed = elapsed

	secs := elapsed.Seconds()
	pps := float64(snap.RecvPackets) / secs
	mbps := float64(snap.RecvBytes) * 8 / 1e6 / secs
	procPerSec := float64(snap.Processed) / secs

	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"[STATS] %s: %.0f pps, %.2f Mbps | VAD: %.0f proc/s, %d active | errors: parse=%d recv=%d drops=%d\n",
		r.Transport, pps, mbps, procPerSec, snap.Active, snap.ParseErrors, snap.RecvErrors, snap.Drops,
	)

	r.mu.Lock()
	r.history = append(r.history, snap)
	if len(r.history) > r.historyCap {
		r.history = r.history[len(r.history)-r.historyCap:]
	}
	fwd := r.forwarder
	r.mu.Unlock()

	if fwd != nil {
		if err := fwd.Forward(ctx, r.Transport, snap); err != nil {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"stats forwarder: %v\n", err)
		}
	}
}

// History returns a copy of the most recent snapshots, oldest first.
func (r *Reporter) History() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Snapshot, len(r.history))
	copy(out, r.history)
	return out
}
