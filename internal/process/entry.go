package process

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"sensorpipe/internal/global"
	"sensorpipe/internal/logctx"
	"sensorpipe/internal/ring"
	"sensorpipe/internal/vad"
	"sensorpipe/pkg/wire"
)

// emptySpins is how many times a worker retries TryPop before yielding
// the OS thread, a bounded back-off in place of a busy-wait loop. The
// spec mandates some bounded back-off on empty pop without prescribing
// the exact policy (spec.md §9 Open Questions).
const emptySpins = 64

// Run drains the ring until ctx is cancelled: pop, decode, score,
// record. Workers never block and never allocate on the hot path
// (buf and pkt are stack-local, reused every iteration). id 0 also
// drives the stats report clock.
func (p *Pool) Run(ctx context.Context, id int) {
	workerCtx := logctx.AppendCtxTag(ctx, global.NSProc)
	statsCtx := logctx.AppendCtxTag(ctx, global.NSStats)

	buf := make([]byte, ring.SlotBody)
	var pkt wire.Packet
	spins := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					logctx.LogEvent(workerCtx, global.VerbosityStandard, global.ErrorLog,
						"panic in processor worker %d: %v\n%s", id, r, stack)
				}
			}()

			n, err := p.Ring.TryPop(buf)
			if err != nil {
				spins++
				if spins >= emptySpins {
					runtime.Gosched()
					spins = 0
				}
				return
			}
			spins = 0

			if decodeErr := wire.Decode(buf[:n], &pkt); decodeErr != nil {
				p.Reporter.Counters.RecordParseError()
				logctx.LogEvent(workerCtx, global.VerbosityFullData, global.WarnLog,
					"processor %d: parse error: %v\n", id, decodeErr)
				return
			}

			result := vad.Compute(&pkt)
			p.Reporter.Counters.RecordProcessed(result.IsActive)
		}()

		if id == 0 {
			p.Reporter.Tick(statsCtx, time.Now())
		}
	}
}
