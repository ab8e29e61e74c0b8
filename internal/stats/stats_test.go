package stats

import (
	"context"
	"testing"
	"time"

	"sensorpipe/internal/global"
	"sensorpipe/internal/logctx"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	return logctx.New(context.Background(), global.NSTest, global.VerbosityStandard, done)
}

// Property 8: snapshotAndReset is atomic — every counter returns to
// zero and a racing increment lands in the next period, never lost.
func TestSnapshotAndResetZeroesCounters(t *testing.T) {
	var c Counters
	c.RecordRecv(100)
	c.RecordRecv(50)
	c.RecordProcessed(true)
	c.RecordProcessed(false)
	c.RecordParseError()
	c.RecordRecvError()
	c.RecordDrop()

	snap := c.snapshotAndReset()

	if snap.RecvPackets != 2 || snap.RecvBytes != 150 {
		t.Errorf("recv = %d/%d, want 2/150", snap.RecvPackets, snap.RecvBytes)
	}
	if snap.Processed != 2 || snap.Active != 1 {
		t.Errorf("processed/active = %d/%d, want 2/1", snap.Processed, snap.Active)
	}
	if snap.ParseErrors != 1 || snap.RecvErrors != 1 || snap.Drops != 1 {
		t.Errorf("errors = %+v, want all 1", snap)
	}

	second := c.snapshotAndReset()
	if second.RecvPackets != 0 || second.RecvBytes != 0 || second.Processed != 0 ||
		second.Active != 0 || second.ParseErrors != 0 || second.RecvErrors != 0 || second.Drops != 0 {
		t.Errorf("second snapshot not zero: %+v", second)
	}
}

func TestReporterZeroIntervalDisabled(t *testing.T) {
	var c Counters
	c.RecordRecv(10)
	r := NewReporter("udp", &c, 0)

	r.Tick(testCtx(t), time.Now())

	if len(r.History()) != 0 {
		t.Errorf("expected no snapshot recorded when interval is 0")
	}
}

func TestReporterElapsedFloor(t *testing.T) {
	var c Counters
	c.RecordRecv(1000)
	r := NewReporter("udp", &c, time.Millisecond)

	start := time.Now()
	r.lastTick = start.Add(-2 * time.Millisecond)
	r.Tick(testCtx(t), start)

	hist := r.History()
	if len(hist) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(hist))
	}
	if hist[0].Elapsed < time.Millisecond {
		t.Errorf("elapsed = %v, want >= 1ms floor", hist[0].Elapsed)
	}
}

func TestReporterSkipsBeforeInterval(t *testing.T) {
	var c Counters
	r := NewReporter("tcp", &c, time.Hour)
	r.Tick(testCtx(t), time.Now())
	if len(r.History()) != 0 {
		t.Errorf("expected no snapshot before interval elapses")
	}
}

type recordingForwarder struct {
	calls int
}

func (f *recordingForwarder) Forward(ctx context.Context, transport string, s Snapshot) error {
	f.calls++
	return nil
}

func TestReporterForwardsSnapshot(t *testing.T) {
	var c Counters
	c.RecordRecv(10)
	r := NewReporter("mqtt", &c, time.Millisecond)
	fwd := &recordingForwarder{}
	r.SetForwarder(fwd)

	start := time.Now()
	r.lastTick = start.Add(-time.Second)
	r.Tick(testCtx(t), start)

	if fwd.calls != 1 {
		t.Errorf("forwarder called %d times, want 1", fwd.calls)
	}
}
