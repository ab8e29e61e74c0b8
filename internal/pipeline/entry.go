package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"sensorpipe/internal/config"
	"sensorpipe/internal/externalio/server"
	"sensorpipe/internal/global"
	"sensorpipe/internal/logctx"
	"sensorpipe/internal/process"
	"sensorpipe/internal/transport/mqttt"
	"sensorpipe/internal/transport/tcpt"
	"sensorpipe/internal/transport/udpt"
)

// drainTimeout bounds how long Run's teardown waits for the ring to
// empty after receivers stop before tearing down the processor pool.
const drainTimeout = 2 * time.Second

// Run starts the configured transport's receiver(s) and the processor
// pool, and blocks until ctx is cancelled or a fatal startup error
// occurs. Shutdown is ordered: receivers stop first (their context is
// a child of ctx), then, once the ring has drained or drainTimeout
// elapses, the processor pool's context is cancelled, matching
// spec.md §5's "resources are released in reverse construction order".
func (d *Daemon) Run(ctx context.Context) error {
	d.ctx, d.cancel = context.WithCancel(ctx)
	defer d.cancel()

	runCtx := logctx.AppendCtxTag(d.ctx, global.NSMain)

	recvCtx, cancelRecv := context.WithCancel(d.ctx)
	group, gctx := errgroup.WithContext(recvCtx)

	switch d.cfg.Transport {
	case config.TransportUDP:
		srv := udpt.New(d.cfg.Port, d.cfg.RecvThreads, d.ring, d.counters)
		group.Go(func() error { return srv.Run(gctx) })

	case config.TransportTCP:
		addr := fmt.Sprintf(":%d", d.cfg.Port)
		srv := tcpt.New(addr, global.DefaultAcceptBacklog, d.ring, d.counters)
		group.Go(func() error { return srv.Run(gctx) })

	case config.TransportMQTT:
		clientID := fmt.Sprintf("sensorpipe-%d", os.Getpid())
		srv := mqttt.New(clientID, d.cfg.MQTTHost, d.cfg.MQTTPort, d.cfg.MQTTTopic, d.ring, d.counters)
		group.Go(func() error { return srv.Run(gctx) })

	default:
		cancelRecv()
		return fmt.Errorf("pipeline: unknown transport %q", d.cfg.Transport)
	}

	if d.cfg.MetricsHTTPPort != 0 {
		d.httpSrv = server.SetupListener(runCtx, d.cfg.MetricsHTTPPort, d.reporter)
		go server.Start(runCtx, d.httpSrv)
	}

	procPool := process.New(d.cfg.ProcThreads, d.ring, d.reporter)
	procCtx, cancelProc := context.WithCancel(d.ctx)
	for i := 0; i < d.cfg.ProcThreads; i++ {
		id := i
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			procPool.Run(procCtx, id)
		}()
	}

	logctx.LogEvent(runCtx, global.VerbosityStandard, global.InfoLog,
		"sensorpipe running: transport=%s recv-threads=%d proc-threads=%d ring-cap=%d\n",
		d.cfg.Transport, d.cfg.RecvThreads, d.cfg.ProcThreads, d.ring.Capacity())

	recvErr := group.Wait()
	cancelRecv()

	d.waitForDrain(drainTimeout)
	cancelProc()
	d.wg.Wait()

	if d.httpSrv != nil {
		d.httpSrv.Close()
	}
	if d.beats != nil {
		d.beats.Shutdown()
	}

	if recvErr != nil && ctx.Err() == nil {
		return recvErr
	}
	return nil
}

// waitForDrain polls the ring's occupancy until it reaches zero or
// timeout elapses, so a clean shutdown doesn't discard packets the
// receivers already accepted but the processors haven't claimed yet.
func (d *Daemon) waitForDrain(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	backoff := 1 * time.Millisecond
	for time.Now().Before(deadline) {
		if d.ring.Occupancy() == 0 {
			return
		}
		time.Sleep(backoff)
		if backoff < 50*time.Millisecond {
			backoff *= 2
		}
	}
}

// Shutdown requests an orderly stop; Run returns once teardown
// completes. Safe to call multiple times.
func (d *Daemon) Shutdown() {
	if d.cancel != nil {
		d.cancel()
	}
}
