// Package lifecycle handles the process-wide shutdown signal: SIGINT,
// SIGQUIT, and SIGTERM all request an orderly stop of the running
// daemon. Self-update-via-SIGHUP, systemd notify, and the IPC
// handoff the teacher's daemon uses for in-place binary replacement
// have no analogue here — packaging and reload policy are out of
// scope (spec.md §1).
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sensorpipe/internal/global"
	"sensorpipe/internal/logctx"
)

// DaemonLike is the minimal shutdown contract SignalHandler needs
// from a running daemon.
type DaemonLike interface {
	Shutdown()
}

// SignalHandler blocks until it receives a termination signal, then
// requests the daemon shut down and returns.
func SignalHandler(ctx context.Context, daemon DaemonLike) {
	sigChan := make(chan os.Signal, 10)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog, "received signal: %v, shutting down\n", sig)
	case <-ctx.Done():
	}

	daemon.Shutdown()
}
