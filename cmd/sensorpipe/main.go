// Command sensorpipe runs the sensor ingestion pipeline: one of a UDP
// datagram, TCP stream, or MQTT broker transport feeds a lock-free
// ring that a processor pool drains, decodes, and scores with the VAD
// kernel, reporting throughput at a fixed interval.
package main

import (
	"context"
	"fmt"
	"os"

	"sensorpipe/internal/cli"
	"sensorpipe/internal/config"
	"sensorpipe/internal/global"
	"sensorpipe/internal/lifecycle"
	"sensorpipe/internal/logctx"
	"sensorpipe/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	base := config.Defaults()
	_, configPath := cli.Parse(os.Args[1:], base)

	if err := config.LoadFile(configPath, &base); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	// Parse again over the file-loaded values so explicit flags win.
	cfg, _ := cli.Parse(os.Args[1:], base)
	cfg.ResolveThreadCounts()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	global.Verbosity = cfg.Verbosity

	done := make(chan struct{})
	ctx := logctx.New(context.Background(), "global", cfg.Verbosity, done)
	logger := logctx.GetLogger(ctx)
	logctx.StartWatcher(logger, os.Stdout)
	defer func() {
		close(done)
		logger.Wake()
		logger.Wait()
	}()

	daemon, err := pipeline.New(cfg)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "failed to start: %v\n", err)
		return 1
	}

	go lifecycle.SignalHandler(ctx, daemon)

	if err := daemon.Run(ctx); err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "pipeline exited with error: %v\n", err)
		return 1
	}
	return 0
}
