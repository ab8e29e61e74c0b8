// Package pipeline wires the three interchangeable transports, the
// MPMC ring, the processor pool, and the stats reporter into one
// runnable daemon, and owns the process-wide shutdown sequence.
package pipeline

import (
	"context"
	"net/http"
	"sync"

	"sensorpipe/internal/config"
	"sensorpipe/internal/externalio/beats"
	"sensorpipe/internal/ring"
	"sensorpipe/internal/stats"
)

// Daemon runs exactly one transport's receiver(s) feeding the shared
// ring, plus the processor pool draining it. Which transport is
// selected by cfg.Transport at Run time, not at construction.
type Daemon struct {
	cfg config.Config

	ring     *ring.Ring
	counters *stats.Counters
	reporter *stats.Reporter
	beats    *beats.OutModule
	httpSrv  *http.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New allocates the ring, counters, and reporter for cfg but starts
// nothing yet; call Run to start it. A non-empty
// cfg.StatsBeatsEndpoint attaches a lumberjack forwarder to the
// reporter; connection failure here is a fatal startup error per
// spec.md §7.
func New(cfg config.Config) (*Daemon, error) {
	r, err := ring.New(cfg.RingCapacity)
	if err != nil {
		return nil, err
	}

	counters := &stats.Counters{}
	reporter := stats.NewReporter(string(cfg.Transport), counters, cfg.StatsInterval)

	d := &Daemon{
		cfg:      cfg,
		ring:     r,
		counters: counters,
		reporter: reporter,
	}

	if cfg.StatsBeatsEndpoint != "" {
		mod, err := beats.NewOutput(cfg.StatsBeatsEndpoint)
		if err != nil {
			return nil, err
		}
		d.beats = mod
		reporter.SetForwarder(mod)
	}

	return d, nil
}

// Reporter exposes the stats reporter, e.g. for the optional stats
// HTTP endpoint to read its rolling snapshot history from.
func (d *Daemon) Reporter() *stats.Reporter { return d.reporter }
