package beats

import (
	"context"

	"sensorpipe/internal/global"
	"sensorpipe/internal/stats"
)

// Forward ships one stats snapshot to the configured lumberjack/beats
// endpoint as a single JSON-ish document, satisfying stats.Forwarder.
// Called only from the reporter's Tick, after the counters have
// already been swapped to zero — never on the hot path.
func (mod *OutModule) Forward(ctx context.Context, transport string, s stats.Snapshot) error {
	if mod == nil {
		return nil
	}

	fields := map[string]interface{}{
		"@timestamp": s.Timestamp,
		"transport":  transport,
		"agent": map[string]interface{}{
			"program": "sensorpipe",
			"version": global.ProgVersion,
		},
		"stats": map[string]interface{}{
			"elapsed_ms":   s.Elapsed.Milliseconds(),
			"recv_packets": s.RecvPackets,
			"recv_bytes":   s.RecvBytes,
			"processed":    s.Processed,
			"active":       s.Active,
			"parse_errors": s.ParseErrors,
			"recv_errors":  s.RecvErrors,
			"drops":        s.Drops,
		},
	}

	_, err := mod.sink.Send([]interface{}{fields})
	return err
}
