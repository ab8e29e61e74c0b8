package server

import (
	"context"

	"sensorpipe/internal/stats"
)

type httpLogWriter struct {
	ctx context.Context
}

// Jerror is a JSON error body. The current handlers reject requests
// with a bare status code and do not send it.
type Jerror struct {
	Msg string `json:"error"`
}

// SnapshotSource is satisfied by *stats.Reporter: the current stats
// history, newest entries last.
type SnapshotSource interface {
	History() []stats.Snapshot
}
