// HTTP server exposing the pipeline's latest stats snapshots and
// recent log activity to other programs on the local system only.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"sensorpipe/internal/global"
	"sensorpipe/internal/logctx"
)

// SetupListener builds the HTTP server exposing two read-only local
// endpoints: global.StatsPath (the reporter's rolling snapshot
// history as JSON, newest last) and global.LogsPath (the current
// in-memory log buffer as plain text, oldest first).
func SetupListener(ctx context.Context, port int, source SnapshotSource) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc(global.StatsPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		jResp(ctx, w, source.History())
	})

	mux.HandleFunc(global.LogsPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		lines := logctx.GetLogger(ctx).GetFormattedLogLines()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		for _, line := range lines {
			io.WriteString(w, line)
		}
	})

	return &http.Server{
		Addr:         global.HTTPListenAddr + ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  global.HTTPReadTimeout,
		WriteTimeout: global.HTTPWriteTimeout,
		IdleTimeout:  global.HTTPIdleTimeout,
		ErrorLog:     log.New(httpLogWriter{ctx: ctx}, "", 0),
	}
}

// Start runs the stats HTTP server until it is closed (normally via
// ctx cancellation driving a call to srv.Shutdown/Close elsewhere).
func Start(ctx context.Context, srv *http.Server) {
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"stats query server starting on http://%s (%s, %s)\n", srv.Addr, global.StatsPath, global.LogsPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"stats query server failed: %v\n", err)
	}
}

// jResp encodes content as the JSON response body.
func jResp(ctx context.Context, w http.ResponseWriter, content any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(content); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"failed marshaling stats response: %v\n", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (lw httpLogWriter) Write(p []byte) (int, error) {
	n := len(p)
	if n == 0 {
		return 0, nil
	}
	logctx.LogEvent(lw.ctx, global.VerbosityStandard, global.ErrorLog, "%s\n", strings.TrimSpace(string(p)))
	return n, nil
}
