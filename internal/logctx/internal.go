package logctx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sensorpipe/internal/global"
)

// LogEvent formats message with vars (if message contains a '%' verb)
// and queues it on the Logger attached to ctx, tagged with ctx's
// current tag list. A nil logger (no logger attached to ctx) is a
// silent no-op so library code can log unconditionally.
func LogEvent(ctx context.Context, eventLevel int, severity string, message string, vars ...any) {
	tags := GetTagList(ctx)
	logger := GetLogger(ctx)
	if logger == nil {
		return
	}

	newMsg := message
	if len(vars) > 0 && (strings.Contains(message, "%") || strings.Contains(message, "%%")) {
		newMsg = fmt.Sprintf(message, vars...)
	}
	logger.log(eventLevel, severity, tags, newMsg)
}

// Logs event
func (logger *Logger) log(eventLevel int, eventSeverity string, tags []string, fullMessage string) {
	logger.mutex.Lock()
	currentLevel := logger.PrintLevel
	logger.mutex.Unlock()

	if eventLevel > currentLevel && eventSeverity != global.ErrorLog {
		return
	}

	event := Event{
		Timestamp: time.Now(),
		Tags:      tags,
		Severity:  eventSeverity,
		Message:   fullMessage,
	}

	logger.mutex.Lock()
	logger.queue = append(logger.queue, event)
	logger.cond.Signal() // Notify watcher that new event is available
	logger.mutex.Unlock()
}
