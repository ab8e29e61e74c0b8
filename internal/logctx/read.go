package logctx

import (
	"fmt"
	"sort"
	"strings"
)

// GetFormattedLogLines returns a chronologically sorted snapshot of the
// currently buffered events as complete, newline-terminated lines. Used
// by the stats HTTP endpoint to expose recent log activity without
// draining the watcher's queue.
func (logger *Logger) GetFormattedLogLines() (formatted []string) {
	// Copy under lock to avoid holding mutex while sorting/formatting
	logger.mutex.Lock()
	events := make([]Event, len(logger.queue))
	copy(events, logger.queue)
	logger.mutex.Unlock()

	// Stable sort: oldest to newest
	sort.SliceStable(events, func(i, j int) bool {
		ti := events[i].Timestamp
		tj := events[j].Timestamp

		// Zero timestamps sort last
		if ti.IsZero() && tj.IsZero() {
			return false
		}
		if ti.IsZero() {
			return false
		}
		if tj.IsZero() {
			return true
		}
		return ti.Before(tj)
	})

	formatted = make([]string, 0, len(events))
	for _, event := range events {
		var parts []string

		// Message timestamp
		if !event.Timestamp.IsZero() {
			parts = append(parts, fmt.Sprintf("[%s]", padTimestamp(event.Timestamp)))
		}

		// Message tags
		if len(event.Tags) > 0 {
			parts = append(parts, "["+strings.Join(event.Tags, "/")+"]")
		}

		// Message severity
		if event.Severity != "" {
			parts = append(parts, fmt.Sprintf("[%s]", event.Severity))
		}

		// Main text
		if event.Message != "" {
			msg := event.Message
			if !strings.HasSuffix(msg, "\n") {
				msg += "\n"
			}
			parts = append(parts, msg)
		}

		formatted = append(formatted, strings.Join(parts, " "))
	}
	return
}
