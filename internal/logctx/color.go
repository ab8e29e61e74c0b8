package logctx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"sensorpipe/internal/global"
)

// ANSI escapes for severity-gated coloring of interactive terminal output.
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
)

// isColorTerminal reports whether output is a terminal that ANSI escapes
// should be written to, the way the teacher's install flow gates an
// interactive prompt on term.IsTerminal rather than assuming stdout is
// always a console.
func isColorTerminal(output io.Writer) bool {
	f, ok := output.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func severityColor(severity string) string {
	switch severity {
	case global.ErrorLog:
		return colorRed
	case global.WarnLog:
		return colorYellow
	case global.InfoLog:
		return colorCyan
	default:
		return ""
	}
}

// FormatColored renders event like Format, except the severity tag is
// wrapped in an ANSI color escape. Callers gate this on isColorTerminal;
// writing raw escapes to a non-terminal (a file, a pipe) would corrupt
// the log.
func (event Event) FormatColored() string {
	if event.Severity == "" {
		return event.Format()
	}

	color := severityColor(event.Severity)
	if color == "" {
		return event.Format()
	}

	plain := event.Format()
	bracket := fmt.Sprintf("[%s]", event.Severity)
	colored := color + bracket + colorReset
	return strings.Replace(plain, bracket, colored, 1)
}
