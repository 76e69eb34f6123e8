package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	debugLabel = color.New(color.Faint).SprintFunc()
	infoLabel  = color.New(color.FgCyan).SprintFunc()
	warnLabel  = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// Logger writes leveled status messages to a single writer, usually
// stderr so that report output on stdout stays machine-readable.
// Debug messages are dropped unless enabled.
type Logger struct {
	W     io.Writer
	Debug bool
}

// NewLogger returns a Logger writing to stderr.
func NewLogger(debug bool) *Logger {
	return &Logger{W: os.Stderr, Debug: debug}
}

// Debugf logs a debug-level message when debug output is enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil || !l.Debug {
		return
	}
	fmt.Fprintf(l.W, "%s %s\n", debugLabel("[debug]"), fmt.Sprintf(format, args...))
}

// Infof logs a progress message.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.W, "%s %s\n", infoLabel("[info]"), fmt.Sprintf(format, args...))
}

// Warnf logs a recoverable problem.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.W, "%s %s\n", warnLabel("[warn]"), fmt.Sprintf(format, args...))
}
