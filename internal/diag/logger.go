// Package diag provides the minimal logging facility used across
// boundarycheck: a thin io.Writer wrapper, not a structured logging
// framework.
package diag

import (
	"fmt"
	"io"
)

// Logger is a minimal wrapper around an io.Writer.
type Logger struct {
	io.Writer
	verbose bool
}

// New returns a new logger which writes to w.
func New(w io.Writer) *Logger {
	return &Logger{Writer: w}
}

// SetVerbose toggles whether Debugf/Debugln actually emit anything.
func (l *Logger) SetVerbose(v bool) {
	l.verbose = v
}

// Logln logs a line.
func (l *Logger) Logln(args ...interface{}) {
	fmt.Fprintln(l, args...)
}

// Logf logs a formatted string.
func (l *Logger) Logf(f string, args ...interface{}) {
	fmt.Fprintf(l, f, args...)
}

// Debugln logs a line only when verbose mode is enabled.
func (l *Logger) Debugln(args ...interface{}) {
	if l.verbose {
		fmt.Fprintln(l, args...)
	}
}

// Debugf logs a formatted string only when verbose mode is enabled.
func (l *Logger) Debugf(f string, args ...interface{}) {
	if l.verbose {
		fmt.Fprintf(l, f, args...)
	}
}
