// Package util provides low-level helpers shared by all other packages.
package util

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel controls output verbosity.
type LogLevel int

const (
	LogQuiet   LogLevel = 0
	LogVerbose LogLevel = 1 // -v: progress lines
	LogDebug   LogLevel = 2 // -vv: per-candidate failures, frame sizes
)

// Logger writes levelled messages.  Progress output goes to stdout,
// which is where a user running with -v expects to read it.
type Logger struct {
	level      LogLevel
	output     io.Writer
	mu         sync.Mutex
	timestamps bool // if true, prepend a wall-clock time
}

// NewLogger returns a Logger that prints messages at or below the given
// verbosity (0 = quiet, 1 = verbose, 2 = debug).
func NewLogger(verbosity int) *Logger {
	if verbosity > int(LogDebug) {
		verbosity = int(LogDebug)
	}
	return &Logger{
		level:      LogLevel(verbosity),
		output:     os.Stdout,
		timestamps: verbosity >= int(LogDebug),
	}
}

// SetOutput overrides the output writer (default: os.Stdout).
func (l *Logger) SetOutput(w io.Writer) { l.output = w }

// Enabled reports whether messages at lvl would be written.
func (l *Logger) Enabled(lvl LogLevel) bool { return l.level >= lvl }

// Info prints when verbosity ≥ 1.  Prefixed with [INF].
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogVerbose {
		l.write("INF", format, args...)
	}
}

// Warn prints when verbosity ≥ 1.  Prefixed with [WRN].
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogVerbose {
		l.write("WRN", format, args...)
	}
}

// Debug prints when verbosity ≥ 2.  Prefixed with [DBG].
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogDebug {
		l.write("DBG", format, args...)
	}
}

func (l *Logger) write(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.timestamps {
		ts := time.Now().Format("15:04:05.000")
		fmt.Fprintf(l.output, "%s [%s] %s\n", ts, level, msg)
	} else {
		fmt.Fprintf(l.output, "[%s] %s\n", level, msg)
	}
}
