// Copyright © 2024 The ELPS authors

// Package telemetry supplies the ambient logging, tracing, and metrics
// collaborators used across the compiler front end: a leveled Logger
// implementing scope.Logger, an OpenTelemetry-backed Tracer, and an
// OpenCensus-backed Metrics recorder.
package telemetry

import (
	"log"
	"os"
	"time"

	"github.com/stbscript/bsc/scope"
)

// Logger is a leveled wrapper around the standard library logger. It
// implements scope.Logger so a Scope's validate pass can report timing
// and structured labels without depending on a concrete logging
// framework.
type Logger struct {
	std      *log.Logger
	minLevel scope.Level
}

// New returns a Logger writing to stderr with the given minimum level.
func New(minLevel scope.Level) *Logger {
	return &Logger{
		std:      log.New(os.Stderr, "", log.LstdFlags),
		minLevel: minLevel,
	}
}

// Log implements scope.Logger.
func (l *Logger) Log(level scope.Level, msg string, labels ...scope.Label) {
	if level < l.minLevel {
		return
	}
	l.std.Printf("%s %s%s", levelPrefix(level), msg, formatLabels(labels))
}

// Time implements scope.Logger: it runs thunk, then logs its elapsed
// duration as a "duration_ms" label alongside the caller-supplied ones.
func (l *Logger) Time(level scope.Level, msg string, labels []scope.Label, thunk func()) {
	start := time.Now()
	thunk()
	elapsed := time.Since(start)
	l.Log(level, msg, append(append([]scope.Label(nil), labels...), scope.Label{
		Key:   "duration_ms",
		Value: elapsed.Round(time.Microsecond).String(),
	})...)
}

func levelPrefix(level scope.Level) string {
	switch level {
	case scope.LevelDebug:
		return "DEBUG"
	case scope.LevelInfo:
		return "INFO"
	case scope.LevelWarn:
		return "WARN"
	case scope.LevelError:
		return "ERROR"
	default:
		return "LOG"
	}
}

func formatLabels(labels []scope.Label) string {
	if len(labels) == 0 {
		return ""
	}
	out := ""
	for _, l := range labels {
		out += " " + l.Key + "=" + l.Value
	}
	return out
}
