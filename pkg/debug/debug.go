// Package debug provides conditional debug logging for trendscope.
//
// Debug logging is enabled by setting the TRENDSCOPE_DEBUG environment variable:
//
//	TRENDSCOPE_DEBUG=1 trendscope
//
// The TUI owns the terminal, so set TRENDSCOPE_DEBUG_LOG to a file path to
// keep log lines out of the screen. Without it, lines go to stderr.
// When disabled (default), all debug functions are no-ops.
//
// Usage:
//
//	debug.Log("fetched %d documents", len(docs))
//	debug.Event("brief_applied", map[string]any{"topic": topic, "gen": gen})
//	defer debug.LogEnterExit("LoadPayload")()
package debug

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = zerolog.Nop()
	logFile *os.File
)

func init() {
	if os.Getenv("TRENDSCOPE_DEBUG") != "" {
		SetEnabled(true)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled turns debug logging on or off. Enabling opens the output named
// by TRENDSCOPE_DEBUG_LOG, falling back to stderr.
func SetEnabled(e bool) {
	if !e {
		mu.Lock()
		enabled = false
		logger = zerolog.Nop()
		mu.Unlock()
		return
	}
	SetOutput(defaultOutput())
}

// SetOutput enables logging to w. Used by tests and by callers that want a
// specific sink.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
	logger = zerolog.New(w).With().Timestamp().Str("component", "trendscope").Logger()
}

func defaultOutput() io.Writer {
	path := os.Getenv("TRENDSCOPE_DEBUG_LOG")
	if path == "" {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	}
	mu.Lock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	mu.Unlock()
	return f
}

func current() (zerolog.Logger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, enabled
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	l, ok := current()
	if !ok {
		return
	}
	l.Debug().Msgf(format, args...)
}

// LogTiming writes a timing message.
func LogTiming(name string, d time.Duration) {
	l, ok := current()
	if !ok {
		return
	}
	l.Debug().Str("op", name).Dur("took", d).Msg("timing")
}

// Event writes a named event with structured fields.
func Event(name string, fields map[string]any) {
	l, ok := current()
	if !ok {
		return
	}
	l.Debug().Fields(fields).Msg(name)
}

// LogEnterExit logs function entry and exit with timing.
//
//	defer debug.LogEnterExit("myFunc")()
func LogEnterExit(name string) func() {
	l, ok := current()
	if !ok {
		return func() {}
	}
	l.Debug().Str("op", name).Msg("enter")
	start := time.Now()
	return func() {
		l.Debug().Str("op", name).Dur("took", time.Since(start)).Msg("exit")
	}
}
