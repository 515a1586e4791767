package textlayout

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for textlayout and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used by textlayout:
//   - [slog.LevelDebug]: itemization and fallback decisions, cache misses,
//     layout recomputation
//   - [slog.LevelInfo]: font map population
//   - [slog.LevelWarn]: shaping failures, unreadable font files
//
// Example:
//
//	textlayout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages (font, text, render)
// call this instead of keeping their own copy.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// PrintfLogger adapts the package logger to APIs that expect a
// Printf-style logger, such as go-text's fontscan. Messages go out at
// debug level.
type PrintfLogger struct{}

// Printf formats the message and logs it at debug level.
func (PrintfLogger) Printf(format string, args ...any) {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug(fmt.Sprintf(format, args...))
}
