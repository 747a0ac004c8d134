// Package cli implements the chartmark command-line interface.
//
// The CLI loads drawing programs from TOML model files and either
// rasterizes them to PNG (render) or reports which parts of a model the
// raster backend cannot draw faithfully (diag).
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context. With --verbose the chartmark
// library logger is also enabled, so degraded effects (fallback paints,
// omitted filters) surface on stderr.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamp formatting writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// slogBridge adapts a charm logger for the chartmark library, which
// logs through log/slog.
func slogBridge(l *log.Logger) *slog.Logger {
	return slog.New(l)
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, falling back to the
// package default so commands always have a valid logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
