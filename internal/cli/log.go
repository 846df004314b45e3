// Package cli implements the cardsheet command-line interface.
//
// Commands read card images either from a cardsheet.toml manifest or from
// image paths given on the command line, and share the layout flags
// (--page-size, --margin, --spacing, --back). Flags override manifest
// settings. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - layout: pack cards and write the layout as JSON
//   - render: write SVG, PDF, PNG or JSON sheets, fronts then backs
//   - mirror: show the back layout and front/back alignment
//   - validate: check images, alignment and cut guides
//   - stats: page count, utilization and cut instructions
//   - guides: cut guide report for printing
//   - preview: browse pages interactively in the terminal
//   - serve: run the HTTP API
//   - cache: manage the local layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Loaded 54 cards (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
