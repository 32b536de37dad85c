// Package telemetry wires a root tlog span onto a context.Context, the way
// the earliest command-line entry points here did directly inline. Every
// cmd/ main collects one of these once at startup and threads it through
// the pipeline so every stage's Printw calls share one trace.
package telemetry

import (
	"context"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"
)

// NewContext returns a background context carrying a fresh root span.
func NewContext() context.Context {
	ctx := context.Background()
	return tlog.ContextWithSpan(ctx, tlog.Root())
}

// Printw logs a structured event against the span carried by ctx, falling
// back to the global default logger if ctx carries none.
func Printw(ctx context.Context, msg string, kvs ...interface{}) {
	tlog.SpanFromContext(ctx).Printw(msg, kvs...)
}

// LogError logs err against the span carried by ctx along with the caller
// that reported it, and returns err unchanged so it can sit in a return
// statement.
func LogError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	tlog.SpanFromContext(ctx).Printw("error", "err", err, "from", loc.Callers(1, 2))

	return err
}
