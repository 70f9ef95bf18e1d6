// Package diag provides the structured logging used throughout the engine
// to trace node and circuit state transitions.
package diag

import (
	"log/slog"
	"os"

	"github.com/petermattis/goid"
)

var base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

// Logger returns a Logger scoped to the given component id (typically a
// Node or Circuit's uuid), tagging every record with the id of the
// goroutine that called Logger. The id is captured once, at this call,
// so records later written from other goroutines carry that same id.
func Logger(component string) *slog.Logger {
	return base.With(
		slog.String("component", component),
		slog.Int64("goroutine", goid.Get()),
	)
}

// SetLevel sets the minimum level of Loggers returned by this package
// after the call; Loggers obtained earlier keep the level they were
// created with. It is not safe to call concurrently with logging.
func SetLevel(level slog.Level) {
	base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
