package replayer

import (
	"context"
	"log/slog"
)

const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs replay progress at the pass's own trace level.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
