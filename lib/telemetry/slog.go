package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the process-wide slog handler. debug drops the level to
// LevelDebug, which also turns on per-request logging in InstrumentResty.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
