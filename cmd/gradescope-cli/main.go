package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"gradescope-backend/cmd/gradescope-cli/commands"
	"gradescope-backend/lib/telemetry"
)

func main() {
	ctx := context.Background()
	telemetry.InitSlog(false)

	// telemetry is optional for the cli, spans just won't export without a
	// telemetry.json5
	err := telemetry.SetupFromEnv(ctx, "gradescope-cli")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to set up telemetry", "err", err)
	}
	defer telemetry.Shutdown(ctx)
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
