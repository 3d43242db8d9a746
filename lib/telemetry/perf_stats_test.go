package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestInstrumentPerfStatsStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	InstrumentPerfStats(ctx)
	cancel()

	// the sampler goroutine parks on the context, give it a beat to exit
	time.Sleep(10 * time.Millisecond)
}
