package sampler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/keturiosakys/raspberry-temperature-monitoring/pkg/sensor"
)

// Reporter delivers one cycle's readings to the metrics backend.
type Reporter interface {
	Report(ctx context.Context, readings []sensor.Reading) error
}

// Loop runs sampling cycles on a fixed wall-clock interval and hands
// each cycle's readings to the reporter. Ticks never overlap: a slow
// cycle delays delivery but the ticker keeps subsequent ticks aligned
// to the interval, so delays do not compound.
type Loop struct {
	Sampler  *Sampler
	Sensors  []sensor.Spec
	Reporter Reporter
	Interval time.Duration
	Logger   *slog.Logger
}

// Run samples immediately, then on every tick, until the context is
// cancelled. Delivery failures are logged and the tick's readings
// dropped; nothing in the steady-state loop terminates the process.
func (l *Loop) Run(ctx context.Context) error {
	if l.Logger == nil {
		l.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()
	l.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			l.Logger.Info("Shutting down sampling loop")
			return nil
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	readings := l.Sampler.Cycle(ctx, l.Sensors)
	if len(readings) == 0 {
		l.Logger.LogAttrs(ctx, slog.LevelWarn, "No readings this cycle",
			slog.Int("sensors", len(l.Sensors)))
		return
	}
	if err := l.Reporter.Report(ctx, readings); err != nil {
		l.Logger.LogAttrs(ctx, slog.LevelError, "Failed to deliver readings",
			slog.Int("readings", len(readings)),
			slog.Any("error", err))
	}
}
