// Package sampler drives the periodic sampling of registered sensors.
// Each sensor is sampled with a small bounded retry budget; a failed
// sensor is skipped for the current cycle only and never aborts the
// rest of the cycle or the loop.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/keturiosakys/raspberry-temperature-monitoring/pkg/sensor"
)

const (
	// DefaultAttempts is the per-cycle read budget for one sensor.
	// DHT22 read failures are common and usually resolve on retry.
	DefaultAttempts = 3

	// DefaultCooldown is the wait between read attempts. The DHT22
	// requires at least two seconds between samples.
	DefaultCooldown = 2500 * time.Millisecond
)

type Config struct {
	Attempts int
	Cooldown time.Duration
	Logger   *slog.Logger
}

// Sampler samples sensors through a Reader.
type Sampler struct {
	reader   sensor.Reader
	attempts int
	cooldown time.Duration
	logger   *slog.Logger
}

func New(reader sensor.Reader, cfg Config) *Sampler {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sampler{
		reader:   reader,
		attempts: cfg.Attempts,
		cooldown: cfg.Cooldown,
		logger:   cfg.Logger,
	}
}

// Sample reads one sensor, retrying transient faults up to the attempt
// budget with a cooldown between attempts. A hardware fault aborts the
// remaining attempts: a claimed or unreadable pin will not heal within
// a cooldown, only an operator can fix it.
func (s *Sampler) Sample(ctx context.Context, spec sensor.Spec) (sensor.Reading, error) {
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(s.cooldown):
			case <-ctx.Done():
				return sensor.Reading{}, ctx.Err()
			}
		}
		var temperature, humidity float64
		temperature, humidity, err = s.reader.Read(ctx, spec.Pin)
		if err == nil {
			return sensor.Reading{
				Sensor:      spec.Name,
				Temperature: temperature,
				Humidity:    humidity,
				Timestamp:   time.Now(),
			}, nil
		}
		if errors.Is(err, sensor.ErrHardware) {
			s.logger.LogAttrs(ctx, slog.LevelError, "Sensor hardware fault",
				slog.String("sensor", spec.Name),
				slog.Uint64("pin", uint64(spec.Pin)),
				slog.Any("error", err))
			break
		}
		s.logger.LogAttrs(ctx, slog.LevelWarn, "Sensor read failed",
			slog.String("sensor", spec.Name),
			slog.Uint64("pin", uint64(spec.Pin)),
			slog.Int("attempt", attempt),
			slog.Any("error", err))
	}
	return sensor.Reading{}, fmt.Errorf("sampling %s on pin %d: %w", spec.Name, spec.Pin, err)
}

// Cycle samples every registered sensor once, concurrently. Failed
// sensors are logged and skipped; they stay eligible for the next
// cycle. The order of the returned readings is not significant.
func (s *Sampler) Cycle(ctx context.Context, specs []sensor.Spec) []sensor.Reading {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		readings []sensor.Reading
	)
	for _, spec := range specs {
		wg.Add(1)
		go func(spec sensor.Spec) {
			defer wg.Done()
			r, err := s.Sample(ctx, spec)
			if err != nil {
				s.logger.LogAttrs(ctx, slog.LevelWarn, "Skipping sensor for this cycle",
					slog.String("sensor", spec.Name),
					slog.Any("error", err))
				return
			}
			mu.Lock()
			readings = append(readings, r)
			mu.Unlock()
		}(spec)
	}
	wg.Wait()
	return readings
}
