package sampler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keturiosakys/raspberry-temperature-monitoring/pkg/sensor"
)

type recordingReporter struct {
	mu      sync.Mutex
	batches [][]sensor.Reading
	err     error
}

func (r *recordingReporter) Report(ctx context.Context, readings []sensor.Reading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, readings)
	return r.err
}

func (r *recordingReporter) batchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func TestLoop(t *testing.T) {
	t.Parallel()

	specs := []sensor.Spec{{Name: "attic", Pin: 17}}

	t.Run("ticks repeatedly and shuts down cleanly", func(t *testing.T) {
		t.Parallel()

		reporter := &recordingReporter{}
		loop := &Loop{
			Sampler:  New(&fakeReader{temperature: 21.5, humidity: 44.0}, Config{Cooldown: time.Millisecond}),
			Sensors:  specs,
			Reporter: reporter,
			Interval: 10 * time.Millisecond,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		err := loop.Run(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, reporter.batchCount(), 2)
		for _, batch := range reporter.batches {
			require.Len(t, batch, 1)
			assert.Equal(t, "attic", batch[0].Sensor)
		}
	})
	t.Run("delivery failure does not stop the loop", func(t *testing.T) {
		t.Parallel()

		reporter := &recordingReporter{err: fmt.Errorf("connection refused")}
		loop := &Loop{
			Sampler:  New(&fakeReader{temperature: 21.5, humidity: 44.0}, Config{Cooldown: time.Millisecond}),
			Sensors:  specs,
			Reporter: reporter,
			Interval: 10 * time.Millisecond,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		err := loop.Run(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, reporter.batchCount(), 2)
	})
	t.Run("empty cycle reports nothing", func(t *testing.T) {
		t.Parallel()

		reporter := &recordingReporter{}
		reader := &fakeReader{script: []error{
			transientErr(), transientErr(), transientErr(),
			transientErr(), transientErr(), transientErr(),
		}}
		loop := &Loop{
			Sampler:  New(reader, Config{Attempts: 1, Cooldown: time.Millisecond}),
			Sensors:  specs,
			Reporter: reporter,
			Interval: 10 * time.Millisecond,
		}
		ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
		defer cancel()
		err := loop.Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, reporter.batchCount())
	})
}
