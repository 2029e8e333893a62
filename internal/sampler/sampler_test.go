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

// fakeReader returns scripted outcomes per call; a nil entry means a
// successful read. Calls beyond the script succeed.
type fakeReader struct {
	mu          sync.Mutex
	script      []error
	calls       int
	temperature float64
	humidity    float64
}

func (r *fakeReader) Read(ctx context.Context, pin uint) (float64, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var err error
	if r.calls < len(r.script) {
		err = r.script[r.calls]
	}
	r.calls++
	if err != nil {
		return 0, 0, err
	}
	return r.temperature, r.humidity, nil
}

func (r *fakeReader) Close() error {
	return nil
}

func (r *fakeReader) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// pinReader routes each pin to its own fakeReader so cycle tests can
// give sensors independent behavior.
type pinReader struct {
	readers map[uint]*fakeReader
}

func (r *pinReader) Read(ctx context.Context, pin uint) (float64, float64, error) {
	return r.readers[pin].Read(ctx, pin)
}

func (r *pinReader) Close() error {
	return nil
}

func transientErr() error {
	return fmt.Errorf("%w: checksum mismatch", sensor.ErrTransient)
}

func hardwareErr() error {
	return fmt.Errorf("%w: pin already claimed", sensor.ErrHardware)
}

func TestSample(t *testing.T) {
	t.Parallel()

	spec := sensor.Spec{Name: "attic", Pin: 17}

	t.Run("recovers within attempt budget", func(t *testing.T) {
		t.Parallel()

		reader := &fakeReader{
			script:      []error{transientErr(), transientErr(), nil},
			temperature: 21.5,
			humidity:    44.0,
		}
		s := New(reader, Config{Attempts: 3, Cooldown: time.Millisecond})
		reading, err := s.Sample(context.Background(), spec)
		require.NoError(t, err)
		assert.Equal(t, "attic", reading.Sensor)
		assert.Equal(t, 21.5, reading.Temperature)
		assert.Equal(t, 44.0, reading.Humidity)
		assert.WithinDuration(t, time.Now(), reading.Timestamp, time.Minute)
		assert.Equal(t, 3, reader.callCount())
	})
	t.Run("exhausts attempt budget", func(t *testing.T) {
		t.Parallel()

		reader := &fakeReader{
			script: []error{transientErr(), transientErr(), transientErr(), transientErr()},
		}
		s := New(reader, Config{Attempts: 3, Cooldown: time.Millisecond})
		start := time.Now()
		_, err := s.Sample(context.Background(), spec)
		require.Error(t, err)
		assert.ErrorIs(t, err, sensor.ErrTransient)
		assert.Equal(t, 3, reader.callCount())
		assert.Less(t, time.Since(start), time.Second)
	})
	t.Run("hardware fault stops retrying", func(t *testing.T) {
		t.Parallel()

		reader := &fakeReader{
			script: []error{hardwareErr(), nil},
		}
		s := New(reader, Config{Attempts: 3, Cooldown: time.Millisecond})
		_, err := s.Sample(context.Background(), spec)
		require.Error(t, err)
		assert.ErrorIs(t, err, sensor.ErrHardware)
		assert.Equal(t, 1, reader.callCount())
	})
	t.Run("cancelled during cooldown", func(t *testing.T) {
		t.Parallel()

		reader := &fakeReader{
			script: []error{transientErr(), transientErr()},
		}
		s := New(reader, Config{Attempts: 3, Cooldown: time.Hour})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.Sample(ctx, spec)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, reader.callCount())
	})
}

func TestCycle(t *testing.T) {
	t.Parallel()

	t.Run("faulty sensor does not block the others", func(t *testing.T) {
		t.Parallel()

		reader := &pinReader{
			readers: map[uint]*fakeReader{
				4:  {temperature: 19.0, humidity: 52.5},
				17: {script: []error{transientErr(), transientErr(), transientErr()}},
			},
		}
		s := New(reader, Config{Attempts: 3, Cooldown: time.Millisecond})
		specs := []sensor.Spec{
			{Name: "cellar", Pin: 4},
			{Name: "attic", Pin: 17},
		}
		readings := s.Cycle(context.Background(), specs)
		require.Len(t, readings, 1)
		assert.Equal(t, "cellar", readings[0].Sensor)
		assert.Equal(t, 19.0, readings[0].Temperature)
		assert.Equal(t, 3, reader.readers[17].callCount())
	})
	t.Run("all sensors succeed", func(t *testing.T) {
		t.Parallel()

		reader := &pinReader{
			readers: map[uint]*fakeReader{
				4:  {temperature: 19.0, humidity: 52.5},
				17: {temperature: 23.0, humidity: 40.0},
			},
		}
		s := New(reader, Config{Attempts: 1, Cooldown: time.Millisecond})
		readings := s.Cycle(context.Background(), []sensor.Spec{
			{Name: "cellar", Pin: 4},
			{Name: "attic", Pin: 17},
		})
		assert.Len(t, readings, 2)
	})
}
