// Package dht adapts the MichaelS11/go-dht driver to the sensor.Reader
// interface used by the sampling cycle. The driver owns the low-level
// bit-timing decode; this package only classifies its failures.
package dht

import (
	"context"
	"fmt"
	"sync"

	godht "github.com/MichaelS11/go-dht"

	"github.com/keturiosakys/raspberry-temperature-monitoring/pkg/sensor"
)

// Reader reads DHT22 sensors over GPIO. Devices are claimed lazily on
// first read of a pin and kept for the life of the process; GPIO lines
// hold no state between reads.
type Reader struct {
	mu      sync.Mutex
	devices map[uint]*godht.DHT
}

// New initializes the GPIO host. Fails when the GPIO subsystem is
// unavailable: not running on a supported board, or missing permissions.
func New() (*Reader, error) {
	if err := godht.HostInit(); err != nil {
		return nil, fmt.Errorf("initializing GPIO host: %w", err)
	}
	return &Reader{devices: make(map[uint]*godht.DHT)}, nil
}

func (r *Reader) Read(ctx context.Context, pin uint) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	dev, err := r.device(pin)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: pin %d: %v", sensor.ErrHardware, pin, err)
	}
	humidity, temperature, err := dev.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: pin %d: %v", sensor.ErrTransient, pin, err)
	}
	return temperature, humidity, nil
}

func (r *Reader) device(pin uint) (*godht.DHT, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dev, ok := r.devices[pin]; ok {
		return dev, nil
	}
	dev, err := godht.NewDHT(fmt.Sprintf("GPIO%d", pin), godht.Celsius, "dht22")
	if err != nil {
		return nil, err
	}
	r.devices[pin] = dev
	return dev, nil
}

// Close releases nothing today; GPIO lines are stateless between reads.
// It exists to satisfy sensor.Reader.
func (r *Reader) Close() error {
	return nil
}
