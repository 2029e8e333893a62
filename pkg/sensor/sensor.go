package sensor

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrTransient marks an expected, retryable read failure such as a
	// checksum or bit-timing mismatch. DHT22 parts fail reads routinely.
	ErrTransient = errors.New("transient sensor read failure")

	// ErrHardware marks a pin-level access failure: pin unavailable,
	// already claimed, or insufficient permissions.
	ErrHardware = errors.New("sensor hardware failure")
)

// Spec identifies one DHT22 sensor attached to a GPIO data pin.
// The set of specs is fixed at process start.
type Spec struct {
	Name string `yaml:"name"`
	Pin  uint   `yaml:"pin"`
}

// Reading is one successful temperature and humidity sample.
type Reading struct {
	Sensor      string    `json:"sensor"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Timestamp   time.Time `json:"ts"`
}

// Reader reads one temperature/humidity sample from a GPIO pin.
// Implementations classify failures with ErrTransient or ErrHardware
// so the sampling cycle can decide whether retrying is worthwhile.
type Reader interface {
	Read(ctx context.Context, pin uint) (temperature, humidity float64, err error)
	io.Closer
}
