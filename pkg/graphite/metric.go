package graphite

import (
	"fmt"
	"strconv"
	"time"

	"github.com/keturiosakys/raspberry-temperature-monitoring/pkg/sensor"
)

// Metric is a single Graphite plaintext-protocol datapoint.
type Metric struct {
	Path      string
	Value     float64
	Timestamp time.Time
}

// String renders the metric in the plaintext wire format:
// <path> <value> <unix_timestamp>
func (m Metric) String() string {
	return fmt.Sprintf("%s %s %d", m.Path, strconv.FormatFloat(m.Value, 'f', -1, 64), m.Timestamp.Unix())
}

// FromReading expands one sensor reading into its temperature and
// humidity metrics, both under the sensor's name.
func FromReading(r sensor.Reading) []Metric {
	return []Metric{
		{Path: r.Sensor + ".temperature", Value: r.Temperature, Timestamp: r.Timestamp},
		{Path: r.Sensor + ".humidity", Value: r.Humidity, Timestamp: r.Timestamp},
	}
}
