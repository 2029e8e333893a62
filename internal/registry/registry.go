// Package registry loads and validates the sensor list. A malformed
// list is operator error that must be fixed before any sensor work is
// attempted, so every violation here is fatal at startup.
package registry

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/keturiosakys/raspberry-temperature-monitoring/pkg/sensor"
)

// Load reads the sensor list file and validates it.
func Load(path string) ([]sensor.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sensor list: %w", err)
	}
	var specs []sensor.Spec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parsing sensor list %s: %w", path, err)
	}
	return Validate(specs)
}

// Validate checks the registry invariants: names are non-empty,
// lowercase, free of whitespace and dots (they become Graphite path
// segments), and no two sensors share a name or a pin.
func Validate(specs []sensor.Spec) ([]sensor.Spec, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("sensor list is empty")
	}
	names := make(map[string]struct{}, len(specs))
	pins := make(map[uint]struct{}, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("sensor %d: name is empty", i)
		}
		if strings.ContainsFunc(s.Name, unicode.IsSpace) {
			return nil, fmt.Errorf("sensor %q: name contains whitespace", s.Name)
		}
		if s.Name != strings.ToLower(s.Name) {
			return nil, fmt.Errorf("sensor %q: name must be lowercase", s.Name)
		}
		if strings.Contains(s.Name, ".") {
			return nil, fmt.Errorf("sensor %q: name must not contain dots", s.Name)
		}
		if _, ok := names[s.Name]; ok {
			return nil, fmt.Errorf("sensor %q: duplicate name", s.Name)
		}
		if _, ok := pins[s.Pin]; ok {
			return nil, fmt.Errorf("sensor %q: pin %d already in use", s.Name, s.Pin)
		}
		names[s.Name] = struct{}{}
		pins[s.Pin] = struct{}{}
	}
	return specs, nil
}
