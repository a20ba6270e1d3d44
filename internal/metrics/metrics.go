// Package metrics provides per-frame summaries of a flock for sim.Simulator.
package metrics

import (
	"fmt"
	"strings"

	"github.com/san-kum/flocksim/internal/sim"
)

var constructors = map[string]func() sim.Metric{
	"mean_speed":    func() sim.Metric { return NewMeanSpeed() },
	"polarization":  func() sim.Metric { return NewPolarization() },
	"spread":        func() sim.Metric { return NewSpread() },
	"edge_fraction": func() sim.Metric { return NewEdgeFraction() },
}

// Names lists the available metrics in display order.
var Names = []string{"mean_speed", "polarization", "spread", "edge_fraction"}

// All returns a fresh instance of every metric.
func All() []sim.Metric {
	ms := make([]sim.Metric, 0, len(Names))
	for _, name := range Names {
		ms = append(ms, constructors[name]())
	}
	return ms
}

// Parse builds the metrics named in a comma-separated list. "all" or "" selects every metric.
func Parse(list string) ([]sim.Metric, error) {
	if list == "" || list == "all" {
		return All(), nil
	}
	var ms []sim.Metric
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		ctor, ok := constructors[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric %q (available: %s)", name, strings.Join(Names, ", "))
		}
		ms = append(ms, ctor())
	}
	return ms, nil
}
