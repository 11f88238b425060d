package core

import (
	"fmt"

	"github.com/signalsfoundry/wlan-contention/model"
)

// SweepContentionWindow evaluates base once per window in windows, keeping
// every other parameter fixed. Results follow the input order.
func SweepContentionWindow(base model.NetworkConfiguration, windows []int) ([]model.PerformanceResult, error) {
	return sweep(base, windows, func(cfg *model.NetworkConfiguration, v int) { cfg.ContentionWindow = v })
}

// SweepStationCount evaluates base once per station count in counts.
func SweepStationCount(base model.NetworkConfiguration, counts []int) ([]model.PerformanceResult, error) {
	return sweep(base, counts, func(cfg *model.NetworkConfiguration, v int) { cfg.StationCount = v })
}

func sweep(base model.NetworkConfiguration, values []int, set func(*model.NetworkConfiguration, int)) ([]model.PerformanceResult, error) {
	out := make([]model.PerformanceResult, 0, len(values))
	for i, v := range values {
		cfg := base
		set(&cfg, v)
		res, err := Evaluate(cfg)
		if err != nil {
			return nil, fmt.Errorf("sweep point %d (%d): %w", i, v, err)
		}
		out = append(out, res)
	}
	return out, nil
}
