package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/signalsfoundry/wlan-contention/model"
)

var (
	// ErrInvalidConfiguration is returned when a configuration value is out of
	// range. It is never repaired silently.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrNumericDegenerate is returned when the mean slot duration is zero,
	// which would otherwise produce an infinite or NaN throughput.
	ErrNumericDegenerate = errors.New("numerically degenerate configuration")
)

// Validate checks a configuration before any computation.
func Validate(cfg model.NetworkConfiguration) error {
	if cfg.StationCount < 1 {
		return fmt.Errorf("%w: station_count must be >= 1, got %d", ErrInvalidConfiguration, cfg.StationCount)
	}
	if cfg.ContentionWindow < 1 {
		return fmt.Errorf("%w: contention_window must be >= 1, got %d", ErrInvalidConfiguration, cfg.ContentionWindow)
	}
	if !isFinite(cfg.PacketBits) || cfg.PacketBits <= 0 {
		return fmt.Errorf("%w: packet_bits must be > 0, got %v", ErrInvalidConfiguration, cfg.PacketBits)
	}
	if !isFinite(cfg.DataRateBps) || cfg.DataRateBps <= 0 {
		return fmt.Errorf("%w: data_rate_bps must be > 0, got %v", ErrInvalidConfiguration, cfg.DataRateBps)
	}
	return validateTiming(cfg.SlotTiming())
}

func validateTiming(t model.SlotTiming) error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"empty_slot_s", t.EmptySeconds},
		{"difs_s", t.DIFSSeconds},
		{"sifs_s", t.SIFSSeconds},
		{"ack_s", t.ACKSeconds},
		{"tx_s", t.TxSeconds},
	} {
		if !isFinite(f.value) || f.value < 0 {
			return fmt.Errorf("%w: %s must be a non-negative duration, got %v", ErrInvalidConfiguration, f.name, f.value)
		}
	}
	return nil
}

// TransmissionProbability returns tau = 2/(W+1), the per-station probability
// of transmitting in a generic slot.
func TransmissionProbability(w int) (float64, error) {
	if w < 1 {
		return 0, fmt.Errorf("%w: contention_window must be >= 1, got %d", ErrInvalidConfiguration, w)
	}
	return 2 / float64(w+1), nil
}

// ComputeSlotProbabilities returns the slot outcome probabilities for n
// stations sharing a contention window of w.
//
// The collision probability is the remainder 1 - p_empty - p_success. Each
// value is clamped into [0,1] afterwards, so a rounding excursion such as
// -1e-17 is reported as 0. With a single station the collision probability
// is exactly 0.
func ComputeSlotProbabilities(n, w int) (model.SlotOutcomeProbabilities, error) {
	raw, err := rawSlotProbabilities(n, w)
	if err != nil {
		return model.SlotOutcomeProbabilities{}, err
	}
	return model.SlotOutcomeProbabilities{
		Empty:     clampUnit(raw.Empty),
		Collision: clampUnit(raw.Collision),
		Success:   clampUnit(raw.Success),
	}, nil
}

func rawSlotProbabilities(n, w int) (model.SlotOutcomeProbabilities, error) {
	if n < 1 {
		return model.SlotOutcomeProbabilities{}, fmt.Errorf("%w: station_count must be >= 1, got %d", ErrInvalidConfiguration, n)
	}
	tau, err := TransmissionProbability(w)
	if err != nil {
		return model.SlotOutcomeProbabilities{}, err
	}

	idle := 1 - tau
	pe := math.Pow(idle, float64(n))
	// math.Pow(0, 0) == 1, so W=1 with a single station yields p_success = 1.
	ps := float64(n) * tau * math.Pow(idle, float64(n-1))

	if n == 1 {
		return model.SlotOutcomeProbabilities{Empty: pe, Success: ps}, nil
	}
	return model.SlotOutcomeProbabilities{
		Empty:     pe,
		Collision: 1 - pe - ps,
		Success:   ps,
	}, nil
}

// ComputeAverageSlotDuration weighs the empty, collision and success slot
// durations by their probabilities.
func ComputeAverageSlotDuration(p model.SlotOutcomeProbabilities, t model.SlotTiming) (float64, error) {
	if err := validateTiming(t); err != nil {
		return 0, err
	}
	mean := p.Empty*t.EmptySeconds + p.Collision*t.CollisionSeconds() + p.Success*t.SuccessSeconds()
	if !isFinite(mean) {
		return 0, fmt.Errorf("%w: mean slot duration is %v", ErrNumericDegenerate, mean)
	}
	if mean <= 0 {
		return 0, fmt.Errorf("%w: mean slot duration is zero", ErrNumericDegenerate)
	}
	return mean, nil
}

// ComputeThroughput returns the long-run goodput in bits per second:
// successfully delivered bits per slot over the mean slot duration.
func ComputeThroughput(p model.SlotOutcomeProbabilities, meanSlotSeconds, packetBits float64) (float64, error) {
	if !isFinite(packetBits) || packetBits < 0 {
		return 0, fmt.Errorf("%w: packet_bits must be >= 0, got %v", ErrInvalidConfiguration, packetBits)
	}
	if !isFinite(meanSlotSeconds) || meanSlotSeconds <= 0 {
		return 0, fmt.Errorf("%w: cannot divide by mean slot duration %v", ErrNumericDegenerate, meanSlotSeconds)
	}
	return p.Success * packetBits / meanSlotSeconds, nil
}

// MaxThroughput is the single-station upper bound L / T_success.
func MaxThroughput(cfg model.NetworkConfiguration) (float64, error) {
	if err := Validate(cfg); err != nil {
		return 0, err
	}
	ts := cfg.SlotTiming().SuccessSeconds()
	if ts <= 0 {
		return 0, fmt.Errorf("%w: success slot duration is zero", ErrNumericDegenerate)
	}
	return cfg.PacketBits / ts, nil
}

// Evaluate runs the full model for one configuration.
func Evaluate(cfg model.NetworkConfiguration) (model.PerformanceResult, error) {
	if err := Validate(cfg); err != nil {
		return model.PerformanceResult{}, err
	}

	tau, err := TransmissionProbability(cfg.ContentionWindow)
	if err != nil {
		return model.PerformanceResult{}, err
	}
	probs, err := ComputeSlotProbabilities(cfg.StationCount, cfg.ContentionWindow)
	if err != nil {
		return model.PerformanceResult{}, err
	}

	timing := cfg.SlotTiming()
	mean, err := ComputeAverageSlotDuration(probs, timing)
	if err != nil {
		return model.PerformanceResult{}, err
	}
	throughput, err := ComputeThroughput(probs, mean, cfg.PacketBits)
	if err != nil {
		return model.PerformanceResult{}, err
	}

	return model.PerformanceResult{
		Configuration:   cfg,
		Tau:             tau,
		Probabilities:   probs,
		Durations:       timing.Durations(),
		MeanSlotSeconds: mean,
		ThroughputBps:   throughput,
	}, nil
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
