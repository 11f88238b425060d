package core

import (
	"errors"
	"math"
	"testing"

	"github.com/signalsfoundry/wlan-contention/model"
)

func withinRel(got, want, rel float64) bool {
	if want == 0 {
		return math.Abs(got) <= rel
	}
	return math.Abs(got-want)/math.Abs(want) <= rel
}

func TestEvaluateReferenceScenario(t *testing.T) {
	res, err := Evaluate(model.DefaultNetworkConfiguration())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"tau", res.Tau, 2.0 / 17.0},
		{"p_empty", res.Probabilities.Empty, 0.0818176},
		{"p_success", res.Probabilities.Success, 0.2181803},
		{"p_collision", res.Probabilities.Collision, 0.7000021},
		{"T_tx", res.Durations.Transmission, 2.553191e-4},
		{"T_collision", res.Durations.Collision, 3.213191e-4},
		{"T_success", res.Durations.Success, 3.453191e-4},
		{"mean_slot", res.MeanSlotSeconds, 3.010023e-4},
		{"throughput", res.ThroughputBps, 8.698151e6},
	}
	for _, c := range checks {
		if !withinRel(c.got, c.want, 0.01) {
			t.Errorf("%s = %v, want %v within 1%%", c.name, c.got, c.want)
		}
	}
	if res.Durations.Empty != model.DefaultEmptySlotSeconds {
		t.Errorf("empty slot duration = %v, want %v", res.Durations.Empty, model.DefaultEmptySlotSeconds)
	}
	if res.Configuration != model.DefaultNetworkConfiguration() {
		t.Errorf("result does not carry its configuration: %+v", res.Configuration)
	}
}

func TestRawProbabilitiesSumToOne(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 10, 20, 50, 100, 500} {
		for _, w := range []int{1, 2, 3, 7, 16, 31, 64, 255, 1023} {
			raw, err := rawSlotProbabilities(n, w)
			if err != nil {
				t.Fatalf("rawSlotProbabilities(%d,%d): %v", n, w, err)
			}
			if d := math.Abs(raw.Sum() - 1); d > 1e-9 {
				t.Fatalf("N=%d W=%d: raw sum off by %g", n, w, d)
			}

			p, err := ComputeSlotProbabilities(n, w)
			if err != nil {
				t.Fatalf("ComputeSlotProbabilities(%d,%d): %v", n, w, err)
			}
			for name, v := range map[string]float64{"empty": p.Empty, "collision": p.Collision, "success": p.Success} {
				if v < 0 || v > 1 || math.IsNaN(v) {
					t.Fatalf("N=%d W=%d: %s = %v outside [0,1]", n, w, name, v)
				}
			}
		}
	}
}

func TestSingleStationNeverCollides(t *testing.T) {
	for _, w := range []int{1, 2, 16, 1024, 1 << 20} {
		p, err := ComputeSlotProbabilities(1, w)
		if err != nil {
			t.Fatalf("ComputeSlotProbabilities(1,%d): %v", w, err)
		}
		if p.Collision != 0 {
			t.Errorf("W=%d: p_collision = %v, want exactly 0", w, p.Collision)
		}
		if want := 2 / float64(w+1); p.Success != want {
			t.Errorf("W=%d: p_success = %v, want exactly %v", w, p.Success, want)
		}
	}
}

func TestUnitWindowDoesNotProduceNaN(t *testing.T) {
	p, err := ComputeSlotProbabilities(1, 1)
	if err != nil {
		t.Fatalf("ComputeSlotProbabilities: %v", err)
	}
	if p.Success != 1 || p.Empty != 0 || p.Collision != 0 {
		t.Fatalf("N=1 W=1: got %+v, want certain success", p)
	}

	p, err = ComputeSlotProbabilities(10, 1)
	if err != nil {
		t.Fatalf("ComputeSlotProbabilities: %v", err)
	}
	if p.Collision != 1 || p.Empty != 0 || p.Success != 0 {
		t.Fatalf("N=10 W=1: got %+v, want certain collision", p)
	}
}

func TestMonotonicInContentionWindow(t *testing.T) {
	for _, n := range []int{2, 5, 20, 60} {
		prev, err := ComputeSlotProbabilities(n, 1)
		if err != nil {
			t.Fatalf("ComputeSlotProbabilities: %v", err)
		}
		prevTau, _ := TransmissionProbability(1)
		for w := 2; w <= 512; w++ {
			cur, err := ComputeSlotProbabilities(n, w)
			if err != nil {
				t.Fatalf("ComputeSlotProbabilities(%d,%d): %v", n, w, err)
			}
			tau, _ := TransmissionProbability(w)
			if !(tau < prevTau) {
				t.Fatalf("W=%d: tau %v not below %v", w, tau, prevTau)
			}
			// For large N and small W both values sit at the floating point
			// floor, so only require strictness once they can move.
			if prev.Empty > 0 && !(cur.Empty > prev.Empty) {
				t.Fatalf("N=%d W=%d: p_empty %v did not increase from %v", n, w, cur.Empty, prev.Empty)
			}
			if cur.Collision > prev.Collision || (prev.Collision < 1 && !(cur.Collision < prev.Collision)) {
				t.Fatalf("N=%d W=%d: p_collision %v did not decrease from %v", n, w, cur.Collision, prev.Collision)
			}
			prev, prevTau = cur, tau
		}
	}
}

func TestThroughputVanishesWhenEveryoneTransmits(t *testing.T) {
	cfg := model.DefaultNetworkConfiguration()
	cfg.ContentionWindow = 1
	cfg.StationCount = 2
	res, err := Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.ThroughputBps != 0 {
		t.Fatalf("W=1 N=2 throughput = %v, want 0", res.ThroughputBps)
	}

	cfg.ContentionWindow = 2
	cfg.StationCount = 500
	res, err = Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.ThroughputBps < 0 || res.ThroughputBps > 1e-60 {
		t.Fatalf("W=2 N=500 throughput = %v, want ~0", res.ThroughputBps)
	}
}

func TestThroughputBoundedBySingleStationMaximum(t *testing.T) {
	base := model.DefaultNetworkConfiguration()
	max, err := MaxThroughput(base)
	if err != nil {
		t.Fatalf("MaxThroughput: %v", err)
	}
	for _, n := range []int{1, 2, 5, 20, 100} {
		for _, w := range []int{1, 4, 16, 64, 1024} {
			cfg := base
			cfg.StationCount, cfg.ContentionWindow = n, w
			res, err := Evaluate(cfg)
			if err != nil {
				t.Fatalf("Evaluate(N=%d,W=%d): %v", n, w, err)
			}
			if res.ThroughputBps < 0 || res.ThroughputBps > max*(1+1e-12) {
				t.Fatalf("N=%d W=%d: throughput %v outside [0, %v]", n, w, res.ThroughputBps, max)
			}
		}
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	cfg := model.DefaultNetworkConfiguration()
	a, err := Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	b, err := Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if a != b {
		t.Fatalf("repeated evaluation differs:\n%+v\n%+v", a, b)
	}
}

func TestValidateRejectsInvalidConfiguration(t *testing.T) {
	cases := map[string]func(*model.NetworkConfiguration){
		"zero stations":     func(c *model.NetworkConfiguration) { c.StationCount = 0 },
		"negative stations": func(c *model.NetworkConfiguration) { c.StationCount = -3 },
		"zero window":       func(c *model.NetworkConfiguration) { c.ContentionWindow = 0 },
		"zero packet":       func(c *model.NetworkConfiguration) { c.PacketBits = 0 },
		"zero rate":         func(c *model.NetworkConfiguration) { c.DataRateBps = 0 },
		"negative difs":     func(c *model.NetworkConfiguration) { c.DIFSSeconds = -1e-6 },
		"negative sifs":     func(c *model.NetworkConfiguration) { c.SIFSSeconds = -1e-6 },
		"negative ack":      func(c *model.NetworkConfiguration) { c.ACKSeconds = -1e-6 },
		"negative empty":    func(c *model.NetworkConfiguration) { c.EmptySlotSeconds = -1e-6 },
		"nan rate":          func(c *model.NetworkConfiguration) { c.DataRateBps = math.NaN() },
		"inf packet":        func(c *model.NetworkConfiguration) { c.PacketBits = math.Inf(1) },
	}
	for name, mutate := range cases {
		cfg := model.DefaultNetworkConfiguration()
		mutate(&cfg)
		if _, err := Evaluate(cfg); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("%s: Evaluate error = %v, want ErrInvalidConfiguration", name, err)
		}
	}

	if _, err := ComputeSlotProbabilities(0, 16); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("ComputeSlotProbabilities(0,16) error = %v", err)
	}
	if _, err := ComputeSlotProbabilities(3, 0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("ComputeSlotProbabilities(3,0) error = %v", err)
	}
}

func TestZeroTimingIsDegenerate(t *testing.T) {
	p, err := ComputeSlotProbabilities(5, 16)
	if err != nil {
		t.Fatalf("ComputeSlotProbabilities: %v", err)
	}
	if _, err := ComputeAverageSlotDuration(p, model.SlotTiming{}); !errors.Is(err, ErrNumericDegenerate) {
		t.Fatalf("ComputeAverageSlotDuration(zero timing) error = %v, want ErrNumericDegenerate", err)
	}
	if _, err := ComputeThroughput(p, 0, 12000); !errors.Is(err, ErrNumericDegenerate) {
		t.Fatalf("ComputeThroughput(mean=0) error = %v, want ErrNumericDegenerate", err)
	}
	if _, err := ComputeAverageSlotDuration(p, model.SlotTiming{SIFSSeconds: -1}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("ComputeAverageSlotDuration(negative sifs) error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestAverageSlotDurationWeighsOutcomes(t *testing.T) {
	timing := model.SlotTiming{EmptySeconds: 1, DIFSSeconds: 2, SIFSSeconds: 3, ACKSeconds: 4, TxSeconds: 5}
	p := model.SlotOutcomeProbabilities{Empty: 0.5, Collision: 0.25, Success: 0.25}

	got, err := ComputeAverageSlotDuration(p, timing)
	if err != nil {
		t.Fatalf("ComputeAverageSlotDuration: %v", err)
	}
	// Tc = 2+5+6 = 13, Ts = 2+5+3+4 = 14.
	want := 0.5*1 + 0.25*13 + 0.25*14
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("mean slot = %v, want %v", got, want)
	}
}
