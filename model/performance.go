package model

// SlotOutcomeProbabilities are the probabilities that a generic slot is
// empty, carries a collision, or carries exactly one transmission.
type SlotOutcomeProbabilities struct {
	Empty     float64 `json:"p_empty"`
	Collision float64 `json:"p_collision"`
	Success   float64 `json:"p_success"`
}

// Sum returns Empty + Collision + Success.
func (p SlotOutcomeProbabilities) Sum() float64 {
	return p.Empty + p.Collision + p.Success
}

// SlotDurations are the channel times, in seconds, attributed to each
// slot outcome plus the raw frame airtime.
type SlotDurations struct {
	Empty        float64 `json:"empty_s"`
	Collision    float64 `json:"collision_s"`
	Success      float64 `json:"success_s"`
	Transmission float64 `json:"tx_s"`
}

// PerformanceResult is the output of one model evaluation.
type PerformanceResult struct {
	Configuration NetworkConfiguration     `json:"configuration"`
	Tau           float64                  `json:"tau"`
	Probabilities SlotOutcomeProbabilities `json:"probabilities"`
	Durations     SlotDurations            `json:"durations"`

	MeanSlotSeconds float64 `json:"mean_slot_s"`
	ThroughputBps   float64 `json:"throughput_bps"`
}

// ThroughputMbps returns ThroughputBps scaled to megabits per second.
func (r PerformanceResult) ThroughputMbps() float64 {
	return r.ThroughputBps / 1e6
}
