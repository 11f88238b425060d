package model

// NetworkConfiguration describes one basic service set: a fixed number of
// stations contending for the channel towards a single access point.
// Durations are in seconds, rates in bits per second.
type NetworkConfiguration struct {
	StationCount     int     `yaml:"station_count" json:"station_count"`
	ContentionWindow int     `yaml:"contention_window" json:"contention_window"`
	PacketBits       float64 `yaml:"packet_bits" json:"packet_bits"`
	DataRateBps      float64 `yaml:"data_rate_bps" json:"data_rate_bps"`

	DIFSSeconds      float64 `yaml:"difs_s" json:"difs_s"`
	SIFSSeconds      float64 `yaml:"sifs_s" json:"sifs_s"`
	ACKSeconds       float64 `yaml:"ack_s" json:"ack_s"`
	EmptySlotSeconds float64 `yaml:"empty_slot_s" json:"empty_slot_s"`
}

// Reference values for a 20-station 802.11 cell.
const (
	DefaultStationCount     = 20
	DefaultContentionWindow = 16
	DefaultPacketBits       = 12000
	DefaultDataRateBps      = 47e6
	DefaultDIFSSeconds      = 34e-6
	DefaultSIFSSeconds      = 16e-6
	DefaultACKSeconds       = 40e-6
	DefaultEmptySlotSeconds = 9e-6
)

// DefaultNetworkConfiguration returns the reference configuration.
func DefaultNetworkConfiguration() NetworkConfiguration {
	return NetworkConfiguration{
		StationCount:     DefaultStationCount,
		ContentionWindow: DefaultContentionWindow,
		PacketBits:       DefaultPacketBits,
		DataRateBps:      DefaultDataRateBps,
		DIFSSeconds:      DefaultDIFSSeconds,
		SIFSSeconds:      DefaultSIFSSeconds,
		ACKSeconds:       DefaultACKSeconds,
		EmptySlotSeconds: DefaultEmptySlotSeconds,
	}
}

// TransmissionSeconds is the airtime of one data frame at the configured rate.
// Returns 0 when the rate is not positive; validation rejects that case first.
func (c NetworkConfiguration) TransmissionSeconds() float64 {
	if c.DataRateBps <= 0 {
		return 0
	}
	return c.PacketBits / c.DataRateBps
}

// SlotTiming derives the per-outcome timing set for this configuration.
func (c NetworkConfiguration) SlotTiming() SlotTiming {
	return SlotTiming{
		EmptySeconds: c.EmptySlotSeconds,
		DIFSSeconds:  c.DIFSSeconds,
		SIFSSeconds:  c.SIFSSeconds,
		ACKSeconds:   c.ACKSeconds,
		TxSeconds:    c.TransmissionSeconds(),
	}
}

// SlotTiming holds the constants needed to weigh slot outcomes by duration.
type SlotTiming struct {
	EmptySeconds float64
	DIFSSeconds  float64
	SIFSSeconds  float64
	ACKSeconds   float64
	TxSeconds    float64
}

// CollisionSeconds is the channel time lost to a collision: DIFS, the
// colliding frame and two SIFS gaps, with no ACK.
func (t SlotTiming) CollisionSeconds() float64 {
	return t.DIFSSeconds + t.TxSeconds + 2*t.SIFSSeconds
}

// SuccessSeconds is the duration of a complete data/ACK exchange.
func (t SlotTiming) SuccessSeconds() float64 {
	return t.DIFSSeconds + t.TxSeconds + t.SIFSSeconds + t.ACKSeconds
}

// Durations flattens the timing into the per-outcome durations reported
// alongside a result.
func (t SlotTiming) Durations() SlotDurations {
	return SlotDurations{
		Empty:        t.EmptySeconds,
		Collision:    t.CollisionSeconds(),
		Success:      t.SuccessSeconds(),
		Transmission: t.TxSeconds,
	}
}
