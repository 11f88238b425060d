package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/signalsfoundry/wlan-contention/model"
	"github.com/signalsfoundry/wlan-contention/scenario"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrInvalidRequest marks a request whose fields are missing, mistyped or unknown.
var ErrInvalidRequest = errors.New("invalid request")

// Evaluate request keys. Every key is optional; absent keys take the
// reference value.
const (
	keyStationCount     = "station_count"
	keyContentionWindow = "contention_window"
	keyPacketBits       = "packet_bits"
	keyDataRate         = "data_rate_bps"
	keyDIFS             = "difs_s"
	keySIFS             = "sifs_s"
	keyACK              = "ack_s"
	keyEmptySlot        = "empty_slot_s"
	keyMapSize          = "map_size"
)

// NetworkConfigurationFromStruct decodes an Evaluate request.
func NetworkConfigurationFromStruct(req *structpb.Struct) (model.NetworkConfiguration, error) {
	cfg := model.DefaultNetworkConfiguration()
	fields := req.GetFields()

	ints := map[string]*int{
		keyStationCount:     &cfg.StationCount,
		keyContentionWindow: &cfg.ContentionWindow,
	}
	floats := map[string]*float64{
		keyPacketBits: &cfg.PacketBits,
		keyDataRate:   &cfg.DataRateBps,
		keyDIFS:       &cfg.DIFSSeconds,
		keySIFS:       &cfg.SIFSSeconds,
		keyACK:        &cfg.ACKSeconds,
		keyEmptySlot:  &cfg.EmptySlotSeconds,
	}

	for key, v := range fields {
		switch {
		case ints[key] != nil:
			n, err := intField(key, v)
			if err != nil {
				return model.NetworkConfiguration{}, err
			}
			*ints[key] = n
		case floats[key] != nil:
			f, err := numberField(key, v)
			if err != nil {
				return model.NetworkConfiguration{}, err
			}
			*floats[key] = f
		default:
			return model.NetworkConfiguration{}, fmt.Errorf("%w: unknown field %q", ErrInvalidRequest, key)
		}
	}
	return cfg, nil
}

// NetworkConfigurationToStruct encodes cfg as an Evaluate request.
func NetworkConfigurationToStruct(cfg model.NetworkConfiguration) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		keyStationCount:     cfg.StationCount,
		keyContentionWindow: cfg.ContentionWindow,
		keyPacketBits:       cfg.PacketBits,
		keyDataRate:         cfg.DataRateBps,
		keyDIFS:             cfg.DIFSSeconds,
		keySIFS:             cfg.SIFSSeconds,
		keyACK:              cfg.ACKSeconds,
		keyEmptySlot:        cfg.EmptySlotSeconds,
	})
}

// ResultToStruct encodes an Evaluate response.
func ResultToStruct(res model.PerformanceResult, maxThroughputBps float64) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"tau":                res.Tau,
		"p_empty":            res.Probabilities.Empty,
		"p_collision":        res.Probabilities.Collision,
		"p_success":          res.Probabilities.Success,
		"empty_slot_s":       res.Durations.Empty,
		"collision_slot_s":   res.Durations.Collision,
		"success_slot_s":     res.Durations.Success,
		"tx_s":               res.Durations.Transmission,
		"mean_slot_s":        res.MeanSlotSeconds,
		"throughput_bps":     res.ThroughputBps,
		"max_throughput_bps": maxThroughputBps,
	})
}

// ResultFromStruct decodes an Evaluate response for cfg.
func ResultFromStruct(cfg model.NetworkConfiguration, s *structpb.Struct) (model.PerformanceResult, float64, error) {
	res := model.PerformanceResult{Configuration: cfg}
	var maxBps float64
	targets := map[string]*float64{
		"tau":                &res.Tau,
		"p_empty":            &res.Probabilities.Empty,
		"p_collision":        &res.Probabilities.Collision,
		"p_success":          &res.Probabilities.Success,
		"empty_slot_s":       &res.Durations.Empty,
		"collision_slot_s":   &res.Durations.Collision,
		"success_slot_s":     &res.Durations.Success,
		"tx_s":               &res.Durations.Transmission,
		"mean_slot_s":        &res.MeanSlotSeconds,
		"throughput_bps":     &res.ThroughputBps,
		"max_throughput_bps": &maxBps,
	}
	fields := s.GetFields()
	for key, dst := range targets {
		v, ok := fields[key]
		if !ok {
			return model.PerformanceResult{}, 0, fmt.Errorf("%w: response missing %q", ErrInvalidRequest, key)
		}
		f, err := numberField(key, v)
		if err != nil {
			return model.PerformanceResult{}, 0, err
		}
		*dst = f
	}
	return res, maxBps, nil
}

// PlacementRequestFromStruct decodes a GeneratePositions request. Absent
// keys take the reference station count and map size.
func PlacementRequestFromStruct(req *structpb.Struct) (int, float64, error) {
	count, mapSize := model.DefaultStationCount, scenario.DefaultMapSize
	for key, v := range req.GetFields() {
		switch key {
		case keyStationCount:
			n, err := intField(key, v)
			if err != nil {
				return 0, 0, err
			}
			count = n
		case keyMapSize:
			f, err := numberField(key, v)
			if err != nil {
				return 0, 0, err
			}
			mapSize = f
		default:
			return 0, 0, fmt.Errorf("%w: unknown field %q", ErrInvalidRequest, key)
		}
	}
	return count, mapSize, nil
}

// PlacementToStruct encodes a GeneratePositions response.
func PlacementToStruct(p model.StationPlacement) (*structpb.Struct, error) {
	stations := make([]interface{}, 0, p.Len())
	for _, s := range p.Stations {
		stations = append(stations, map[string]interface{}{"x": s.X, "y": s.Y})
	}
	return structpb.NewStruct(map[string]interface{}{
		keyMapSize:     p.MapSize,
		"access_point": map[string]interface{}{"x": p.AccessPoint.X, "y": p.AccessPoint.Y},
		"stations":     stations,
	})
}

// PlacementFromStruct decodes a GeneratePositions response.
func PlacementFromStruct(s *structpb.Struct) (model.StationPlacement, error) {
	fields := s.GetFields()
	mapSize, err := numberField(keyMapSize, fields[keyMapSize])
	if err != nil {
		return model.StationPlacement{}, err
	}
	ap, err := positionFromValue("access_point", fields["access_point"])
	if err != nil {
		return model.StationPlacement{}, err
	}
	list := fields["stations"].GetListValue()
	if list == nil {
		return model.StationPlacement{}, fmt.Errorf("%w: stations must be a list", ErrInvalidRequest)
	}
	stations := make([]model.Position, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		p, err := positionFromValue(fmt.Sprintf("stations[%d]", i), v)
		if err != nil {
			return model.StationPlacement{}, err
		}
		stations = append(stations, p)
	}
	return model.StationPlacement{MapSize: mapSize, AccessPoint: ap, Stations: stations}, nil
}

func positionFromValue(name string, v *structpb.Value) (model.Position, error) {
	obj := v.GetStructValue()
	if obj == nil {
		return model.Position{}, fmt.Errorf("%w: %s must be an object", ErrInvalidRequest, name)
	}
	x, err := numberField(name+".x", obj.GetFields()["x"])
	if err != nil {
		return model.Position{}, err
	}
	y, err := numberField(name+".y", obj.GetFields()["y"])
	if err != nil {
		return model.Position{}, err
	}
	return model.Position{X: x, Y: y}, nil
}

func numberField(key string, v *structpb.Value) (float64, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidRequest, key)
	}
	return n.NumberValue, nil
}

func intField(key string, v *structpb.Value) (int, error) {
	f, err := numberField(key, v)
	if err != nil {
		return 0, err
	}
	if math.Trunc(f) != f || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidRequest, key, f)
	}
	return int(f), nil
}
