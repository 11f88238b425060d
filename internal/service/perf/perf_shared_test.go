//go:build perf || perf_large

package perf

import (
	"context"
	"testing"

	"github.com/signalsfoundry/wlan-contention/internal/logging"
	"github.com/signalsfoundry/wlan-contention/internal/service"
	"github.com/signalsfoundry/wlan-contention/model"
	"github.com/signalsfoundry/wlan-contention/scenario"
	"google.golang.org/protobuf/types/known/structpb"
)

type perfConfig struct {
	// MaxWindow bounds the contention windows swept per iteration (1..MaxWindow).
	MaxWindow int
	// MaxStations bounds the station counts swept per iteration (1..MaxStations).
	MaxStations int
	// PlacementStations is the station count per GeneratePositions call.
	PlacementStations int
}

func newService() *service.ContentionService {
	return service.NewContentionService(scenario.NewGenerator(1), nil, logging.Noop())
}

func benchmarkEvaluateWindows(b *testing.B, cfg perfConfig) {
	ctx := context.Background()
	svc := newService()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for w := 1; w <= cfg.MaxWindow; w++ {
			req := evaluateRequest(b, model.DefaultStationCount, w)
			if _, err := svc.Evaluate(ctx, req); err != nil {
				b.Fatalf("Evaluate(cw=%d): %v", w, err)
			}
		}
	}
}

func benchmarkEvaluateStations(b *testing.B, cfg perfConfig) {
	ctx := context.Background()
	svc := newService()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for n := 1; n <= cfg.MaxStations; n++ {
			req := evaluateRequest(b, n, model.DefaultContentionWindow)
			if _, err := svc.Evaluate(ctx, req); err != nil {
				b.Fatalf("Evaluate(n=%d): %v", n, err)
			}
		}
	}
}

func benchmarkGeneratePositions(b *testing.B, cfg perfConfig) {
	ctx := context.Background()
	svc := newService()
	req, err := structpb.NewStruct(map[string]interface{}{
		"station_count": cfg.PlacementStations,
		"map_size":      scenario.DefaultMapSize,
	})
	if err != nil {
		b.Fatalf("NewStruct: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.GeneratePositions(ctx, req); err != nil {
			b.Fatalf("GeneratePositions: %v", err)
		}
	}
}

func evaluateRequest(b *testing.B, stations, window int) *structpb.Struct {
	b.Helper()
	req, err := structpb.NewStruct(map[string]interface{}{
		"station_count":     stations,
		"contention_window": window,
	})
	if err != nil {
		b.Fatalf("NewStruct: %v", err)
	}
	return req
}
