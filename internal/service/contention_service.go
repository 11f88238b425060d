package service

import (
	"context"
	"time"

	"github.com/signalsfoundry/wlan-contention/core"
	"github.com/signalsfoundry/wlan-contention/internal/logging"
	"github.com/signalsfoundry/wlan-contention/internal/observability"
	"github.com/signalsfoundry/wlan-contention/scenario"
	"google.golang.org/protobuf/types/known/structpb"
)

// ContentionService serves model evaluations and station placements over gRPC.
type ContentionService struct {
	generator *scenario.Generator
	metrics   *observability.ModelCollector
	log       logging.Logger
}

var _ ContentionServiceServer = (*ContentionService)(nil)

// NewContentionService builds the service. metrics may be nil.
func NewContentionService(gen *scenario.Generator, metrics *observability.ModelCollector, log logging.Logger) *ContentionService {
	if gen == nil {
		gen = scenario.NewGenerator(1)
	}
	if log == nil {
		log = logging.Noop()
	}
	return &ContentionService{generator: gen, metrics: metrics, log: log}
}

// Evaluate runs the contention model for the requested configuration.
func (s *ContentionService) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := logging.FromContext(ctx, s.log)

	cfg, err := NetworkConfigurationFromStruct(req)
	if err != nil {
		log.Warn(ctx, "rejecting evaluate request", logging.Err(err))
		return nil, ToStatusError(err)
	}

	_, span := observability.StartEvaluationSpan(ctx, "ContentionService.Evaluate", cfg)
	start := time.Now()
	res, err := core.Evaluate(cfg)
	s.metrics.ObserveEvaluation(observability.EvaluationResult(err), res, time.Since(start))
	observability.EndEvaluationSpan(span, res, err)
	if err != nil {
		log.Warn(ctx, "evaluation failed",
			logging.Int("station_count", cfg.StationCount),
			logging.Int("contention_window", cfg.ContentionWindow),
			logging.Err(err),
		)
		return nil, ToStatusError(err)
	}

	maxBps, err := core.MaxThroughput(cfg)
	if err != nil {
		return nil, ToStatusError(err)
	}

	log.Debug(ctx, "evaluation complete",
		logging.Int("station_count", cfg.StationCount),
		logging.Int("contention_window", cfg.ContentionWindow),
		logging.Float64("throughput_bps", res.ThroughputBps),
	)

	out, err := ResultToStruct(res, maxBps)
	if err != nil {
		return nil, ToStatusError(err)
	}
	return out, nil
}

// GeneratePositions draws a uniform station placement around a centred AP.
func (s *ContentionService) GeneratePositions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	log := logging.FromContext(ctx, s.log)

	count, mapSize, err := PlacementRequestFromStruct(req)
	if err != nil {
		log.Warn(ctx, "rejecting placement request", logging.Err(err))
		return nil, ToStatusError(err)
	}
	placement, err := s.generator.GeneratePositions(count, mapSize)
	if err != nil {
		log.Warn(ctx, "placement failed", logging.Err(err))
		return nil, ToStatusError(err)
	}
	out, err := PlacementToStruct(placement)
	if err != nil {
		return nil, ToStatusError(err)
	}
	return out, nil
}
