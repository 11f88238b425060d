package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/signalsfoundry/wlan-contention/core"
	"github.com/signalsfoundry/wlan-contention/model"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// ModelCollector bundles Prometheus metrics for model evaluations and the
// gRPC surface that serves them.
type ModelCollector struct {
	gatherer prometheus.Gatherer

	Evaluations        *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	SlotProbability    *prometheus.GaugeVec
	Throughput         prometheus.Gauge

	RPCRequests  *prometheus.CounterVec
	RPCDurations *prometheus.HistogramVec
}

// NewModelCollector registers the collector's metrics against reg, defaulting
// to the global Prometheus registry when nil. Registering twice against the
// same registry reuses the existing collectors.
func NewModelCollector(reg prometheus.Registerer) (*ModelCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	evaluations, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contention_evaluations_total",
		Help: "Total number of contention model evaluations, labeled by result (ok, invalid, degenerate, error).",
	}, []string{"result"}), "contention_evaluations_total")
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "contention_evaluation_duration_seconds",
		Help:    "Wall-clock time spent evaluating the contention model.",
		Buckets: []float64{1e-7, 1e-6, 1e-5, 1e-4, 1e-3, 1e-2},
	}), "contention_evaluation_duration_seconds")
	if err != nil {
		return nil, err
	}
	probability, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "contention_slot_probability",
		Help: "Slot outcome probabilities from the most recent successful evaluation.",
	}, []string{"outcome"}), "contention_slot_probability")
	if err != nil {
		return nil, err
	}
	throughput, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "contention_throughput_bps",
		Help: "Throughput in bits per second from the most recent successful evaluation.",
	}), "contention_throughput_bps")
	if err != nil {
		return nil, err
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contention_rpc_requests_total",
		Help: "Total number of handled RPCs, labeled by service, method, and gRPC status code.",
	}, []string{"service", "method", "code"}), "contention_rpc_requests_total")
	if err != nil {
		return nil, err
	}
	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "contention_rpc_duration_seconds",
		Help:    "RPC latency in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"service", "method"}), "contention_rpc_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &ModelCollector{
		gatherer:           gatherer,
		Evaluations:        evaluations,
		EvaluationDuration: duration,
		SlotProbability:    probability,
		Throughput:         throughput,
		RPCRequests:        requests,
		RPCDurations:       durations,
	}, nil
}

// ObserveEvaluation records one evaluation outcome. result is one of the
// labels documented on contention_evaluations_total; res is only read when
// result is "ok".
func (c *ModelCollector) ObserveEvaluation(result string, res model.PerformanceResult, took time.Duration) {
	if c == nil {
		return
	}
	c.Evaluations.WithLabelValues(result).Inc()
	c.EvaluationDuration.Observe(took.Seconds())
	if result != "ok" {
		return
	}
	c.SlotProbability.WithLabelValues("empty").Set(res.Probabilities.Empty)
	c.SlotProbability.WithLabelValues("collision").Set(res.Probabilities.Collision)
	c.SlotProbability.WithLabelValues("success").Set(res.Probabilities.Success)
	c.Throughput.Set(res.ThroughputBps)
}

// EvaluationResult maps the error returned by core.Evaluate onto the result
// label used by ObserveEvaluation.
func EvaluationResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, core.ErrInvalidConfiguration):
		return "invalid"
	case errors.Is(err, core.ErrNumericDegenerate):
		return "degenerate"
	default:
		return "error"
	}
}

// UnaryServerInterceptor records request counts and durations for unary RPCs.
func (c *ModelCollector) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		if c == nil {
			return resp, err
		}

		fullMethod := ""
		if info != nil {
			fullMethod = info.FullMethod
		}
		service, method := SplitMethod(fullMethod)
		c.RPCRequests.WithLabelValues(service, method, status.Code(err).String()).Inc()
		c.RPCDurations.WithLabelValues(service, method).Observe(time.Since(start).Seconds())

		return resp, err
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *ModelCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SplitMethod parses a fully-qualified gRPC method name into service and method
// components, returning "unknown"/"unknown" when parsing fails.
func SplitMethod(fullMethod string) (string, string) {
	if fullMethod == "" {
		return "unknown", "unknown"
	}
	fullMethod = strings.TrimPrefix(fullMethod, "/")
	parts := strings.Split(fullMethod, "/")
	if len(parts) < 2 {
		return "unknown", "unknown"
	}
	service := parts[len(parts)-2]
	method := parts[len(parts)-1]
	if dot := strings.LastIndex(service, "."); dot >= 0 && dot+1 < len(service) {
		service = service[dot+1:]
	}
	if service == "" {
		service = "unknown"
	}
	if method == "" {
		method = "unknown"
	}
	return service, method
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
