package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/signalsfoundry/wlan-contention/internal/logging"
	"github.com/signalsfoundry/wlan-contention/internal/observability"
	"github.com/signalsfoundry/wlan-contention/internal/service"
	"github.com/signalsfoundry/wlan-contention/scenario"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

// Config holds the server's runtime settings.
type Config struct {
	ListenAddress  string
	MetricsAddress string
	Seed           uint64

	// Registerer receives the server's metrics; nil uses the global registry.
	Registerer prometheus.Registerer
}

func main() {
	cfg := Config{}
	flag.StringVar(&cfg.ListenAddress, "grpc-addr", ":50051", "TCP address the contention gRPC server listens on")
	flag.StringVar(&cfg.MetricsAddress, "metrics-addr", ":9090", "HTTP address for Prometheus /metrics (empty disables)")
	flag.Uint64Var(&cfg.Seed, "seed", 1, "Seed for the station placement generator")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv("contention-server"), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	lis, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		log.Error(ctx, "failed to listen for gRPC", logging.String("addr", cfg.ListenAddress), logging.Err(err))
		os.Exit(1)
	}

	if err := run(ctx, cfg, log, lis); err != nil {
		log.Error(ctx, "server exited", logging.Err(err))
		os.Exit(1)
	}
}

// run serves the contention service on lis until ctx is cancelled.
func run(ctx context.Context, cfg Config, log logging.Logger, lis net.Listener) error {
	if log == nil {
		log = logging.Noop()
	}

	collector, err := observability.NewModelCollector(cfg.Registerer)
	if err != nil {
		return fmt.Errorf("initialise metrics collector: %w", err)
	}
	metricsSrv := serveMetrics(cfg.MetricsAddress, collector, log)

	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			service.RequestIDUnaryServerInterceptor(log),
			service.TracingUnaryServerInterceptor(),
			collector.UnaryServerInterceptor(),
		),
	)
	service.RegisterContentionServiceServer(server,
		service.NewContentionService(scenario.NewGenerator(cfg.Seed), collector, log))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(lis)
	}()
	log.Info(ctx, "starting contention gRPC server", logging.String("addr", lis.Addr().String()))

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc serve: %w", err)
		}
	}

	log.Info(context.Background(), "shutting down contention server")
	server.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return nil
}

func serveMetrics(addr string, collector *observability.ModelCollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
