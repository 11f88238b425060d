// Command contention places stations around an access point, evaluates the
// 802.11 contention model for the configured network and prints the result,
// optionally writing an Excel report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/signalsfoundry/wlan-contention/core"
	"github.com/signalsfoundry/wlan-contention/internal/config"
	"github.com/signalsfoundry/wlan-contention/internal/logging"
	"github.com/signalsfoundry/wlan-contention/internal/observability"
	"github.com/signalsfoundry/wlan-contention/internal/report"
	"github.com/signalsfoundry/wlan-contention/scenario"
)

func main() {
	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, log); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error(ctx, "contention run failed", logging.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, log logging.Logger) error {
	fs := flag.NewFlagSet("contention", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	noColor := fs.Bool("no-color", false, "Disable coloured console output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := flags.Resolve()
	if err != nil {
		return fmt.Errorf("resolve configuration: %w", err)
	}

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv("contention"), log)
	if err != nil {
		return fmt.Errorf("initialise tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	placement, err := scenario.NewGenerator(cfg.Seed).GeneratePositions(cfg.Network.StationCount, cfg.MapSize)
	if err != nil {
		return fmt.Errorf("generate positions: %w", err)
	}
	log.Debug(ctx, "stations placed",
		logging.Int("stations", placement.Len()),
		logging.Float64("map_size", placement.MapSize),
	)

	_, span := observability.StartEvaluationSpan(ctx, "contention.Evaluate", cfg.Network)
	res, err := core.Evaluate(cfg.Network)
	observability.EndEvaluationSpan(span, res, err)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	log.Info(ctx, "evaluation complete",
		logging.Int("station_count", cfg.Network.StationCount),
		logging.Int("contention_window", cfg.Network.ContentionWindow),
		logging.Float64("p_collision", res.Probabilities.Collision),
		logging.Float64("throughput_bps", res.ThroughputBps),
	)

	sweep, err := core.SweepContentionWindow(cfg.Network, cfg.SweepWindows)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	console := report.NewConsolePresenter(stdout)
	console.NoColor = *noColor
	presenters := report.Multi{console}
	if cfg.ReportPath != "" {
		presenters = append(presenters, report.NewWorkbookPresenter(cfg.ReportPath))
	}
	in := report.NewInput(placement, res, sweep)
	if err := presenters.Present(ctx, in); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	if cfg.ReportPath != "" {
		log.Info(ctx, "report written", logging.String("path", cfg.ReportPath), logging.String("run_id", in.RunID))
	}
	return nil
}
