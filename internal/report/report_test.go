package report

import (
	"bytes"
	"context"
	"errors"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/signalsfoundry/wlan-contention/core"
	"github.com/signalsfoundry/wlan-contention/model"
	"github.com/signalsfoundry/wlan-contention/scenario"
	"github.com/xuri/excelize/v2"
)

func referenceInput(t *testing.T, sweep bool) Input {
	t.Helper()
	cfg := model.DefaultNetworkConfiguration()
	res, err := core.Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	placement, err := scenario.NewGenerator(1).GeneratePositions(cfg.StationCount, scenario.DefaultMapSize)
	if err != nil {
		t.Fatalf("GeneratePositions: %v", err)
	}
	var points []model.PerformanceResult
	if sweep {
		points, err = core.SweepContentionWindow(cfg, []int{8, 16, 32, 64})
		if err != nil {
			t.Fatalf("SweepContentionWindow: %v", err)
		}
	}
	return NewInput(placement, res, points)
}

func rawFloat(t *testing.T, f *excelize.File, sheet, cell string) float64 {
	t.Helper()
	s, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue(%s!%s): %v", sheet, cell, err)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		t.Fatalf("%s!%s = %q is not a number: %v", sheet, cell, s, err)
	}
	return v
}

func TestWorkbookPresenterWritesAllSheets(t *testing.T) {
	in := referenceInput(t, true)
	path := filepath.Join(t.TempDir(), "nested", "run.xlsx")

	if err := NewWorkbookPresenter(path).Present(context.Background(), in); err != nil {
		t.Fatalf("Present: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	sheets := strings.Join(f.GetSheetList(), ",")
	for _, want := range []string{deploymentSheet, probabilitySheet, throughputSheet, configurationSheet, sweepSheet} {
		if !strings.Contains(sheets, want) {
			t.Fatalf("sheet %q missing from %s", want, sheets)
		}
	}

	p := in.Result.Probabilities
	for cell, want := range map[string]float64{"B2": p.Empty, "B3": p.Collision, "B4": p.Success} {
		if got := rawFloat(t, f, probabilitySheet, cell); math.Abs(got-want) > 1e-12 {
			t.Errorf("%s!%s = %v, want %v", probabilitySheet, cell, got, want)
		}
	}
	if got := rawFloat(t, f, throughputSheet, "B2"); math.Abs(got-in.Result.ThroughputMbps()) > 1e-9 {
		t.Errorf("throughput cell = %v, want %v", got, in.Result.ThroughputMbps())
	}

	rows, err := f.GetRows(deploymentSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != in.Placement.Len()+2 {
		t.Fatalf("deployment rows = %d, want %d", len(rows), in.Placement.Len()+2)
	}
	if rows[1][0] != "AP" || rows[2][0] != "STA 1" {
		t.Fatalf("unexpected device labels: %v / %v", rows[1], rows[2])
	}

	sweepRows, err := f.GetRows(sweepSheet)
	if err != nil {
		t.Fatalf("GetRows(sweep): %v", err)
	}
	if len(sweepRows) != len(in.Sweep)+1 {
		t.Fatalf("sweep rows = %d, want %d", len(sweepRows), len(in.Sweep)+1)
	}

	runID, err := f.GetCellValue(configurationSheet, "B2")
	if err != nil || runID != in.RunID {
		t.Fatalf("run id cell = %q (%v), want %q", runID, err, in.RunID)
	}
}

func TestWorkbookPresenterOmitsSweepSheetWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.xlsx")
	if err := NewWorkbookPresenter(path).Present(context.Background(), referenceInput(t, false)); err != nil {
		t.Fatalf("Present: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	for _, name := range f.GetSheetList() {
		if name == sweepSheet {
			t.Fatalf("unexpected %s sheet", sweepSheet)
		}
	}
}

func TestThroughputAxisMax(t *testing.T) {
	if got := ThroughputAxisMax(8.7); got != 60 {
		t.Fatalf("ThroughputAxisMax(8.7) = %v, want 60", got)
	}
	if got := ThroughputAxisMax(100); got != 120 {
		t.Fatalf("ThroughputAxisMax(100) = %v, want 120", got)
	}
}

func TestConsolePresenterSummary(t *testing.T) {
	var buf bytes.Buffer
	in := referenceInput(t, true)
	p := &ConsolePresenter{Out: &buf, NoColor: true}
	if err := p.Present(context.Background(), in); err != nil {
		t.Fatalf("Present: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		in.RunID,
		"contention window",
		"20 (mean distance to AP",
		"0.0818 / 0.7000 / 0.2182",
		"8.698 Mbps",
		"cw=64",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in summary:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("NoColor output contains escape codes")
	}
}

func TestPresentersRejectEmptyPlacement(t *testing.T) {
	in := referenceInput(t, false)
	in.Placement.Stations = nil

	presenters := Multi{
		&ConsolePresenter{Out: &bytes.Buffer{}, NoColor: true},
		NewWorkbookPresenter(filepath.Join(t.TempDir(), "x.xlsx")),
	}
	if err := presenters.Present(context.Background(), in); !errors.Is(err, ErrNothingToPresent) {
		t.Fatalf("error = %v, want ErrNothingToPresent", err)
	}
}

func TestMultiStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := Multi{&ConsolePresenter{Out: &buf, NoColor: true}}.Present(ctx, referenceInput(t, false))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("presenter ran after cancellation")
	}
}
