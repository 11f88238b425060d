package report

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const (
	deploymentSheet    = "Deployment"
	probabilitySheet   = "Probabilities"
	throughputSheet    = "Throughput"
	configurationSheet = "Configuration"
	sweepSheet         = "Sweep"
)

type sheetWriter struct {
	sheet string
	write func(*excelize.File, Input) error
}

// WorkbookPresenter writes an .xlsx workbook with one sheet and chart per
// view: deployment map, slot probabilities, throughput, and an optional
// contention-window sweep.
type WorkbookPresenter struct {
	Path string
}

// NewWorkbookPresenter writes to path, creating parent directories on save.
func NewWorkbookPresenter(path string) *WorkbookPresenter {
	return &WorkbookPresenter{Path: path}
}

// Present implements Presenter.
func (p *WorkbookPresenter) Present(ctx context.Context, in Input) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}
	if p.Path == "" {
		return fmt.Errorf("workbook path is empty")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", deploymentSheet); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	writers := []sheetWriter{
		{deploymentSheet, writeDeployment},
		{probabilitySheet, writeProbabilities},
		{throughputSheet, writeThroughput},
		{configurationSheet, writeConfiguration},
	}
	if len(in.Sweep) > 0 {
		writers = append(writers, sheetWriter{sweepSheet, writeSweep})
	}
	for _, w := range writers {
		if w.sheet != deploymentSheet {
			if _, err := f.NewSheet(w.sheet); err != nil {
				return fmt.Errorf("create sheet %s: %w", w.sheet, err)
			}
		}
		if err := w.write(f, in); err != nil {
			return fmt.Errorf("write sheet %s: %w", w.sheet, err)
		}
	}
	f.SetActiveSheet(0)

	if dir := filepath.Dir(p.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory %q: %w", dir, err)
		}
	}
	if err := f.SaveAs(p.Path); err != nil {
		return fmt.Errorf("save workbook %q: %w", p.Path, err)
	}
	return nil
}

func writeDeployment(f *excelize.File, in Input) error {
	pl := in.Placement
	if err := f.SetSheetRow(deploymentSheet, "A1", &[]interface{}{"Device", "X [m]", "Y [m]", "Distance to AP [m]"}); err != nil {
		return err
	}
	if err := f.SetSheetRow(deploymentSheet, "A2", &[]interface{}{"AP", pl.AccessPoint.X, pl.AccessPoint.Y, 0.0}); err != nil {
		return err
	}
	for i, s := range pl.Stations {
		row := []interface{}{fmt.Sprintf("STA %d", i+1), s.X, s.Y, s.DistanceTo(pl.AccessPoint)}
		if err := f.SetSheetRow(deploymentSheet, fmt.Sprintf("A%d", i+3), &row); err != nil {
			return err
		}
	}

	last := pl.Len() + 2
	lo, hi := 0.0, pl.MapSize
	noLine := excelize.ChartLine{Type: excelize.ChartLineNone}
	return f.AddChart(deploymentSheet, "F2", &excelize.Chart{
		Type: excelize.Scatter,
		Series: []excelize.ChartSeries{
			{
				Name:       "AP device",
				Categories: fmt.Sprintf("%s!$B$2:$B$2", deploymentSheet),
				Values:     fmt.Sprintf("%s!$C$2:$C$2", deploymentSheet),
				Line:       noLine,
				Marker:     excelize.ChartMarker{Symbol: "square", Size: 12},
			},
			{
				Name:       "STA device",
				Categories: fmt.Sprintf("%s!$B$3:$B$%d", deploymentSheet, last),
				Values:     fmt.Sprintf("%s!$C$3:$C$%d", deploymentSheet, last),
				Line:       noLine,
				Marker:     excelize.ChartMarker{Symbol: "circle", Size: 9},
			},
		},
		Title:     []excelize.RichTextRun{{Text: "Deployment"}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		XAxis:     excelize.ChartAxis{Minimum: &lo, Maximum: &hi, MajorGridLines: true, Title: []excelize.RichTextRun{{Text: "X-coordinate [m]"}}},
		YAxis:     excelize.ChartAxis{Minimum: &lo, Maximum: &hi, MajorGridLines: true, Title: []excelize.RichTextRun{{Text: "Y-coordinate [m]"}}},
		Dimension: excelize.ChartDimension{Width: 480, Height: 480},
	})
}

func writeProbabilities(f *excelize.File, in Input) error {
	p := in.Result.Probabilities
	rows := [][]interface{}{
		{"Outcome", "Probability"},
		{"p_e", p.Empty},
		{"p_c", p.Collision},
		{"p_s", p.Success},
	}
	for i := range rows {
		if err := f.SetSheetRow(probabilitySheet, fmt.Sprintf("A%d", i+1), &rows[i]); err != nil {
			return err
		}
	}

	lo, hi := 0.0, 1.0
	return f.AddChart(probabilitySheet, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       "Probability",
			Categories: fmt.Sprintf("%s!$A$2:$A$4", probabilitySheet),
			Values:     fmt.Sprintf("%s!$B$2:$B$4", probabilitySheet),
		}},
		Title:  []excelize.RichTextRun{{Text: "Slot outcome probabilities"}},
		Legend: excelize.ChartLegend{Position: "top"},
		YAxis:  excelize.ChartAxis{Minimum: &lo, Maximum: &hi, MajorGridLines: true, Title: []excelize.RichTextRun{{Text: "Probability"}}},
	})
}

// ThroughputAxisMax is the upper bound of the throughput chart: at least
// 60 Mbps, with 20% headroom above the plotted value.
func ThroughputAxisMax(mbps float64) float64 {
	return math.Max(60, mbps*1.2)
}

func writeThroughput(f *excelize.File, in Input) error {
	mbps := in.Result.ThroughputMbps()
	if err := f.SetSheetRow(throughputSheet, "A1", &[]interface{}{"Metric", "Value [Mbps]"}); err != nil {
		return err
	}
	if err := f.SetSheetRow(throughputSheet, "A2", &[]interface{}{"Throughput", mbps}); err != nil {
		return err
	}

	lo, hi := 0.0, ThroughputAxisMax(mbps)
	return f.AddChart(throughputSheet, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       "Throughput",
			Categories: fmt.Sprintf("%s!$A$2:$A$2", throughputSheet),
			Values:     fmt.Sprintf("%s!$B$2:$B$2", throughputSheet),
		}},
		Title:  []excelize.RichTextRun{{Text: "Throughput"}},
		Legend: excelize.ChartLegend{Position: "none"},
		YAxis:  excelize.ChartAxis{Minimum: &lo, Maximum: &hi, MajorGridLines: true, Title: []excelize.RichTextRun{{Text: "Throughput [Mbps]"}}},
	})
}

func writeConfiguration(f *excelize.File, in Input) error {
	cfg := in.Result.Configuration
	r := in.Result
	rows := [][]interface{}{
		{"Parameter", "Value", "Unit"},
		{"run_id", in.RunID, ""},
		{"map_size", in.Placement.MapSize, "m"},
		{"station_count", cfg.StationCount, ""},
		{"contention_window", cfg.ContentionWindow, ""},
		{"packet_bits", cfg.PacketBits, "bit"},
		{"data_rate", cfg.DataRateBps, "bit/s"},
		{"difs", cfg.DIFSSeconds, "s"},
		{"sifs", cfg.SIFSSeconds, "s"},
		{"ack", cfg.ACKSeconds, "s"},
		{"empty_slot", cfg.EmptySlotSeconds, "s"},
		{"tau", r.Tau, ""},
		{"t_tx", r.Durations.Transmission, "s"},
		{"t_collision", r.Durations.Collision, "s"},
		{"t_success", r.Durations.Success, "s"},
		{"mean_slot", r.MeanSlotSeconds, "s"},
		{"throughput", r.ThroughputBps, "bit/s"},
	}
	for i := range rows {
		if err := f.SetSheetRow(configurationSheet, fmt.Sprintf("A%d", i+1), &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeSweep(f *excelize.File, in Input) error {
	header := []interface{}{"Contention window", "tau", "p_e", "p_c", "p_s", "Mean slot [us]", "Throughput [Mbps]"}
	if err := f.SetSheetRow(sweepSheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range in.Sweep {
		row := []interface{}{
			r.Configuration.ContentionWindow,
			r.Tau,
			r.Probabilities.Empty,
			r.Probabilities.Collision,
			r.Probabilities.Success,
			r.MeanSlotSeconds * 1e6,
			r.ThroughputMbps(),
		}
		if err := f.SetSheetRow(sweepSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	last := len(in.Sweep) + 1
	return f.AddChart(sweepSheet, "I2", &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       "Throughput [Mbps]",
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sweepSheet, last),
			Values:     fmt.Sprintf("%s!$G$2:$G$%d", sweepSheet, last),
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 6},
		}},
		Title:  []excelize.RichTextRun{{Text: "Throughput vs contention window"}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Contention window"}}},
		YAxis:  excelize.ChartAxis{MajorGridLines: true, Title: []excelize.RichTextRun{{Text: "Throughput [Mbps]"}}},
	})
}
