package report

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"gonum.org/v1/gonum/stat"
)

// ConsolePresenter prints a short run summary.
type ConsolePresenter struct {
	Out     io.Writer
	NoColor bool
}

// NewConsolePresenter writes to out, or stdout when out is nil.
func NewConsolePresenter(out io.Writer) *ConsolePresenter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsolePresenter{Out: out}
}

// Present implements Presenter.
func (p *ConsolePresenter) Present(ctx context.Context, in Input) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}

	banner := p.color(color.FgCyan, color.Bold)
	label := p.color(color.FgHiBlack)
	value := p.color(color.FgWhite, color.Bold)
	good := p.color(color.FgGreen, color.Bold)
	bad := p.color(color.FgRed)

	cfg := in.Result.Configuration
	probs := in.Result.Probabilities

	dists := make([]float64, 0, in.Placement.Len())
	for _, s := range in.Placement.Stations {
		dists = append(dists, s.DistanceTo(in.Placement.AccessPoint))
	}

	w := p.Out
	banner.Fprintln(w, "========================================")
	banner.Fprintln(w, "       WLAN contention analysis        ")
	banner.Fprintln(w, "========================================")
	line := func(name, format string, args ...any) {
		label.Fprintf(w, "%-22s", name)
		value.Fprintf(w, format+"\n", args...)
	}
	line("run", "%s", in.RunID)
	line("map", "%.1f m x %.1f m, AP at (%.1f, %.1f)", in.Placement.MapSize, in.Placement.MapSize,
		in.Placement.AccessPoint.X, in.Placement.AccessPoint.Y)
	line("stations", "%d (mean distance to AP %.2f m)", cfg.StationCount, stat.Mean(dists, nil))
	line("contention window", "%d (tau %.6f)", cfg.ContentionWindow, in.Result.Tau)
	line("frame", "%.0f bits @ %.2f Mbps (%.2f us)", cfg.PacketBits, cfg.DataRateBps/1e6, in.Result.Durations.Transmission*1e6)
	line("slot durations", "empty %.1f us, collision %.2f us, success %.2f us",
		in.Result.Durations.Empty*1e6, in.Result.Durations.Collision*1e6, in.Result.Durations.Success*1e6)

	label.Fprintf(w, "%-22s", "p_e / p_c / p_s")
	value.Fprintf(w, "%.4f / ", probs.Empty)
	bad.Fprintf(w, "%.4f", probs.Collision)
	value.Fprint(w, " / ")
	good.Fprintf(w, "%.4f\n", probs.Success)

	line("mean slot", "%.2f us", in.Result.MeanSlotSeconds*1e6)
	label.Fprintf(w, "%-22s", "throughput")
	good.Fprintf(w, "%.3f Mbps\n", in.Result.ThroughputMbps())

	for _, r := range in.Sweep {
		line("  sweep", "cw=%-6d p_c=%.4f throughput=%.3f Mbps", r.Configuration.ContentionWindow, r.Probabilities.Collision, r.ThroughputMbps())
	}
	return nil
}

func (p *ConsolePresenter) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.NoColor {
		c.DisableColor()
	}
	return c
}
