// Package config assembles the run configuration from reference defaults, an
// optional YAML file, and command-line flags.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/signalsfoundry/wlan-contention/core"
	"github.com/signalsfoundry/wlan-contention/model"
	"github.com/signalsfoundry/wlan-contention/scenario"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps any configuration that cannot be loaded or used.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the immutable input to one run.
type Config struct {
	// MapSize is the side of the square deployment map, in metres.
	MapSize float64 `yaml:"map_size"`
	// Seed drives station placement. Equal seeds give equal placements.
	Seed uint64 `yaml:"seed"`

	Network model.NetworkConfiguration `yaml:"network"`

	// ReportPath is where the workbook is written. Empty disables it.
	ReportPath string `yaml:"report_path,omitempty"`
	// SweepWindows, when set, adds a contention-window sweep to the report.
	SweepWindows []int `yaml:"sweep_windows,omitempty"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		MapSize: scenario.DefaultMapSize,
		Seed:    1,
		Network: model.DefaultNetworkConfiguration(),
	}
}

// Validate checks the scenario fields and delegates network checks to the
// contention model.
func (c Config) Validate() error {
	if math.IsNaN(c.MapSize) || math.IsInf(c.MapSize, 0) || c.MapSize <= 0 {
		return fmt.Errorf("%w: map_size must be > 0, got %v", ErrInvalidConfig, c.MapSize)
	}
	if err := core.Validate(c.Network); err != nil {
		return err
	}
	for i, w := range c.SweepWindows {
		if w < 1 {
			return fmt.Errorf("%w: sweep_windows[%d] must be >= 1, got %d", ErrInvalidConfig, i, w)
		}
	}
	return nil
}

// LoadFile reads a YAML file over base. Keys absent from the file keep the
// value they have in base.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	return Parse(data, base)
}

// Parse decodes YAML bytes over base. Unknown keys are rejected.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// ParseWindows parses a comma-separated list of contention windows.
func ParseWindows(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: contention window %q: %v", ErrInvalidConfig, p, err)
		}
		out = append(out, w)
	}
	return out, nil
}

// Flags binds one flag per configuration field. Only flags that were set on
// the command line override the file and defaults.
type Flags struct {
	fs   *flag.FlagSet
	path string
	vals Config
	cw   string
}

// RegisterFlags registers configuration flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	d := Default()
	f := &Flags{fs: fs, vals: d}

	fs.StringVar(&f.path, "config", "", "Path to a YAML configuration file")
	fs.Float64Var(&f.vals.MapSize, "map-size", d.MapSize, "Side of the square deployment map in metres")
	fs.Uint64Var(&f.vals.Seed, "seed", d.Seed, "Seed for station placement")
	fs.IntVar(&f.vals.Network.StationCount, "stations", d.Network.StationCount, "Number of contending stations")
	fs.IntVar(&f.vals.Network.ContentionWindow, "cw", d.Network.ContentionWindow, "Contention window size")
	fs.Float64Var(&f.vals.Network.PacketBits, "packet-bits", d.Network.PacketBits, "Bits per data packet")
	fs.Float64Var(&f.vals.Network.DataRateBps, "data-rate", d.Network.DataRateBps, "PHY data rate in bits per second")
	fs.Float64Var(&f.vals.Network.DIFSSeconds, "difs", d.Network.DIFSSeconds, "DIFS duration in seconds")
	fs.Float64Var(&f.vals.Network.SIFSSeconds, "sifs", d.Network.SIFSSeconds, "SIFS duration in seconds")
	fs.Float64Var(&f.vals.Network.ACKSeconds, "ack", d.Network.ACKSeconds, "ACK duration in seconds")
	fs.Float64Var(&f.vals.Network.EmptySlotSeconds, "empty-slot", d.Network.EmptySlotSeconds, "Empty slot duration in seconds")
	fs.StringVar(&f.vals.ReportPath, "report", d.ReportPath, "Path of the .xlsx report to write; empty disables it")
	fs.StringVar(&f.cw, "sweep-cw", "", "Comma-separated contention windows to sweep in the report")
	return f
}

// Resolve builds the final configuration: defaults, then the YAML file named
// by -config, then any explicitly set flags. The result is validated.
func (f *Flags) Resolve() (Config, error) {
	cfg := Default()
	if f.path != "" {
		loaded, err := LoadFile(f.path, cfg)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	var parseErr error
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "map-size":
			cfg.MapSize = f.vals.MapSize
		case "seed":
			cfg.Seed = f.vals.Seed
		case "stations":
			cfg.Network.StationCount = f.vals.Network.StationCount
		case "cw":
			cfg.Network.ContentionWindow = f.vals.Network.ContentionWindow
		case "packet-bits":
			cfg.Network.PacketBits = f.vals.Network.PacketBits
		case "data-rate":
			cfg.Network.DataRateBps = f.vals.Network.DataRateBps
		case "difs":
			cfg.Network.DIFSSeconds = f.vals.Network.DIFSSeconds
		case "sifs":
			cfg.Network.SIFSSeconds = f.vals.Network.SIFSSeconds
		case "ack":
			cfg.Network.ACKSeconds = f.vals.Network.ACKSeconds
		case "empty-slot":
			cfg.Network.EmptySlotSeconds = f.vals.Network.EmptySlotSeconds
		case "report":
			cfg.ReportPath = f.vals.ReportPath
		case "sweep-cw":
			cfg.SweepWindows, parseErr = ParseWindows(f.cw)
		}
	})
	if parseErr != nil {
		return Config{}, parseErr
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
