// SPDX-License-Identifier: EPL-2.0

// Package config loads the avloop configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/avdevice/buffer"
	"github.com/ik5/avdevice/engine"
	"github.com/ik5/avdevice/monitor"
	"github.com/ik5/avdevice/pump"
	"github.com/ik5/avdevice/stream"
)

var ErrInvalid = errors.New("invalid configuration")

// Duration is a time.Duration written as a string such as "10ms".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10ms\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

type Config struct {
	Engine   EngineConfig  `json:"engine"`
	Pump     PumpConfig    `json:"pump"`
	Monitor  MonitorConfig `json:"monitor"`
	Stream   StreamConfig  `json:"stream"`
	LogLevel string        `json:"log_level"` // "debug", "info", "warn", "error"
}

type EngineConfig struct {
	SampleRate   int      `json:"sample_rate"`
	Channels     int      `json:"channels"`
	TickInterval Duration `json:"tick_interval"`
	Layout       string   `json:"layout"` // "duplicate" or "split"
	MinRearm     Duration `json:"min_rearm"`
}

type PumpConfig struct {
	LeadTicks int      `json:"lead_ticks"`
	Poll      Duration `json:"poll"`
}

type MonitorConfig struct {
	Enabled bool     `json:"enabled"`
	Latency Duration `json:"latency"`
}

// StreamConfig serves the captured input over WebSocket when Listen is set.
type StreamConfig struct {
	Listen    string `json:"listen"` // e.g. ":8927"
	Path      string `json:"path"`
	Advertise bool   `json:"advertise"`
	Queue     int    `json:"queue"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	f := engine.DefaultConfig().Format
	return &Config{
		Engine: EngineConfig{
			SampleRate:   f.SampleRate,
			Channels:     f.Channels,
			TickInterval: Duration(engine.DefaultTickInterval),
			Layout:       engine.LayoutDuplicateOutput.String(),
		},
		Pump: PumpConfig{
			LeadTicks: pump.DefaultLeadTicks,
			Poll:      Duration(2 * time.Millisecond),
		},
		Monitor: MonitorConfig{
			Latency: Duration(monitor.DefaultLatency),
		},
		Stream: StreamConfig{
			Path:  "/capture",
			Queue: stream.DefaultQueue,
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as indented JSON, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) Validate() error {
	if _, err := c.EngineConfig(zerolog.Nop()); err != nil {
		return err
	}
	if c.Pump.LeadTicks < 0 {
		return fmt.Errorf("%w: lead_ticks %d", ErrInvalid, c.Pump.LeadTicks)
	}
	if c.Pump.Poll <= 0 {
		return fmt.Errorf("%w: poll must be positive", ErrInvalid)
	}
	if c.Stream.Queue <= 0 {
		return fmt.Errorf("%w: stream queue must be positive", ErrInvalid)
	}
	if c.Stream.Listen != "" && (c.Stream.Path == "" || c.Stream.Path[0] != '/') {
		return fmt.Errorf("%w: stream path %q must start with /", ErrInvalid, c.Stream.Path)
	}
	if c.Stream.Advertise && c.Stream.Listen == "" {
		return fmt.Errorf("%w: stream advertise needs a listen address", ErrInvalid)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

// EngineConfig converts the engine section. The format beyond rate and
// channel count is the engine default.
func (c *Config) EngineConfig(log zerolog.Logger) (engine.Config, error) {
	layout, err := engine.ParseLayout(c.Engine.Layout)
	if err != nil {
		return engine.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	ec := engine.DefaultConfig()
	ec.Format.SampleRate = c.Engine.SampleRate
	ec.Format.Channels = c.Engine.Channels
	ec.TickInterval = time.Duration(c.Engine.TickInterval)
	ec.Layout = layout
	ec.MinRearm = time.Duration(c.Engine.MinRearm)
	ec.Logger = log

	if err := ec.Format.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := buffer.GeometryForInterval(ec.Format, ec.TickInterval); err != nil {
		return engine.Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if ec.MinRearm < 0 || ec.MinRearm > ec.TickInterval {
		return engine.Config{}, fmt.Errorf("%w: min_rearm %v outside [0, %v]", ErrInvalid, ec.MinRearm, ec.TickInterval)
	}
	return ec, nil
}

func (c *Config) PumpConfig(log zerolog.Logger) pump.Config {
	return pump.Config{LeadTicks: c.Pump.LeadTicks, Logger: log}
}

func (c *Config) MonitorConfig(log zerolog.Logger) monitor.Config {
	return monitor.Config{
		SampleRate: c.Engine.SampleRate,
		Channels:   c.Engine.Channels,
		Latency:    time.Duration(c.Monitor.Latency),
		Logger:     log,
	}
}

func (c *Config) StreamConfig(device string, log zerolog.Logger) stream.Config {
	return stream.Config{
		Device:     device,
		SampleRate: c.Engine.SampleRate,
		Channels:   c.Engine.Channels,
		Queue:      c.Stream.Queue,
		Logger:     log,
	}
}
