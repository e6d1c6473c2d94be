// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/avdevice/engine"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "avloop.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.json")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", path, err)
		}
		ec, err := cfg.EngineConfig(zerolog.Nop())
		if err != nil {
			t.Fatalf("EngineConfig() error = %v", err)
		}
		def := engine.DefaultConfig()
		if ec.Format != def.Format || ec.TickInterval != def.TickInterval || ec.Layout != def.Layout {
			t.Errorf("defaults = %+v, want %+v", ec, def)
		}
		if cfg.Pump.LeadTicks != 4 || cfg.LogLevel != "info" || cfg.Monitor.Enabled {
			t.Errorf("defaults = %+v", cfg)
		}
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `{
		"engine": {"tick_interval": "5ms", "layout": "split", "min_rearm": "1ms"},
		"pump": {"lead_ticks": 8},
		"monitor": {"enabled": true},
		"log_level": "debug"
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	ec, err := cfg.EngineConfig(zerolog.Nop())
	if err != nil {
		t.Fatalf("EngineConfig() error = %v", err)
	}

	if ec.TickInterval != 5*time.Millisecond || ec.MinRearm != time.Millisecond {
		t.Errorf("intervals = %v/%v, want 5ms/1ms", ec.TickInterval, ec.MinRearm)
	}
	if ec.Layout != engine.LayoutOutputInput {
		t.Errorf("Layout = %v, want split", ec.Layout)
	}
	if ec.Format.SampleRate != 48000 || ec.Format.Channels != 2 {
		t.Errorf("untouched format changed: %v", ec.Format)
	}
	if pc := cfg.PumpConfig(zerolog.Nop()); pc.LeadTicks != 8 {
		t.Errorf("LeadTicks = %d, want 8", pc.LeadTicks)
	}
	mc := cfg.MonitorConfig(zerolog.Nop())
	if !cfg.Monitor.Enabled || mc.SampleRate != 48000 || mc.Latency != 200*time.Millisecond {
		t.Errorf("monitor = %+v", mc)
	}
}

func TestLoad_Stream(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeFile(t, `{"stream": {"listen": ":8927", "advertise": true, "queue": 16}}`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Stream.Path != "/capture" {
		t.Errorf("Path = %q, want default /capture", cfg.Stream.Path)
	}

	sc := cfg.StreamConfig("AVDevice", zerolog.Nop())
	if sc.Device != "AVDevice" || sc.SampleRate != 48000 || sc.Channels != 2 || sc.Queue != 16 {
		t.Errorf("StreamConfig() = %+v", sc)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"bad layout", `{"engine": {"layout": "quad"}}`, ErrInvalid},
		{"non-tiling rate", `{"engine": {"sample_rate": 44100, "tick_interval": "5ms"}}`, ErrInvalid},
		{"rearm too long", `{"engine": {"min_rearm": "20ms"}}`, ErrInvalid},
		{"zero channels", `{"engine": {"channels": 0}}`, ErrInvalid},
		{"negative lead", `{"pump": {"lead_ticks": -1}}`, ErrInvalid},
		{"bad level", `{"log_level": "loud"}`, ErrInvalid},
		{"zero stream queue", `{"stream": {"queue": 0}}`, ErrInvalid},
		{"relative stream path", `{"stream": {"listen": ":8927", "path": "capture"}}`, ErrInvalid},
		{"advertise without listen", `{"stream": {"advertise": true}}`, ErrInvalid},
		{"numeric duration", `{"engine": {"tick_interval": 10}}`, nil},
		{"broken json", `{"engine":`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeFile(t, tt.body))
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "avloop.json")
	cfg := Default()
	cfg.Engine.Layout = "split"
	cfg.Engine.TickInterval = Duration(20 * time.Millisecond)

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *back != *cfg {
		t.Errorf("Load(Save(cfg)) = %+v, want %+v", back, cfg)
	}
}
