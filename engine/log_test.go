// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// syncBuffer is a bytes.Buffer safe for the logger and the test to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestLogging_DuplicateLayoutWarns(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	e := newEngine(t, newFakeHost(), func(c *Config) {
		c.Logger = zerolog.New(&out)
	})
	_ = e.Initialize()

	logs := out.String()
	if !strings.Contains(logs, `"level":"warn"`) || !strings.Contains(logs, "output buffer twice") {
		t.Errorf("duplicate layout did not warn:\n%s", logs)
	}
	if !strings.Contains(logs, `"component":"engine"`) {
		t.Errorf("log lines lack the component field:\n%s", logs)
	}
}

func TestLogging_SplitLayoutQuiet(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	e := newEngine(t, newFakeHost(), func(c *Config) {
		c.Logger = zerolog.New(&out)
		c.Layout = LayoutOutputInput
	})
	_ = e.Initialize()

	if strings.Contains(out.String(), `"level":"warn"`) {
		t.Errorf("split layout warned:\n%s", out.String())
	}
}

func TestLogging_FormatChangeRates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate      int
		wantLevel string
		wantRate  string
	}{
		{44100, "info", "44.1kHz"},
		{48000, "info", "48kHz"},
		{96000, "warn", "unknown (96000Hz)"},
	}

	for _, tt := range tests {
		var out syncBuffer
		e := newEngine(t, newFakeHost(), func(c *Config) { c.Logger = zerolog.New(&out) })

		_ = e.PerformFormatChange(nil, nil, tt.rate)

		logs := out.String()
		if !strings.Contains(logs, `"level":"`+tt.wantLevel+`"`) || !strings.Contains(logs, tt.wantRate) {
			t.Errorf("rate %d logged %q, want level %s and %q", tt.rate, logs, tt.wantLevel, tt.wantRate)
		}
	}
}

func TestLogging_TickIsSilent(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	h := newFakeHost()
	e := startedEngine(t, h, func(c *Config) { c.Logger = zerolog.New(&out) })

	before := out.String()
	for range 120 {
		h.FireNext(0)
	}
	if out.String() != before {
		t.Errorf("ticks wrote log lines:\n%s", strings.TrimPrefix(out.String(), before))
	}
	if e.InterruptCount() != 120 {
		t.Errorf("InterruptCount() = %d, want 120", e.InterruptCount())
	}
}
