// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/avdevice/audio"
)

// Layout selects which streams Initialize registers.
type Layout int

const (
	// LayoutDuplicateOutput registers two output streams that share the
	// output buffer. It is the default for compatibility with existing hosts.
	LayoutDuplicateOutput Layout = iota
	// LayoutOutputInput registers one output stream on the output buffer
	// and one input stream on the input buffer.
	LayoutOutputInput
)

func (l Layout) String() string {
	switch l {
	case LayoutDuplicateOutput:
		return "duplicate"
	case LayoutOutputInput:
		return "split"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout accepts the names printed by Layout.String.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "duplicate":
		return LayoutDuplicateOutput, nil
	case "split", "output-input":
		return LayoutOutputInput, nil
	default:
		return 0, fmt.Errorf("%w: unknown layout %q", ErrPrecondition, s)
	}
}

const DefaultTickInterval = 10 * time.Millisecond

// Config is fixed for the life of an engine.
type Config struct {
	Format       audio.Format
	TickInterval time.Duration
	Layout       Layout
	// MinRearm is the shortest delay a late tick may re-arm for.
	MinRearm time.Duration
	// Logger receives lifecycle events. The zero value discards them.
	Logger zerolog.Logger
}

// DefaultConfig is 48kHz 16-bit stereo at 100 ticks per second with the
// duplicate output layout.
func DefaultConfig() Config {
	return Config{
		Format:       audio.DefaultFormat(),
		TickInterval: DefaultTickInterval,
		Layout:       LayoutDuplicateOutput,
		Logger:       zerolog.Nop(),
	}
}

func (c Config) validate() error {
	if c.Layout != LayoutDuplicateOutput && c.Layout != LayoutOutputInput {
		return fmt.Errorf("%w: %s", ErrPrecondition, c.Layout)
	}
	if c.MinRearm < 0 || c.MinRearm > c.TickInterval {
		return fmt.Errorf("%w: minimum re-arm %v outside [0, %v]", ErrPrecondition, c.MinRearm, c.TickInterval)
	}
	return nil
}
