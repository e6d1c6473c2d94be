// SPDX-License-Identifier: EPL-2.0

package buffer

import (
	"fmt"
	"time"

	"github.com/ik5/avdevice/audio"
)

// Geometry is the tick layout of a half-second cyclic buffer: how many frames
// one scheduler tick moves and how many ticks make up one buffer period.
type Geometry struct {
	Format         audio.Format
	TicksPerSecond int
	FramesPerTick  int
	TicksPerBuffer int
	BytesPerTick   int
	BufferFrames   int
	BufferBytes    int
}

// NewGeometry derives the tick layout for f at ticksPerSecond ticks. The
// ticks of one buffer period must cover the buffer exactly, otherwise the
// rotating offset would leave a gap or overrun the region.
func NewGeometry(f audio.Format, ticksPerSecond int) (Geometry, error) {
	if err := f.Validate(); err != nil {
		return Geometry{}, err
	}
	if ticksPerSecond < 2 || ticksPerSecond%2 != 0 {
		return Geometry{}, fmt.Errorf("%w: %d ticks per second", ErrGeometry, ticksPerSecond)
	}

	g := Geometry{
		Format:         f,
		TicksPerSecond: ticksPerSecond,
		FramesPerTick:  f.SampleRate / ticksPerSecond,
		TicksPerBuffer: ticksPerSecond / 2,
		BufferFrames:   f.BufferFrames(),
		BufferBytes:    f.BufferBytes(),
	}
	g.BytesPerTick = g.FramesPerTick * f.FrameSize()

	if g.FramesPerTick == 0 || g.FramesPerTick*g.TicksPerBuffer != g.BufferFrames {
		return Geometry{}, fmt.Errorf("%w: %d frames/tick x %d ticks != %d frames",
			ErrGeometry, g.FramesPerTick, g.TicksPerBuffer, g.BufferFrames)
	}
	return g, nil
}

// GeometryForInterval is NewGeometry for a tick period instead of a rate.
// The interval must divide one second evenly.
func GeometryForInterval(f audio.Format, interval time.Duration) (Geometry, error) {
	if interval <= 0 || time.Second%interval != 0 {
		return Geometry{}, fmt.Errorf("%w: interval %v", ErrGeometry, interval)
	}
	return NewGeometry(f, int(time.Second/interval))
}

// Interval is the nominal period between ticks.
func (g Geometry) Interval() time.Duration {
	return time.Second / time.Duration(g.TicksPerSecond)
}

// Position is the slot of tick within the buffer period.
func (g Geometry) Position(tick uint64) int {
	return int(tick % uint64(g.TicksPerBuffer))
}

// ByteOffset is where tick's transfer starts in either region.
func (g Geometry) ByteOffset(tick uint64) int {
	return g.Position(tick) * g.BytesPerTick
}

// SampleFrame is the frame offset of tick within the buffer. It is always
// below BufferFrames.
func (g Geometry) SampleFrame(tick uint64) int {
	return g.Position(tick) * g.FramesPerTick
}

func (g Geometry) String() string {
	return fmt.Sprintf("%s, %d ticks/s, %d frames/tick, %d ticks/buffer",
		g.Format, g.TicksPerSecond, g.FramesPerTick, g.TicksPerBuffer)
}
