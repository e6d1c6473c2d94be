// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ik5/avdevice/audio"
	"github.com/ik5/avdevice/buffer"
)

// Direction is the data direction of a stream as seen by applications.
type Direction int

const (
	Output Direction = iota
	Input
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// StreamDescriptor is what the engine registers with the host for each
// stream: where its samples live and how they are laid out.
type StreamDescriptor struct {
	ID              uuid.UUID
	Direction       Direction
	Buffer          *buffer.Cyclic
	Format          audio.Format
	SampleRate      int
	StartingChannel int
}

func newDescriptor(dir Direction, buf *buffer.Cyclic, f audio.Format) *StreamDescriptor {
	return &StreamDescriptor{
		ID:              uuid.New(),
		Direction:       dir,
		Buffer:          buf,
		Format:          f,
		SampleRate:      f.SampleRate,
		StartingChannel: 1,
	}
}

func (s *StreamDescriptor) String() string {
	return fmt.Sprintf("%s stream %s (%s, channel %d)", s.Direction, s.ID, s.Format, s.StartingChannel)
}

// Checkpoint is a timing mark the engine hands to the host: once when it
// starts and then every time the tick cursor returns to the buffer start.
type Checkpoint struct {
	Time      int64 // host clock, nanoseconds
	LoopCount uint64
	Wrap      bool // false for the start mark
}
