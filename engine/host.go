// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"github.com/ik5/avdevice/buffer"
	"github.com/ik5/avdevice/scheduler"
)

// Host is everything the engine needs from its environment.
type Host interface {
	buffer.Allocator
	scheduler.Clock

	// RegisterStream publishes a stream to applications.
	RegisterStream(s *StreamDescriptor) error
	// UnregisterStream withdraws a stream published by RegisterStream.
	UnregisterStream(s *StreamDescriptor)
	// TakeTimestamp records a timing checkpoint. It is called from the tick
	// and must not block or allocate.
	TakeTimestamp(c Checkpoint)
}
