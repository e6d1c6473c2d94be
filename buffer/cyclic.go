// SPDX-License-Identifier: EPL-2.0

package buffer

// Allocator is the host memory service the buffer pair is carved from.
type Allocator interface {
	Allocate(size int) ([]byte, error)
	Release(buf []byte)
}

// HeapAllocator hands out ordinary Go slices. Release is a no-op.
type HeapAllocator struct{}

func (HeapAllocator) Allocate(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func (HeapAllocator) Release([]byte) {}

// Cyclic is a fixed-length PCM region addressed modulo its length.
type Cyclic struct {
	data      []byte
	frameSize int
}

// Bytes returns the backing region. The slice is never reallocated.
func (c *Cyclic) Bytes() []byte { return c.data }

// Len is the region length in bytes.
func (c *Cyclic) Len() int { return len(c.data) }

// Frames is the region length in frames.
func (c *Cyclic) Frames() int { return len(c.data) / c.frameSize }

// FrameSize is the size of one frame in bytes.
func (c *Cyclic) FrameSize() int { return c.frameSize }

// Slot returns the n-frame window starting at frame, without wrapping.
// It returns nil if the window leaves the region.
func (c *Cyclic) Slot(frame, n int) []byte {
	start, end := frame*c.frameSize, (frame+n)*c.frameSize
	if frame < 0 || n < 0 || end > len(c.data) {
		return nil
	}
	return c.data[start:end:end]
}
