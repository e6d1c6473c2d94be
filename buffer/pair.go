// SPDX-License-Identifier: EPL-2.0

package buffer

import (
	"fmt"
)

// Pair is the output and input cyclic regions of one engine. Both regions
// have Geometry.BufferBytes bytes for their whole life.
type Pair struct {
	Geometry Geometry
	Output   *Cyclic
	Input    *Cyclic

	alloc    Allocator
	released bool
}

// NewPair acquires the output region and then the input region from alloc.
// Both start silent. If either acquisition fails whatever was already
// acquired is released before returning.
func NewPair(alloc Allocator, g Geometry) (*Pair, error) {
	if alloc == nil {
		return nil, fmt.Errorf("%w: no allocator", ErrAllocation)
	}

	out, err := acquire(alloc, g.BufferBytes)
	if err != nil {
		return nil, fmt.Errorf("output buffer: %w", err)
	}
	in, err := acquire(alloc, g.BufferBytes)
	if err != nil {
		alloc.Release(out)
		return nil, fmt.Errorf("input buffer: %w", err)
	}

	frameSize := g.Format.FrameSize()
	return &Pair{
		Geometry: g,
		Output:   &Cyclic{data: out, frameSize: frameSize},
		Input:    &Cyclic{data: in, frameSize: frameSize},
		alloc:    alloc,
	}, nil
}

func acquire(alloc Allocator, size int) ([]byte, error) {
	buf, err := alloc.Allocate(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	if len(buf) != size {
		if buf != nil {
			alloc.Release(buf)
		}
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrAllocation, len(buf), size)
	}
	clear(buf)
	return buf, nil
}

// Loopback copies one tick of output into the input region at the tick's
// offset. It does not allocate.
func (p *Pair) Loopback(tick uint64) {
	off := p.Geometry.ByteOffset(tick)
	end := off + p.Geometry.BytesPerTick
	copy(p.Input.data[off:end], p.Output.data[off:end])
}

// Released reports whether Release has run.
func (p *Pair) Released() bool { return p.released }

// Release returns both regions to the allocator. Calling it again does
// nothing. The pair must not be used afterwards.
func (p *Pair) Release() {
	if p.released {
		return
	}
	p.released = true

	p.alloc.Release(p.Input.data)
	p.alloc.Release(p.Output.data)
	p.Input.data = nil
	p.Output.data = nil
}
