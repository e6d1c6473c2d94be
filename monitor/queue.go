// SPDX-License-Identifier: EPL-2.0

package monitor

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/ik5/avdevice/codec"
)

// DefaultLatency bounds how far the speaker output may trail the capture.
const DefaultLatency = 200 * time.Millisecond

// queue is a bounded FIFO of whole PCM frames. A write that overflows it
// discards the oldest frames, so playback never falls further behind than
// the capacity. Reads never block: missing data is played as silence.
type queue struct {
	mu        sync.Mutex
	data      []byte
	start     int
	size      int
	frameSize int
	dropped   uint64
}

func newQueue(frames, frameSize int) *queue {
	return &queue{data: make([]byte, frames*frameSize), frameSize: frameSize}
}

func (q *queue) write(p []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(p) >= len(q.data) {
		q.dropped += uint64(q.size+len(p)-len(q.data)) / uint64(q.frameSize)
		copy(q.data, p[len(p)-len(q.data):])
		q.start, q.size = 0, len(q.data)
		return
	}
	if over := q.size + len(p) - len(q.data); over > 0 {
		q.start = (q.start + over) % len(q.data)
		q.size -= over
		q.dropped += uint64(over / q.frameSize)
	}

	end := (q.start + q.size) % len(q.data)
	n := copy(q.data[end:], p)
	copy(q.data, p[n:])
	q.size += len(p)
}

// Read implements io.Reader for the audio backend. It always fills p.
func (q *queue) Read(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	avail := min(q.size, len(p)) / q.frameSize * q.frameSize
	n := copy(p[:avail], q.data[q.start:])
	copy(p[n:avail], q.data)
	q.start = (q.start + avail) % len(q.data)
	q.size -= avail

	clear(p[avail:])
	return len(p), nil
}

func (q *queue) buffered() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size / q.frameSize
}

func (q *queue) droppedFrames() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// encodeLE quantizes samples into dst as signed 16-bit little-endian, the
// format the monitor opens the backend with, growing dst as needed.
func encodeLE(dst []byte, samples []float32) []byte {
	need := len(samples) * 2
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]
	for i, v := range samples {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(codec.QuantizeSample(v)))
	}
	return dst
}
