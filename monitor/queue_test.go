// SPDX-License-Identifier: EPL-2.0

package monitor

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// Queues below use two-byte frames.

func TestQueue_FIFO(t *testing.T) {
	t.Parallel()

	q := newQueue(4, 2)
	q.write([]byte{1, 1, 2, 2})
	q.write([]byte{3, 3})

	p := make([]byte, 4)
	if n, err := q.Read(p); n != 4 || err != nil {
		t.Fatalf("Read() = %d, %v; want 4, nil", n, err)
	}
	if !bytes.Equal(p, []byte{1, 1, 2, 2}) {
		t.Errorf("Read() = %v, want [1 1 2 2]", p)
	}
	if q.buffered() != 1 {
		t.Errorf("buffered() = %d, want 1", q.buffered())
	}
}

func TestQueue_PadsWithSilence(t *testing.T) {
	t.Parallel()

	q := newQueue(4, 2)
	q.write([]byte{7, 7})

	p := bytes.Repeat([]byte{0xFF}, 6)
	_, _ = q.Read(p)
	if !bytes.Equal(p, []byte{7, 7, 0, 0, 0, 0}) {
		t.Errorf("Read() = %v, want data then silence", p)
	}

	_, _ = q.Read(p)
	if !bytes.Equal(p, make([]byte, 6)) {
		t.Errorf("Read() on empty queue = %v, want silence", p)
	}
}

func TestQueue_KeepsFramesWhole(t *testing.T) {
	t.Parallel()

	q := newQueue(4, 2)
	q.write([]byte{1, 1, 2, 2})

	// An odd request only drains the whole frame that fits.
	p := make([]byte, 3)
	_, _ = q.Read(p)
	if !bytes.Equal(p, []byte{1, 1, 0}) {
		t.Errorf("Read(3) = %v, want [1 1 0]", p)
	}
	p = make([]byte, 2)
	_, _ = q.Read(p)
	if !bytes.Equal(p, []byte{2, 2}) {
		t.Errorf("Read(2) = %v, want [2 2]", p)
	}
}

func TestQueue_DropsOldest(t *testing.T) {
	t.Parallel()

	q := newQueue(3, 2)
	q.write([]byte{1, 1, 2, 2})
	q.write([]byte{3, 3, 4, 4})

	if q.droppedFrames() != 1 {
		t.Errorf("droppedFrames() = %d, want 1", q.droppedFrames())
	}
	p := make([]byte, 6)
	_, _ = q.Read(p)
	if !bytes.Equal(p, []byte{2, 2, 3, 3, 4, 4}) {
		t.Errorf("Read() = %v, want [2 2 3 3 4 4]", p)
	}
}

func TestQueue_OversizedWrite(t *testing.T) {
	t.Parallel()

	q := newQueue(2, 2)
	q.write([]byte{9, 9})
	q.write([]byte{1, 1, 2, 2, 3, 3})

	if q.droppedFrames() != 2 {
		t.Errorf("droppedFrames() = %d, want 2", q.droppedFrames())
	}
	p := make([]byte, 4)
	_, _ = q.Read(p)
	if !bytes.Equal(p, []byte{2, 2, 3, 3}) {
		t.Errorf("Read() = %v, want the newest two frames", p)
	}
}

func TestQueue_WrapsAround(t *testing.T) {
	t.Parallel()

	q := newQueue(3, 2)
	p := make([]byte, 4)
	for i := range byte(10) {
		q.write([]byte{i, i, i+100, i+100})
		_, _ = q.Read(p)
		if !bytes.Equal(p, []byte{i, i, i + 100, i + 100}) {
			t.Fatalf("round %d: Read() = %v", i, p)
		}
	}
	if q.droppedFrames() != 0 {
		t.Errorf("droppedFrames() = %d, want 0", q.droppedFrames())
	}
}

func TestEncodeLE(t *testing.T) {
	t.Parallel()

	buf := encodeLE(nil, []float32{1.5, -2, 0, 0.5})
	want := []int16{32767, -32768, 0, 16383}
	if len(buf) != 8 {
		t.Fatalf("len = %d, want 8", len(buf))
	}
	for i, w := range want {
		if v := int16(binary.LittleEndian.Uint16(buf[i*2:])); v != w {
			t.Errorf("sample %d = %d, want %d", i, v, w)
		}
	}

	again := encodeLE(buf, []float32{0})
	if &again[0] != &buf[0] || len(again) != 2 {
		t.Error("encodeLE did not reuse a large enough buffer")
	}
}

func TestQueue_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	q := newQueue(960, 4)
	in := make([]byte, 1920)
	out := make([]byte, 1920)

	allocs := testing.AllocsPerRun(100, func() {
		q.write(in)
		_, _ = q.Read(out)
	})
	if allocs > 0 {
		t.Errorf("queue allocated %v times, want 0", allocs)
	}
}
