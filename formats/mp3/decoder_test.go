// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/avdevice/audio"
	"github.com/ik5/avdevice/codec"
)

// mockMP3Reader simulates gomp3.Decoder. chunk limits how many bytes a single
// Read returns, to exercise frames split across reads.
type mockMP3Reader struct {
	sampleRate int
	pcm        []byte
	offset     int
	chunk      int
	err        error
}

func newMock(sampleRate int, samples []int16, chunk int) *mockMP3Reader {
	m := &mockMP3Reader{sampleRate: sampleRate, chunk: chunk}
	for _, v := range samples {
		m.pcm = binary.LittleEndian.AppendUint16(m.pcm, uint16(v))
	}
	return m
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.pcm) {
		return 0, io.EOF
	}
	end := len(m.pcm)
	if m.chunk > 0 && m.offset+m.chunk < end {
		end = m.offset + m.chunk
	}
	n := copy(buf, m.pcm[m.offset:end])
	m.offset += n
	return n, nil
}

type closeCounter struct{ calls int }

func (c *closeCounter) Close() error { c.calls++; return nil }

func newSource(m *mockMP3Reader) *source {
	return &source{dec: m, sampleRate: m.sampleRate}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"text":  []byte("This is not MP3 data"),
		"empty": {},
	} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("%s: Decode() error = nil, want error", name)
		}
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newSource(&mockMP3Reader{sampleRate: 44100})
	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	values := []int16{0, 16384, -16384, 32767, -32768, 1, -1, 100}

	tests := []struct {
		name  string
		chunk int
		dst   int
	}{
		{"whole reads", 0, 8},
		{"split frames", 3, 8},
		{"small buffer", 0, 2},
		{"odd chunk small buffer", 5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newSource(newMock(48000, values, tt.chunk))
			var got []float32
			buf := make([]float32, tt.dst)
			for range 100 {
				n, err := src.ReadSamples(buf)
				if n%2 != 0 {
					t.Fatalf("ReadSamples() returned %d samples, not whole frames", n)
				}
				got = append(got, buf[:n]...)
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("ReadSamples() error = %v", err)
				}
			}

			if len(got) != len(values) {
				t.Fatalf("decoded %d samples, want %d", len(got), len(values))
			}
			for i, v := range values {
				if want := codec.ExpandSample(v); got[i] != want {
					t.Errorf("sample %d = %v, want %v", i, got[i], want)
				}
			}
		})
	}
}

func TestSource_TruncatesPartialFrame(t *testing.T) {
	t.Parallel()

	// Three samples: the trailing half frame is dropped.
	src := newSource(newMock(48000, []int16{10, 20, 30}, 0))
	buf := make([]float32, 8)
	n, err := src.ReadSamples(buf)
	if n != 2 || err != io.EOF {
		t.Errorf("ReadSamples() = %d, %v; want 2, io.EOF", n, err)
	}
	if n, err := src.ReadSamples(buf); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() after EOF = %d, %v; want 0, io.EOF", n, err)
	}
}

func TestSource_ReadSamples_Errors(t *testing.T) {
	t.Parallel()

	src := newSource(newMock(48000, []int16{1, 2}, 0))
	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(3) error = %v, want ErrInvalidDstSize", err)
	}
	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v; want 0, nil", n, err)
	}

	boom := errors.New("corrupt frame")
	bad := newSource(&mockMP3Reader{sampleRate: 48000, err: boom})
	if _, err := bad.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want wrapped decoder error", err)
	}
}

func TestSource_Close(t *testing.T) {
	t.Parallel()

	c := &closeCounter{}
	src := &source{dec: &mockMP3Reader{}, closer: c}
	_ = src.Close()
	_ = src.Close()
	if c.calls != 1 {
		t.Errorf("closer called %d times, want 1", c.calls)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	m := newMock(48000, make([]int16, 960), 0)
	src := &source{dec: m, buf: make([]byte, 1920)}
	buf := make([]float32, 960)

	b.ReportAllocs()

	for b.Loop() {
		m.offset = 0
		_, _ = src.ReadSamples(buf)
	}
}
