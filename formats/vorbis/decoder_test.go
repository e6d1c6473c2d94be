// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/avdevice/audio"
)

// mockOggReader simulates oggvorbis.Reader. Read returns at most chunk values.
type mockOggReader struct {
	sampleRate int
	channels   int
	samples    []float32
	offset     int
	chunk      int
	err        error
}

func (m *mockOggReader) SampleRate() int { return m.sampleRate }
func (m *mockOggReader) Channels() int   { return m.channels }

func (m *mockOggReader) Read(p []float32) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}
	end := len(m.samples)
	if m.chunk > 0 && m.offset+m.chunk < end {
		end = m.offset + m.chunk
	}
	n := copy(p, m.samples[m.offset:end])
	m.offset += n
	return n, nil
}

func newSource(m *mockOggReader) *source {
	return &source{dec: m, sampleRate: m.sampleRate, channels: m.channels}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"text":  []byte("This is not Ogg Vorbis data"),
		"empty": {},
	} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("%s: Decode() error = nil, want error", name)
		}
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	samples := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3, 0.4, -0.4, 0.5, -0.5}

	tests := []struct {
		name     string
		channels int
		chunk    int
		dst      int
	}{
		{"stereo", 2, 0, 4},
		{"stereo chunked", 2, 2, 6},
		{"mono", 1, 0, 3},
		{"one big read", 2, 0, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := newSource(&mockOggReader{sampleRate: 44100, channels: tt.channels, samples: samples, chunk: tt.chunk})
			var got []float32
			buf := make([]float32, tt.dst)
			for range 100 {
				n, err := src.ReadSamples(buf)
				got = append(got, buf[:n]...)
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("ReadSamples() error = %v", err)
				}
			}

			if len(got) != len(samples) {
				t.Fatalf("decoded %d values, want %d", len(got), len(samples))
			}
			for i := range samples {
				if got[i] != samples[i] {
					t.Errorf("value %d = %v, want %v", i, got[i], samples[i])
				}
			}
		})
	}
}

func TestSource_EOFIsSticky(t *testing.T) {
	t.Parallel()

	src := newSource(&mockOggReader{sampleRate: 48000, channels: 2, samples: []float32{0, 0}})
	buf := make([]float32, 8)
	_, _ = src.ReadSamples(buf)
	for range 3 {
		if n, err := src.ReadSamples(buf); n != 0 || err != io.EOF {
			t.Fatalf("ReadSamples() = %d, %v; want 0, io.EOF", n, err)
		}
	}
}

func TestSource_ReadSamples_Errors(t *testing.T) {
	t.Parallel()

	src := newSource(&mockOggReader{sampleRate: 48000, channels: 2})
	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(3) error = %v, want ErrInvalidDstSize", err)
	}

	boom := errors.New("bad packet")
	bad := newSource(&mockOggReader{sampleRate: 48000, channels: 2, err: boom})
	if _, err := bad.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want wrapped decoder error", err)
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newSource(&mockOggReader{sampleRate: 22050, channels: 1})
	if src.SampleRate() != 22050 || src.Channels() != 1 || src.BufSize() != defaultBufSize {
		t.Errorf("metadata = %d/%d/%d", src.SampleRate(), src.Channels(), src.BufSize())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
