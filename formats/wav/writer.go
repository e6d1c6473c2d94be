// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/avdevice/formats/internal/pcm"
)

// Writer records interleaved float samples as a 16-bit PCM WAV file. It is
// a capture sink: WriteSamples then Close.
type Writer struct {
	pcm.Writer
}

// NewWriter encodes to ws. The header sizes are patched on Close, which is
// why a seekable writer is needed.
func NewWriter(ws io.WriteSeeker, sampleRate, channels int) (*Writer, error) {
	return newWriter(ws, sampleRate, channels, nil)
}

// Create makes the file at path and returns a Writer that closes it.
func Create(path string, sampleRate, channels int) (*Writer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, ErrInvalidWriterFormat
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return newWriter(f, sampleRate, channels, f)
}

func newWriter(ws io.WriteSeeker, sampleRate, channels int, closer io.Closer) (*Writer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, ErrInvalidWriterFormat
	}

	enc := wav.NewEncoder(ws, sampleRate, 16, channels, pcmFormat)
	format := &goaudio.Format{NumChannels: channels, SampleRate: sampleRate}
	return &Writer{Writer: *pcm.NewWriter(enc, format, closer)}, nil
}
