// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/avdevice/formats/internal/pcm"
)

// Writer records float samples as a 16-bit big-endian AIFF file, the byte
// order the engine's buffers use.
type Writer struct {
	pcm.Writer
}

// NewWriter starts an AIFF stream on ws. Close must be called to finalize the
// chunk sizes; it does not close ws.
func NewWriter(ws io.WriteSeeker, sampleRate, channels int) (*Writer, error) {
	return newWriter(ws, sampleRate, channels, nil)
}

// Create creates path and returns a Writer that closes the file with itself.
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

	enc := aiff.NewEncoder(ws, sampleRate, 16, channels)
	format := &goaudio.Format{NumChannels: channels, SampleRate: sampleRate}
	return &Writer{Writer: *pcm.NewWriter(enc, format, closer)}, nil
}
