// SPDX-License-Identifier: EPL-2.0

// Package formats ties the file format packages together: one registry of
// decoders keyed by extension, and recorder construction for captures.
package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/avdevice/audio"
	"github.com/ik5/avdevice/formats/aiff"
	"github.com/ik5/avdevice/formats/mp3"
	"github.com/ik5/avdevice/formats/vorbis"
	"github.com/ik5/avdevice/formats/wav"
)

var (
	ErrUnknownFormat   = errors.New("no decoder for file extension")
	ErrUnknownRecorder = errors.New("captures can only be written as .wav or .aiff")
)

// Recorder receives interleaved float samples and writes them to a file.
type Recorder interface {
	WriteSamples(samples []float32) error
	Frames() int
	Close() error
}

// NewRegistry returns a registry with every decoder this module ships.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	return r
}

// Open decodes the file at path with the decoder registered for its
// extension. The file is closed with the returned source.
func Open(r *audio.Registry, path string) (audio.Source, error) {
	dec, ok := r.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src, err := dec.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return src, nil
}

// Create returns a recorder for path chosen by its extension.
func Create(path string, sampleRate, channels int) (Recorder, error) {
	ext := filepath.Ext(path)
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "wav", "wave":
		w, err := wav.Create(path, sampleRate, channels)
		if err != nil {
			return nil, err
		}
		return w, nil
	case "aiff", "aif":
		w, err := aiff.Create(path, sampleRate, channels)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRecorder, ext)
	}
}
