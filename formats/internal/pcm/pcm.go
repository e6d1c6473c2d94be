// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer PCM decoders and encoders to float
// sources and sinks.
package pcm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/avdevice/codec"
)

// Reader is the part of a go-audio decoder a Source pulls from.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source is an audio.Source over 16-bit integer PCM.
type Source struct {
	dec      Reader
	format   *goaudio.Format
	intBuf   *goaudio.IntBuffer
	closer   io.Closer
	finished bool
}

// NewSource wraps dec. closer, if not nil, is closed with the source.
func NewSource(dec Reader, format *goaudio.Format, closer io.Closer) *Source {
	return &Source{dec: dec, format: format, closer: closer}
}

func (s *Source) SampleRate() int { return s.format.SampleRate }
func (s *Source) Channels() int   { return s.format.NumChannels }

func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.finished {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.format,
			SourceBitDepth: 16,
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("pcm: %w", err)
	}
	for i := range n {
		dst[i] = codec.ExpandSample(int16(s.intBuf.Data[i]))
	}

	// go-audio signals the end with a short read rather than io.EOF.
	if n < len(dst) || errors.Is(err, io.EOF) {
		s.finished = true
		return n, io.EOF
	}
	return n, nil
}

// Encoder is the part of a go-audio encoder a Writer pushes to.
type Encoder interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

// Writer quantizes float samples to 16-bit PCM and hands them to an encoder.
type Writer struct {
	enc    Encoder
	intBuf *goaudio.IntBuffer
	closer io.Closer
	frames int
	closed bool
}

// NewWriter wraps enc. closer, if not nil, is closed after the encoder.
func NewWriter(enc Encoder, format *goaudio.Format, closer io.Closer) *Writer {
	return &Writer{
		enc: enc,
		intBuf: &goaudio.IntBuffer{
			Format:         format,
			SourceBitDepth: 16,
		},
		closer: closer,
	}
}

// WriteSamples encodes interleaved samples. len(samples) must be a whole
// number of frames.
func (w *Writer) WriteSamples(samples []float32) error {
	if w.closed {
		return ErrClosed
	}
	ch := w.intBuf.Format.NumChannels
	if len(samples)%ch != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", ErrPartialFrame, len(samples), ch)
	}
	if len(samples) == 0 {
		return nil
	}

	if cap(w.intBuf.Data) < len(samples) {
		w.intBuf.Data = make([]int, len(samples))
	}
	w.intBuf.Data = w.intBuf.Data[:len(samples)]
	for i, v := range samples {
		w.intBuf.Data[i] = int(codec.QuantizeSample(v))
	}

	if err := w.enc.Write(w.intBuf); err != nil {
		return fmt.Errorf("pcm: %w", err)
	}
	w.frames += len(samples) / ch
	return nil
}

// Frames is the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Close finalizes the encoder, which patches the file header, and then
// closes the underlying file. Calling it again does nothing.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.enc.Close()
	if w.closer != nil {
		err = errors.Join(err, w.closer.Close())
	}
	return err
}

// Seekable returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek. go-audio decoders need to seek between chunks.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}
