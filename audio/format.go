// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"
)

// ByteOrder is the order of the bytes that make up one sample in a PCM buffer.
type ByteOrder int

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

// Binary returns the encoding/binary order for o.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little-endian"
	}
	return "big-endian"
}

// Alignment describes where the significant bits of a sample sit when
// BitDepth is smaller than SampleWidth.
type Alignment int

const (
	AlignHighByte Alignment = iota
	AlignLowByte
)

// Numeric is the numeric representation of stored samples.
type Numeric int

const (
	SignedInt Numeric = iota
	UnsignedInt
)

// Format describes the linear PCM layout of an engine's sample buffers.
//
// A Format is a value: it is passed at construction and never mutated, so all
// buffer sizing and offset arithmetic derived from it stays valid for the
// life of whatever was built from it.
type Format struct {
	SampleRate  int
	Channels    int
	BitDepth    int
	SampleWidth int
	ByteOrder   ByteOrder
	Alignment   Alignment
	Numeric     Numeric
	Mixable     bool
}

// DefaultFormat returns 16-bit signed big-endian stereo PCM at 48 kHz.
func DefaultFormat() Format {
	return Format{
		SampleRate:  48000,
		Channels:    2,
		BitDepth:    16,
		SampleWidth: 16,
		ByteOrder:   BigEndian,
		Alignment:   AlignHighByte,
		Numeric:     SignedInt,
		Mixable:     true,
	}
}

// BytesPerSample is the storage size of a single channel sample.
func (f Format) BytesPerSample() int { return f.SampleWidth / 8 }

// FrameSize is the storage size of one frame (one sample per channel).
func (f Format) FrameSize() int { return f.Channels * f.BytesPerSample() }

// BufferFrames is the number of frames held by a half-second cyclic buffer.
func (f Format) BufferFrames() int { return f.SampleRate / 2 }

// BufferBytes is the byte length of a half-second cyclic buffer.
func (f Format) BufferBytes() int { return f.BufferFrames() * f.FrameSize() }

// Validate reports whether f can be served by the codec and the buffer layout.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, f.Channels)
	}
	if f.BitDepth != 16 || f.SampleWidth != 16 {
		return fmt.Errorf("%w: %d-bit samples in %d-bit words", ErrUnsupportedFormat, f.BitDepth, f.SampleWidth)
	}
	if f.Numeric != SignedInt {
		return fmt.Errorf("%w: only signed integer samples", ErrUnsupportedFormat)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit %s", f.SampleRate, f.Channels, f.BitDepth, f.ByteOrder)
}

// RateCategory names a sample rate for diagnostics. ok is false when the rate
// is not one the device advertises.
func RateCategory(rate int) (name string, ok bool) {
	switch rate {
	case 44100:
		return "44.1kHz", true
	case 48000:
		return "48kHz", true
	default:
		return fmt.Sprintf("unknown (%dHz)", rate), false
	}
}
