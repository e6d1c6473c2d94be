// SPDX-License-Identifier: EPL-2.0

// Package audio provides the format description and the streaming primitives
// shared by the rest of avdevice.
//
// # Format
//
// Format is the immutable linear PCM description an engine is built from:
//
//	f := audio.DefaultFormat() // 48kHz, 2 channels, 16-bit, big-endian
//	f.FrameSize()              // 4 bytes
//	f.BufferFrames()           // 24000 frames (half a second)
//
// Validate rejects anything the sample codec cannot store.
//
// # Source Interface
//
// The Source interface yields interleaved float32 samples in the range
// [-1.0, 1.0]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// File decoders under formats/ return Sources, and the pump renders a Source
// into an engine's output buffer.
//
// # Conforming Sources
//
// Conform wraps a Source so that it matches a Format's rate and channel count:
//
//	src, err := audio.Conform(decoded, engineFormat)
//
// Rate changes go through Resampler (Catmull-Rom interpolation over four
// frames); channel changes go through ChannelMapper.
//
// # Format Registry
//
// The registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, ok := registry.ForPath("take1.WAV")
//
// # Error Handling
//
// ReadSamples returns io.EOF when no more data is available. A source that
// keeps returning no data and no error makes the resampler fail with
// io.ErrNoProgress.
package audio
