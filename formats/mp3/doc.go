// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files for playback through the loopback engine.
//
// It wraps github.com/hajimehoshi/go-mp3, which always yields 16-bit
// stereo at the file's own rate. Pass the source through audio.Conform to
// reach the engine format:
//
//	src, err := mp3.Decoder{}.Decode(f)
//	conformed, err := audio.Conform(src, audio.DefaultFormat())
//
// Samples are expanded with the engine's codec, so an MP3 decoded and looped
// back quantizes to the same integers go-mp3 produced. Encoding is not
// supported.
package mp3
