// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and records 16-bit linear PCM WAV files with
// github.com/go-audio/wav.
//
// Decoding:
//
//	f, _ := os.Open("input.wav")
//	src, err := wav.Decoder{}.Decode(f) // closes f with src
//
// Any io.Reader works; one that cannot seek is buffered in memory first.
// Only PCM (format tag 1) at 16 bits is accepted; anything else returns
// ErrOnlyPCM16bitSupported.
//
// Recording:
//
//	w, _ := wav.Create("captured.wav", 48000, 2)
//	_ = w.WriteSamples(samples) // interleaved float32 in [-1,1]
//	_ = w.Close()               // patches the RIFF sizes
//
// Samples are quantized with the same asymmetric scaling the engine uses,
// so a captured file holds exactly the integers the engine looped.
package wav
