// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes and records 16-bit AIFF files with
// github.com/go-audio/aiff.
//
// AIFF stores samples big-endian, the same order as the engine's cyclic
// buffers, which makes it the natural container for a capture of the input
// stream:
//
//	w, _ := aiff.Create("capture.aiff", 48000, 2)
//	defer w.Close()
//
// Decoding works on any io.Reader; one that cannot seek is read into memory
// first. Files with a sample width other than 16 bits are rejected with
// ErrOnlyPCM16bitSupported. AIFF-C compression is not supported.
package aiff
