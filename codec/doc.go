// SPDX-License-Identifier: EPL-2.0

// Package codec converts between normalized float32 mix samples and signed
// 16-bit linear PCM.
//
// The scaling is asymmetric so that the full int16 range is reachable:
//
//	x >= 0: int16(x * 32767)   (truncated toward zero)
//	x <  0: int16(x * 32768)
//
// and ExpandSample divides by the same constants. Inputs outside [-1,1] are
// clipped first, so 1.5 becomes 32767 and -2.0 becomes -32768.
//
// Clip and Expand work on a run of frames inside a larger interleaved buffer,
// the way an engine's host asks for "numFrames frames starting at
// firstFrame". Byte order follows the audio.Format. None of the functions
// allocate.
package codec
