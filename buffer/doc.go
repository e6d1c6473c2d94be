// SPDX-License-Identifier: EPL-2.0

// Package buffer holds the two half-second PCM regions an engine loops audio
// through, and the tick geometry used to address them.
//
// At 48 kHz stereo with 100 ticks per second a tick moves 480 frames (1920
// bytes) and 50 ticks make one buffer period:
//
//	g, _ := buffer.NewGeometry(audio.DefaultFormat(), 100)
//	g.ByteOffset(50) == g.ByteOffset(0)
//
// The regions are not locked. Writers and readers keep out of each other's
// way by following the engine's current sample frame.
package buffer
