// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// The decoder already produces float samples in [-1,1], so they are handed
// to the caller unchanged; the engine quantizes them when the pump clips
// them into the output buffer. Channel count and rate come from the
// stream's identification header.
package vorbis
