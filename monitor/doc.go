// SPDX-License-Identifier: EPL-2.0

// Package monitor plays the engine's captured input on the local speakers
// through github.com/ebitengine/oto/v3.
//
// A Player is a capture sink: hand it to the pump next to a file recorder
// with pump.MultiSink. Samples are queued and pulled by the audio backend
// on its own schedule; when the backend falls behind, the oldest frames are
// dropped rather than blocking the pump.
//
// Build with -tags headless to leave the audio backend out entirely; New
// then returns ErrUnavailable.
package monitor
