// SPDX-License-Identifier: EPL-2.0

// Package stream publishes the engine's captured input to the network.
//
// A Broadcaster is both a capture sink and an http.Handler. Each websocket
// listener first receives a JSON Hello describing the format, then one
// binary message per captured chunk of signed 16-bit big-endian frames:
//
//	b, _ := stream.New(stream.Config{SampleRate: 48000, Channels: 2})
//	http.Handle("/capture", b)
//	sink := pump.MultiSink(recorder, b)
//
// Advertise announces the endpoint over mDNS as _avdevice._tcp so that
// listeners on the local network can find it without an address.
package stream
