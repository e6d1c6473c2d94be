// SPDX-License-Identifier: EPL-2.0

// Package avdevice is a virtual loopback audio device.
//
// Whatever a client renders into the device's output buffer reappears, one
// tick later, in its input buffer. A drift-corrected timer drives the loop at
// a fixed rate, 100 ticks per second by default, and publishes a timestamp
// checkpoint each time the cyclic buffers wrap so the host can derive the
// device's sample clock.
//
// # Layout
//
//   - codec: float32 mix samples to and from 16-bit PCM
//   - buffer: the output/input cyclic buffer pair and its tick geometry
//   - scheduler: the self-correcting periodic timer
//   - engine: lifecycle, the tick handler and the sample conversion entry points
//   - host: an in-process host that allocates buffers and records checkpoints
//   - pump: a client that plays an audio.Source into the device and captures
//     the looped input into a sink
//   - formats: WAV, AIFF, MP3 and Ogg Vorbis sources, WAV and AIFF recorders
//   - monitor: plays the captured input on the speakers
//
// # Quick Start
//
//	h := host.New()
//	dev, err := avdevice.Open(engine.DefaultConfig(), h)
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//
//	src, _ := formats.Open(formats.NewRegistry(), "song.mp3")
//	rec, _ := formats.Create("captured.aiff", 48000, 2)
//	p, _ := pump.New(dev.Engine(), src, rec, pump.Config{})
//	_ = p.Prime()
//	_ = dev.Engine().Start()
//	err = p.Run(ctx, 2*time.Millisecond)
//
// cmd/avloop wraps exactly this.
package avdevice
