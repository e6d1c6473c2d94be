// SPDX-License-Identifier: EPL-2.0

// Package pump is a host-side client for an engine: it keeps the output
// buffer rendered a few ticks ahead of the engine's sample frame and reads
// the input buffer back behind it.
//
//	p, _ := pump.New(eng, src, sink, pump.Config{})
//	_ = p.Prime()
//	_ = eng.Start()
//	err := p.Run(ctx, 2*time.Millisecond)
package pump
