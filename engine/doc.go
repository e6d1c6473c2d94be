// SPDX-License-Identifier: EPL-2.0

// Package engine implements a loopback audio engine driven by a
// drift-corrected tick.
//
// Lifecycle:
//
//	e, err := engine.New(engine.DefaultConfig(), host)
//	err = e.Initialize() // buffers + stream registration, rolled back on failure
//	err = e.Start()      // counter reset, start checkpoint, first tick armed
//	...
//	e.Stop()             // waits for an in-flight tick
//	e.Close()            // withdraws streams, releases buffers
//
// Each tick copies one tick of output into the input buffer at the slot
// interruptCount mod ticksPerBuffer and, when that slot is 0, hands the host
// a wrap checkpoint. Hosts read CurrentSampleFrame to stay clear of the slot
// being copied; the buffers themselves are not locked.
//
// The tick neither allocates nor logs. Lifecycle events go to the
// configured zerolog.Logger.
package engine
