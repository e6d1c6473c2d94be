// SPDX-License-Identifier: EPL-2.0

// Package scheduler implements a drift-corrected periodic timer.
//
// A plain ticker re-armed for a fixed period drifts: each tick inherits the
// lateness of the one before it. Scheduler instead keeps an ideal deadline
// grid and re-arms with the error folded back in:
//
//	handler()
//	diff := deadline - now       // >0 early, <0 late
//	timer.Reset(interval + diff) // clamped to the minimum re-arm delay
//	deadline += interval
//
// Time and timers come from a Clock so tests can drive ticks by hand.
package scheduler
