// SPDX-License-Identifier: EPL-2.0

package scheduler

import "time"

// Timer is a one-shot timer that can be re-armed from inside its own
// callback. *time.Timer satisfies it.
type Timer interface {
	Reset(d time.Duration) bool
	Stop() bool
}

// Clock is the host time and timer service.
type Clock interface {
	// NowNanos reads a monotonic clock in nanoseconds.
	NowNanos() int64
	// AfterFunc arms a timer that calls f once d has elapsed. The host runs
	// f on a consistent context, never concurrently with itself.
	AfterFunc(d time.Duration, f func()) Timer
}

var epoch = time.Now()

// RealClock is the Clock backed by package time. The zero value is ready to
// use; NowNanos counts from process start on the monotonic clock.
type RealClock struct{}

func (RealClock) NowNanos() int64 {
	return int64(time.Since(epoch))
}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
