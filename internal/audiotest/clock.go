// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync"
	"time"

	"github.com/ik5/avdevice/scheduler"
)

// FakeClock is a manually driven scheduler.Clock. Timers only fire from
// Advance or FireNext, on the calling goroutine.
type FakeClock struct {
	mu     sync.Mutex
	now    int64
	timers []*FakeTimer
}

// FakeTimer is a timer created by FakeClock.AfterFunc.
type FakeTimer struct {
	clock *FakeClock
	fn    func()
	due   int64
	armed bool
}

// NewFakeClock returns a clock that reads start nanoseconds.
func NewFakeClock(start int64) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) NowNanos() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) scheduler.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &FakeTimer{clock: c, fn: f, due: c.now + int64(d), armed: true}
	c.timers = append(c.timers, t)
	return t
}

// Set moves the clock to ns without firing timers.
func (c *FakeClock) Set(ns int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = ns
}

// Pending reports how many timers are armed.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if t.armed {
			n++
		}
	}
	return n
}

// NextDue returns the earliest armed deadline.
func (c *FakeClock) NextDue() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.earliest()
	if t == nil {
		return 0, false
	}
	return t.due, true
}

// must hold c.mu
func (c *FakeClock) earliest() *FakeTimer {
	var first *FakeTimer
	for _, t := range c.timers {
		if t.armed && (first == nil || t.due < first.due) {
			first = t
		}
	}
	return first
}

// Advance moves the clock forward by d and fires, in deadline order, every
// timer that comes due. It returns the number of callbacks run.
func (c *FakeClock) Advance(d time.Duration) int {
	c.mu.Lock()
	target := c.now + int64(d)
	c.mu.Unlock()

	fired := 0
	for {
		c.mu.Lock()
		t := c.earliest()
		if t == nil || t.due > target {
			c.now = target
			c.mu.Unlock()
			return fired
		}
		c.now = max(c.now, t.due)
		t.armed = false
		fn := t.fn
		c.mu.Unlock()

		fn()
		fired++
	}
}

// FireNext runs the earliest armed timer as if it fired lateness after its
// deadline (negative lateness fires early). The clock never moves backwards.
// It returns false when no timer is armed.
func (c *FakeClock) FireNext(lateness time.Duration) bool {
	c.mu.Lock()
	t := c.earliest()
	if t == nil {
		c.mu.Unlock()
		return false
	}
	c.now = max(c.now, t.due+int64(lateness))
	t.armed = false
	fn := t.fn
	c.mu.Unlock()

	fn()
	return true
}

func (t *FakeTimer) Reset(d time.Duration) bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	was := t.armed
	t.armed = true
	t.due = t.clock.now + int64(d)
	return was
}

func (t *FakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	was := t.armed
	t.armed = false
	return was
}
