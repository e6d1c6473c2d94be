// SPDX-License-Identifier: EPL-2.0

package scheduler

import (
	"sync"
	"time"
)

// State is the lifecycle state of a Scheduler.
type State int

const (
	// Idle means no timer is armed.
	Idle State = iota
	// Armed means Start ran and the first tick has not fired yet.
	Armed
	// Running means at least one tick has fired since Start.
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Stats counts what happened since the last Start.
type Stats struct {
	Ticks       uint64
	Late        uint64        // ticks that fired after their deadline
	Clamped     uint64        // re-arms raised to the minimum delay
	MaxLateness time.Duration // worst observed lateness
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMinRearm sets the smallest delay a re-arm may use. A tick that runs so
// late that the corrected delay drops below d is re-armed for d instead. The
// default is 0, so a late scheduler catches up as fast as the timer allows.
func WithMinRearm(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.minRearm = d
		}
	}
}

// Scheduler fires a handler on a fixed grid of deadlines.
//
// Every tick re-arms the timer for interval + (deadline - now), then moves the
// deadline forward by exactly one interval. Fire-time jitter therefore never
// accumulates: the n-th tick is aimed at start + n*interval no matter how
// early or late the ticks before it ran.
//
// The handler runs with the scheduler's lock held, so ticks never overlap
// each other or a Start/Stop. The handler must not call any Scheduler method.
type Scheduler struct {
	clock    Clock
	interval time.Duration
	minRearm time.Duration
	handler  func()

	mu       sync.Mutex // held for a whole tick and for lifecycle changes
	state    State
	gen      uint64
	timer    Timer
	deadline int64
	stats    Stats
}

// New returns an idle scheduler that calls handler every interval on clock.
func New(clock Clock, interval time.Duration, handler func(), opts ...Option) (*Scheduler, error) {
	if clock == nil {
		return nil, ErrNoClock
	}
	if handler == nil {
		return nil, ErrNoHandler
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	s := &Scheduler{
		clock:    clock,
		interval: interval,
		handler:  handler,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start arms the first tick one interval from now.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return ErrAlreadyRunning
	}

	s.gen++
	gen := s.gen
	s.stats = Stats{}
	s.deadline = s.clock.NowNanos() + int64(s.interval)
	s.state = Armed
	s.timer = s.clock.AfterFunc(s.interval, func() { s.fire(gen) })
	return nil
}

// Stop disarms the timer. If a tick is in progress Stop waits for it, and no
// tick runs once Stop has returned. Stopping an idle scheduler does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Idle {
		return
	}
	s.timer.Stop()
	s.timer = nil
	s.gen++
	s.state = Idle
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A callback from a previous run that lost the race with Stop.
	if gen != s.gen || s.state == Idle {
		return
	}
	s.state = Running

	s.handler()

	now := s.clock.NowNanos()
	diff := time.Duration(s.deadline - now)
	if diff < 0 {
		s.stats.Late++
		s.stats.MaxLateness = max(s.stats.MaxLateness, -diff)
	}

	next := s.interval + diff
	if next < s.minRearm {
		next = s.minRearm
		s.stats.Clamped++
	}
	s.timer.Reset(next)

	s.deadline += int64(s.interval)
	s.stats.Ticks++
}

// Interval is the nominal tick period.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// State reports the lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Deadline is the absolute time, in Clock nanoseconds, the next tick is
// aimed at. It is meaningless while Idle.
func (s *Scheduler) Deadline() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deadline
}

// Stats returns the counters of the current or last run.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}
