// SPDX-License-Identifier: EPL-2.0

package host

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ik5/avdevice/engine"
	"github.com/ik5/avdevice/scheduler"
)

const (
	DefaultStreamLimit = 8
	DefaultHistory     = 64
)

// Option configures a Loopback host.
type Option func(*Loopback)

// WithMemoryLimit caps the bytes handed out by Allocate. 0 means unlimited.
func WithMemoryLimit(bytes int) Option {
	return func(l *Loopback) { l.memLimit = max(bytes, 0) }
}

// WithStreamLimit caps how many streams may be registered at once.
func WithStreamLimit(n int) Option {
	return func(l *Loopback) { l.streamLimit = max(n, 0) }
}

// WithClock replaces the real clock, typically with a fake one in tests.
func WithClock(c scheduler.Clock) Option {
	return func(l *Loopback) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithHistory sets how many checkpoints are kept.
func WithHistory(n int) Option {
	return func(l *Loopback) {
		if n > 0 {
			l.history = make([]engine.Checkpoint, n)
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(l *Loopback) { l.log = log }
}

// Loopback is an in-process engine.Host. It budgets memory, keeps a registry
// of published streams and a bounded history of timing checkpoints.
type Loopback struct {
	clock scheduler.Clock
	log   zerolog.Logger

	mu          sync.Mutex
	memLimit    int
	memUsed     int
	streamLimit int
	streams     map[uuid.UUID]*engine.StreamDescriptor
	order       []uuid.UUID

	tsMu    sync.Mutex
	history []engine.Checkpoint
	next    int
	total   uint64
	wraps   uint64
}

var _ engine.Host = (*Loopback)(nil)

func New(opts ...Option) *Loopback {
	l := &Loopback{
		clock:       scheduler.RealClock{},
		log:         zerolog.Nop(),
		streamLimit: DefaultStreamLimit,
		streams:     make(map[uuid.UUID]*engine.StreamDescriptor),
		history:     make([]engine.Checkpoint, DefaultHistory),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loopback) NowNanos() int64 { return l.clock.NowNanos() }

func (l *Loopback) AfterFunc(d time.Duration, f func()) scheduler.Timer {
	return l.clock.AfterFunc(d, f)
}

func (l *Loopback) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.memLimit > 0 && l.memUsed+size > l.memLimit {
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrOutOfMemory, size, l.memUsed, l.memLimit)
	}
	l.memUsed += size
	return make([]byte, size), nil
}

func (l *Loopback) Release(buf []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.memUsed = max(l.memUsed-len(buf), 0)
}

// MemoryInUse is the number of bytes allocated and not yet released.
func (l *Loopback) MemoryInUse() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.memUsed
}

func (l *Loopback) RegisterStream(s *engine.StreamDescriptor) error {
	if s == nil || s.Buffer == nil || s.ID == uuid.Nil {
		return ErrInvalidStream
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.streams[s.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStream, s.ID)
	}
	if l.streamLimit > 0 && len(l.streams) >= l.streamLimit {
		return fmt.Errorf("%w: %d streams", ErrStreamLimit, l.streamLimit)
	}

	l.streams[s.ID] = s
	l.order = append(l.order, s.ID)
	l.log.Debug().Stringer("stream", s).Msg("stream registered")
	return nil
}

func (l *Loopback) UnregisterStream(s *engine.StreamDescriptor) {
	if s == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.streams[s.ID]; !ok {
		return
	}
	delete(l.streams, s.ID)
	l.order = slices.DeleteFunc(l.order, func(id uuid.UUID) bool { return id == s.ID })
	l.log.Debug().Stringer("stream", s).Msg("stream unregistered")
}

// Stream looks up a registered stream.
func (l *Loopback) Stream(id uuid.UUID) (*engine.StreamDescriptor, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.streams[id]
	return s, ok
}

// Streams returns the registered streams in registration order.
func (l *Loopback) Streams() []*engine.StreamDescriptor {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*engine.StreamDescriptor, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.streams[id])
	}
	return out
}

// TakeTimestamp stores c in the history ring. It does not allocate.
func (l *Loopback) TakeTimestamp(c engine.Checkpoint) {
	l.tsMu.Lock()
	defer l.tsMu.Unlock()

	l.history[l.next] = c
	l.next = (l.next + 1) % len(l.history)
	l.total++
	if c.Wrap {
		l.wraps++
	}
}

// Checkpoints returns the retained checkpoints, oldest first.
func (l *Loopback) Checkpoints() []engine.Checkpoint {
	l.tsMu.Lock()
	defer l.tsMu.Unlock()

	n := int(min(l.total, uint64(len(l.history))))
	out := make([]engine.Checkpoint, 0, n)
	start := (l.next - n + len(l.history)) % len(l.history)
	for i := range n {
		out = append(out, l.history[(start+i)%len(l.history)])
	}
	return out
}

// LastCheckpoint returns the most recent checkpoint.
func (l *Loopback) LastCheckpoint() (engine.Checkpoint, bool) {
	l.tsMu.Lock()
	defer l.tsMu.Unlock()

	if l.total == 0 {
		return engine.Checkpoint{}, false
	}
	return l.history[(l.next-1+len(l.history))%len(l.history)], true
}

// CheckpointCount is the number of checkpoints ever taken and how many of
// them marked a buffer wrap.
func (l *Loopback) CheckpointCount() (total, wraps uint64) {
	l.tsMu.Lock()
	defer l.tsMu.Unlock()

	return l.total, l.wraps
}
