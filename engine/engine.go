// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ik5/avdevice/audio"
	"github.com/ik5/avdevice/buffer"
	"github.com/ik5/avdevice/codec"
	"github.com/ik5/avdevice/scheduler"
)

// Engine is a loopback audio engine. Each tick it copies one tick of the
// output buffer into the input buffer at the tick's slot and advances the
// sample frame the host synchronizes against.
type Engine struct {
	cfg  Config
	geom buffer.Geometry
	host Host
	log  zerolog.Logger

	mu       sync.Mutex // lifecycle; never taken by the tick
	pair     *buffer.Pair
	sched    *scheduler.Scheduler
	streams  []*StreamDescriptor
	capture  *StreamDescriptor
	running  bool

	closed atomic.Bool
	count  atomic.Uint64 // ticks since the last Start
	loops  uint64        // wrap checkpoints since the last Start; tick only
}

// New checks cfg against the host and returns an engine that still has to
// be initialized.
func New(cfg Config, host Host) (*Engine, error) {
	if host == nil {
		return nil, fmt.Errorf("%w: no host", ErrPrecondition)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	geom, err := buffer.GeometryForInterval(cfg.Format, cfg.TickInterval)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}

	return &Engine{
		cfg:  cfg,
		geom: geom,
		host: host,
		log:  cfg.Logger.With().Str("component", "engine").Logger(),
	}, nil
}

// Initialize acquires both buffers, publishes the streams for the configured
// layout and prepares the tick timer. On failure nothing stays acquired or
// registered.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() {
		return ErrClosed
	}
	if e.pair != nil {
		return fmt.Errorf("%w: already initialized", ErrPrecondition)
	}

	sched, err := scheduler.New(e.host, e.geom.Interval(), e.tick, scheduler.WithMinRearm(e.cfg.MinRearm))
	if err != nil {
		return fmt.Errorf("%w: timer: %w", ErrPrecondition, err)
	}

	pair, err := buffer.NewPair(e.host, e.geom)
	if err != nil {
		e.log.Error().Err(err).Int("bytes", e.geom.BufferBytes).Msg("buffer allocation failed")
		return fmt.Errorf("%w: %w", ErrResourceExhausted, err)
	}

	var streams []*StreamDescriptor
	capture := newDescriptor(Input, pair.Input, e.cfg.Format)

	switch e.cfg.Layout {
	case LayoutOutputInput:
		streams = []*StreamDescriptor{
			newDescriptor(Output, pair.Output, e.cfg.Format),
			capture,
		}
	default:
		streams = []*StreamDescriptor{
			newDescriptor(Output, pair.Output, e.cfg.Format),
			newDescriptor(Output, pair.Output, e.cfg.Format),
		}
		e.log.Warn().
			Str("layout", e.cfg.Layout.String()).
			Msg("registering the output buffer twice; the input buffer has no registered stream")
	}

	for i, s := range streams {
		if err := e.host.RegisterStream(s); err != nil {
			for _, done := range slices.Backward(streams[:i]) {
				e.host.UnregisterStream(done)
			}
			pair.Release()
			e.log.Error().Err(err).Stringer("stream", s).Msg("stream registration failed")
			return fmt.Errorf("%w: %w", ErrRegistration, err)
		}
	}

	e.sched = sched
	e.pair = pair
	e.streams = streams
	e.capture = capture

	e.log.Info().
		Stringer("geometry", e.geom).
		Int("input_latency", e.InputLatency()).
		Int("output_offset", e.OutputOffset()).
		Msg("engine initialized")
	return nil
}

// Start zeroes the tick counter, records the start checkpoint and arms the
// first tick one interval from now.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.closed.Load():
		return ErrClosed
	case e.pair == nil:
		return ErrNotInitialized
	case e.running:
		return ErrAlreadyRunning
	}

	e.count.Store(0)
	e.loops = 0
	e.host.TakeTimestamp(Checkpoint{Time: e.host.NowNanos()})

	if err := e.sched.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	e.running = true

	e.log.Info().Dur("interval", e.geom.Interval()).Msg("engine started")
	return nil
}

// Stop cancels the tick timer and waits for a tick in progress. The tick
// counter keeps its value. Stopping a stopped engine does nothing.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if !e.running {
		return
	}
	e.sched.Stop()
	e.running = false

	st := e.sched.Stats()
	e.log.Info().
		Uint64("ticks", st.Ticks).
		Uint64("late", st.Late).
		Dur("max_lateness", st.MaxLateness).
		Msg("engine stopped")
}

// tick runs under the scheduler's execution token.
func (e *Engine) tick() {
	n := e.count.Load()
	e.pair.Loopback(n)

	if e.geom.Position(n) == 0 {
		e.loops++
		e.host.TakeTimestamp(Checkpoint{
			Time:      e.host.NowNanos(),
			LoopCount: e.loops,
			Wrap:      true,
		})
	}

	e.count.Store(n + 1)
}

// CurrentSampleFrame is the frame offset in the cyclic buffer that the tick
// cursor points at. It is always below the buffer's frame count and may be
// read from any goroutine.
func (e *Engine) CurrentSampleFrame() int {
	return e.geom.SampleFrame(e.count.Load())
}

// InterruptCount is the number of ticks since the last Start.
func (e *Engine) InterruptCount() uint64 { return e.count.Load() }

// Running reports whether the tick timer is armed.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.running
}

// Geometry is the tick layout the engine was built with.
func (e *Engine) Geometry() buffer.Geometry { return e.geom }

// Format is the stream format of both buffers.
func (e *Engine) Format() audio.Format { return e.cfg.Format }

// InputLatency is the capture latency reported to the host, in frames.
func (e *Engine) InputLatency() int { return e.geom.FramesPerTick }

// OutputOffset is how far ahead of the sample frame the host must stay when
// writing output, in frames.
func (e *Engine) OutputOffset() int { return e.geom.FramesPerTick }

// Streams returns the registered stream descriptors.
func (e *Engine) Streams() []*StreamDescriptor {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.streams)
}

// CaptureStream describes the input buffer, whether or not the layout
// registered it.
func (e *Engine) CaptureStream() (*StreamDescriptor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() {
		return nil, ErrClosed
	}
	if e.capture == nil {
		return nil, ErrNotInitialized
	}
	return e.capture, nil
}

// SchedulerStats reports timer behaviour for the current or last run.
func (e *Engine) SchedulerStats() scheduler.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sched == nil {
		return scheduler.Stats{}
	}
	return e.sched.Stats()
}

// PerformFormatChange accepts any proposal. Only one format is supported, so
// nothing is re-derived; the rate is logged and an unknown one flagged.
func (e *Engine) PerformFormatChange(s *StreamDescriptor, f *audio.Format, rate int) error {
	ev := e.log.Info()
	name, known := audio.RateCategory(rate)
	if !known {
		ev = e.log.Warn()
	}
	if s != nil {
		ev = ev.Stringer("stream", s)
	}
	if f != nil {
		ev = ev.Stringer("format", f)
	}
	ev.Str("rate", name).Msg("format change accepted")
	return nil
}

// ClipOutputSamples quantizes numFrames frames of mix, starting at
// firstFrame, into the sample buffer of s. mix mirrors the buffer layout.
func (e *Engine) ClipOutputSamples(mix []float32, firstFrame, numFrames int, s *StreamDescriptor) error {
	if err := e.checkStream(s, Output); err != nil {
		return err
	}
	return codec.Clip(mix, s.Buffer.Bytes(), firstFrame, numFrames, s.Format)
}

// ConvertInputSamples expands numFrames frames of the sample buffer of s,
// starting at firstFrame, into dst from index 0.
func (e *Engine) ConvertInputSamples(dst []float32, firstFrame, numFrames int, s *StreamDescriptor) error {
	if err := e.checkStream(s, Input); err != nil {
		return err
	}
	return codec.Expand(s.Buffer.Bytes(), dst, firstFrame, numFrames, s.Format)
}

func (e *Engine) checkStream(s *StreamDescriptor, want Direction) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if s == nil || s.Buffer == nil {
		return fmt.Errorf("%w: no stream", ErrPrecondition)
	}
	if s.Direction != want {
		return fmt.Errorf("%w: %s stream used for %s", ErrPrecondition, s.Direction, want)
	}
	return nil
}

// Close stops the engine, withdraws its streams and returns the buffers to the
// host. Calling it again does nothing; lifecycle and sample calls on a closed
// engine report ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() {
		return nil
	}
	e.stopLocked()
	e.closed.Store(true)

	for _, s := range slices.Backward(e.streams) {
		e.host.UnregisterStream(s)
	}
	if e.pair != nil {
		e.pair.Release()
	}
	e.streams = nil
	e.capture = nil
	e.pair = nil

	e.log.Info().Msg("engine closed")
	return nil
}
