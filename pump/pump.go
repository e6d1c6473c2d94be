// SPDX-License-Identifier: EPL-2.0

package pump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/ik5/avdevice/audio"
	"github.com/ik5/avdevice/buffer"
	"github.com/ik5/avdevice/engine"
)

// DefaultLeadTicks is how many ticks of output the pump keeps rendered ahead
// of the engine cursor.
const DefaultLeadTicks = 4

const maxEmptyReads = 64

// Engine is the part of *engine.Engine a pump drives.
type Engine interface {
	Geometry() buffer.Geometry
	CurrentSampleFrame() int
	Streams() []*engine.StreamDescriptor
	CaptureStream() (*engine.StreamDescriptor, error)
	ClipOutputSamples(mix []float32, firstFrame, numFrames int, s *engine.StreamDescriptor) error
	ConvertInputSamples(dst []float32, firstFrame, numFrames int, s *engine.StreamDescriptor) error
}

type Config struct {
	// LeadTicks is the render lead in ticks. 0 means DefaultLeadTicks.
	LeadTicks int
	Logger    zerolog.Logger
}

// Stats counts frames moved through the engine.
type Stats struct {
	Rendered  uint64 // source frames written to the output buffer
	Captured  uint64 // frames read back from the input buffer
	Underruns uint64 // polls that found the cursor past the rendered audio
	Overruns  uint64 // polls that found captured audio already overwritten
}

// Pump plays a Source into an engine's output buffer and records whatever
// the engine loops into its input buffer.
//
// The pump only sees the cursor modulo the buffer length, so Step must be
// called at least once per buffer period.
type Pump struct {
	eng     Engine
	src     audio.Source
	sink    Sink
	out     *engine.StreamDescriptor
	capture *engine.StreamDescriptor
	geom    buffer.Geometry
	ch      int
	lead    uint64
	log     zerolog.Logger

	mix     []float32 // float mirror of the output buffer
	scratch []float32

	// Absolute frame counts since Start.
	cursor   uint64 // frames the engine has looped back
	rendered uint64 // frames written to the output buffer, silence included
	captured uint64
	srcEnd   uint64 // frame where the source ended, valid once srcDone

	lastFrame int
	srcDone   bool
	primed    bool
	stats     Stats
}

// New conforms src to the engine format and binds it to the engine's first
// output stream and its capture stream.
func New(eng Engine, src audio.Source, sink Sink, cfg Config) (*Pump, error) {
	geom := eng.Geometry()

	lead := cfg.LeadTicks
	if lead == 0 {
		lead = DefaultLeadTicks
	}
	if lead < 1 || lead >= geom.TicksPerBuffer {
		return nil, fmt.Errorf("%w: %d ticks of %d", ErrInvalidLead, lead, geom.TicksPerBuffer)
	}

	var out *engine.StreamDescriptor
	for _, s := range eng.Streams() {
		if s.Direction == engine.Output {
			out = s
			break
		}
	}
	if out == nil {
		return nil, ErrNoOutputStream
	}
	capture, err := eng.CaptureStream()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoCaptureStream, err)
	}

	conformed, err := audio.Conform(src, geom.Format)
	if err != nil {
		return nil, fmt.Errorf("conform source: %w", err)
	}
	if sink == nil {
		sink = Discard
	}

	ch := geom.Format.Channels
	return &Pump{
		eng:       eng,
		src:       conformed,
		sink:      sink,
		out:       out,
		capture:   capture,
		geom:      geom,
		ch:        ch,
		lead:      uint64(lead * geom.FramesPerTick),
		log:       cfg.Logger.With().Str("component", "pump").Logger(),
		mix:       make([]float32, geom.BufferFrames*ch),
		scratch:   make([]float32, geom.BufferFrames*ch),
		lastFrame: eng.CurrentSampleFrame(),
	}, nil
}

// Prime renders the lead before the engine starts, so the first ticks loop
// real audio instead of silence. Start rewinds the engine to frame 0, so
// that is where the pump starts counting, even on an engine that ran before.
func (p *Pump) Prime() error {
	if p.primed {
		return ErrPrimed
	}
	p.primed = true
	p.lastFrame = 0
	return p.render(p.cursor + p.lead)
}

// Step observes the engine cursor once, captures everything looped back
// since the last call and tops the render lead up again.
func (p *Pump) Step() error {
	p.primed = true

	frame := p.eng.CurrentSampleFrame()
	delta := (frame - p.lastFrame + p.geom.BufferFrames) % p.geom.BufferFrames
	p.lastFrame = frame
	p.cursor += uint64(delta)

	if err := p.captureUpTo(min(p.cursor, p.rendered)); err != nil {
		return err
	}

	if p.cursor > p.rendered {
		p.stats.Underruns++
		p.log.Warn().Uint64("frames", p.cursor-p.rendered).Msg("render underrun")
		// Whatever the engine looped in the gap was never rendered.
		p.rendered = p.cursor
		p.captured = max(p.captured, p.cursor)
	}

	return p.render(p.cursor + p.lead)
}

// Done reports whether the source is drained and every frame it produced
// has been captured.
func (p *Pump) Done() bool {
	return p.srcDone && p.captured >= p.srcEnd
}

// Stats returns the frame counters.
func (p *Pump) Stats() Stats { return p.stats }

// Run calls Step every poll until Done or ctx ends, then closes the sink.
func (p *Pump) Run(ctx context.Context, poll time.Duration) (err error) {
	defer func() {
		if cerr := p.sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		if err := p.Step(); err != nil {
			return err
		}
		if p.Done() {
			p.log.Info().
				Uint64("rendered", p.stats.Rendered).
				Uint64("captured", p.stats.Captured).
				Uint64("underruns", p.stats.Underruns).
				Msg("source drained")
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// render fills the output buffer up to absolute frame target.
func (p *Pump) render(target uint64) error {
	for p.rendered < target {
		pos := int(p.rendered % uint64(p.geom.BufferFrames))
		n := int(min(target-p.rendered, uint64(p.geom.BufferFrames-pos)))
		region := p.mix[pos*p.ch : (pos+n)*p.ch]

		got, err := p.fill(region)
		if err != nil {
			return err
		}
		clear(region[got*p.ch:])

		if err := p.eng.ClipOutputSamples(p.mix, pos, n, p.out); err != nil {
			return fmt.Errorf("render %d frames at %d: %w", n, pos, err)
		}

		p.stats.Rendered += uint64(got)
		p.rendered += uint64(n)
	}
	return nil
}

// fill reads source frames into region and returns how many it got.
func (p *Pump) fill(region []float32) (int, error) {
	if p.srcDone {
		return 0, nil
	}

	filled, empty := 0, 0
	for filled < len(region) {
		n, err := p.src.ReadSamples(region[filled:])
		filled += n
		if n == 0 && err == nil {
			if empty++; empty >= maxEmptyReads {
				return 0, fmt.Errorf("read source: %w", io.ErrNoProgress)
			}
			continue
		}
		empty = 0
		if errors.Is(err, io.EOF) {
			p.srcDone = true
			p.srcEnd = p.rendered + uint64(filled/p.ch)
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read source: %w", err)
		}
	}
	return filled / p.ch, nil
}

// captureUpTo drains the input buffer up to absolute frame limit.
func (p *Pump) captureUpTo(limit uint64) error {
	if p.srcDone {
		limit = min(limit, p.srcEnd)
	}
	if limit > p.captured+uint64(p.geom.BufferFrames) {
		p.stats.Overruns++
		p.log.Warn().Uint64("frames", limit-p.captured-uint64(p.geom.BufferFrames)).Msg("capture overrun")
		p.captured = limit - uint64(p.geom.BufferFrames)
	}

	for p.captured < limit {
		pos := int(p.captured % uint64(p.geom.BufferFrames))
		n := int(min(limit-p.captured, uint64(p.geom.BufferFrames-pos)))
		samples := p.scratch[:n*p.ch]

		if err := p.eng.ConvertInputSamples(samples, pos, n, p.capture); err != nil {
			return fmt.Errorf("capture %d frames at %d: %w", n, pos, err)
		}
		if err := p.sink.WriteSamples(samples); err != nil {
			return fmt.Errorf("sink: %w", err)
		}

		p.stats.Captured += uint64(n)
		p.captured += uint64(n)
	}
	return nil
}
