// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package monitor

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"
)

// Player plays captured samples on the default output device.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	queue  *queue
	buf    []byte
	log    zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// New opens the speaker at the given format. oto allows one context per
// process, so a program should create a single Player.
func New(cfg Config) (*Player, error) {
	if cfg.SampleRate <= 0 || cfg.Channels <= 0 {
		return nil, ErrFormat
	}
	latency := cfg.Latency
	if latency <= 0 {
		latency = DefaultLatency
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("monitor: open output: %w", err)
	}
	<-ready

	frames := int(int64(cfg.SampleRate) * int64(latency) / 1e9)
	q := newQueue(max(frames, 1), cfg.Channels*2)

	p := &Player{
		ctx:   ctx,
		queue: q,
		log:   cfg.Logger.With().Str("component", "monitor").Logger(),
	}
	p.player = ctx.NewPlayer(q)
	p.player.Play()

	p.log.Info().
		Int("sample_rate", cfg.SampleRate).
		Int("channels", cfg.Channels).
		Dur("latency", latency).
		Msg("speaker monitor started")
	return p, nil
}

// WriteSamples queues interleaved samples for playback. It never blocks on
// the device.
func (p *Player) WriteSamples(samples []float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if err := p.player.Err(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	p.buf = encodeLE(p.buf, samples)
	p.queue.write(p.buf)
	return nil
}

// Dropped reports how many frames were discarded because playback fell
// behind.
func (p *Player) Dropped() uint64 { return p.queue.droppedFrames() }

func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.player.Close()
	if serr := p.ctx.Suspend(); err == nil {
		err = serr
	}
	p.log.Info().Uint64("dropped_frames", p.queue.droppedFrames()).Msg("speaker monitor stopped")
	return err
}
