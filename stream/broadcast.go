// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ik5/avdevice/codec"
)

const (
	// DefaultQueue is how many capture chunks a listener may fall behind
	// before chunks are dropped for it.
	DefaultQueue = 64

	// Encoding names the binary payload: interleaved signed 16-bit
	// big-endian, the engine's buffer format.
	Encoding = "s16be"

	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
)

// Hello is the first, text, message a listener receives.
type Hello struct {
	Device     string `json:"device"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Encoding   string `json:"encoding"`
}

type Config struct {
	Device     string
	SampleRate int
	Channels   int
	// Queue is the per-listener backlog in chunks. 0 means DefaultQueue.
	Queue  int
	Logger zerolog.Logger
}

type listener struct {
	conn *websocket.Conn
	send chan []byte
	addr string
}

// Broadcaster is a capture sink that fans captured audio out to websocket
// listeners. It is an http.Handler; every request is upgraded to a
// websocket. WriteSamples never blocks on the network: a listener whose
// backlog is full misses that chunk.
type Broadcaster struct {
	upgrader websocket.Upgrader
	hello    Hello
	queue    int
	log      zerolog.Logger

	mu        sync.Mutex
	listeners map[*listener]struct{}
	closed    bool
	dropped   uint64
}

func New(cfg Config) (*Broadcaster, error) {
	if cfg.SampleRate <= 0 || cfg.Channels <= 0 {
		return nil, ErrFormat
	}
	queue := cfg.Queue
	if queue <= 0 {
		queue = DefaultQueue
	}

	return &Broadcaster{
		upgrader: websocket.Upgrader{
			// Listeners are local tools, not browsers on other origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		hello: Hello{
			Device:     cfg.Device,
			SampleRate: cfg.SampleRate,
			Channels:   cfg.Channels,
			Encoding:   Encoding,
		},
		queue:     queue,
		log:       cfg.Logger.With().Str("component", "stream").Logger(),
		listeners: make(map[*listener]struct{}),
	}, nil
}

func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		http.Error(w, ErrClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	hello, err := json.Marshal(b.hello)
	if err != nil {
		_ = conn.Close()
		return
	}
	l := &listener{conn: conn, send: make(chan []byte, b.queue), addr: r.RemoteAddr}
	if !b.add(l) {
		_ = conn.Close()
		return
	}

	// The hello goes out before the writer starts, so it is always first.
	_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		b.remove(l)
		_ = conn.Close()
		return
	}
	b.log.Info().Str("remote", l.addr).Msg("listener connected")

	go b.writer(l)
	b.reader(l)
	b.remove(l)
	b.log.Info().Str("remote", l.addr).Msg("listener disconnected")
}

func (b *Broadcaster) add(l *listener) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}
	b.listeners[l] = struct{}{}
	return true
}

// remove closes l's queue, which stops its writer. Safe to call twice.
func (b *Broadcaster) remove(l *listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.listeners[l]; ok {
		delete(b.listeners, l)
		close(l.send)
	}
}

// reader discards anything the listener sends and returns when the
// connection goes away.
func (b *Broadcaster) reader(l *listener) {
	for {
		if _, _, err := l.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				b.log.Debug().Err(err).Str("remote", l.addr).Msg("listener read failed")
			}
			return
		}
	}
}

func (b *Broadcaster) writer(l *listener) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer l.conn.Close()

	for {
		select {
		case msg, ok := <-l.send:
			if !ok {
				_ = l.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "capture ended"),
					time.Now().Add(time.Second))
				return
			}
			_ = l.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := l.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := l.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}

// WriteSamples sends one binary chunk of interleaved samples to every
// listener.
func (b *Broadcaster) WriteSamples(samples []float32) error {
	if len(samples)%b.hello.Channels != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", ErrPartialFrame, len(samples), b.hello.Channels)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if len(b.listeners) == 0 || len(samples) == 0 {
		return nil
	}

	// Listeners share msg read-only, so it cannot be reused.
	msg := make([]byte, len(samples)*2)
	for i, v := range samples {
		binary.BigEndian.PutUint16(msg[i*2:], uint16(codec.QuantizeSample(v)))
	}
	for l := range b.listeners {
		select {
		case l.send <- msg:
		default:
			b.dropped++
		}
	}
	return nil
}

// Listeners is the number of connected listeners.
func (b *Broadcaster) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// Dropped counts chunks not delivered because a listener's queue was full.
func (b *Broadcaster) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close disconnects every listener with a normal closure and rejects new
// ones. Calling it again does nothing.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for l := range b.listeners {
		delete(b.listeners, l)
		close(l.send)
	}
	b.log.Info().Uint64("dropped_chunks", b.dropped).Msg("stream closed")
	return nil
}
