// SPDX-License-Identifier: EPL-2.0

package monitor

import (
	"time"

	"github.com/rs/zerolog"
)

// Config selects the speaker format. Latency is the most audio the monitor
// buffers before it starts dropping the oldest frames; zero means
// DefaultLatency.
type Config struct {
	SampleRate int
	Channels   int
	Latency    time.Duration
	Logger     zerolog.Logger
}
