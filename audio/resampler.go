// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

const maxEmptyReads = 64

// Resampler streams src at a different sample rate using Catmull-Rom
// interpolation over a four-frame window. Channel count is preserved.
type Resampler struct {
	src      Source
	channels int
	srcRate  int
	dstRate  int

	// Output frame k sits at source position k*srcRate/dstRate. Integer
	// positions keep the frame count exact over any stream length.
	k    int64
	base int64 // source index of window frame 1

	// window holds frames t-1, t0, t+1, t+2 back to back.
	window []float32
	real   [4]bool
	primed bool
	done   bool

	srcBuf  []float32
	pending []float32
	srcEOF  bool
}

// NewResampler returns a Source that yields src resampled to dstRate.
func NewResampler(src Source, dstRate int) (*Resampler, error) {
	if dstRate <= 0 || src.SampleRate() <= 0 {
		return nil, ErrInvalidRate
	}
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}

	return &Resampler{
		src:      src,
		channels: channels,
		srcRate:  src.SampleRate(),
		dstRate:  dstRate,
		window:   make([]float32, 4*channels),
		srcBuf:   make([]float32, 1024*channels),
	}, nil
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// nextFrame copies the next source frame into dst. ok is false once the
// source is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	empty := 0
	for len(r.pending) < r.channels {
		if r.srcEOF {
			return false, nil
		}
		n, err := r.src.ReadSamples(r.srcBuf)
		n -= n % r.channels
		r.pending = r.srcBuf[:n]
		if err == io.EOF {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
		if n == 0 && !r.srcEOF {
			empty++
			if empty >= maxEmptyReads {
				return false, io.ErrNoProgress
			}
		}
	}

	copy(dst, r.pending[:r.channels])
	r.pending = r.pending[r.channels:]
	return true, nil
}

func (r *Resampler) slot(i int) []float32 {
	return r.window[i*r.channels : (i+1)*r.channels]
}

// load fills window slot i from the source, holding slot i-1 past the end.
func (r *Resampler) load(i int) error {
	ok, err := r.nextFrame(r.slot(i))
	if err != nil {
		return err
	}
	if !ok {
		copy(r.slot(i), r.slot(i-1))
	}
	r.real[i] = ok
	return nil
}

func (r *Resampler) prime() error {
	ok, err := r.nextFrame(r.slot(1))
	if err != nil {
		return err
	}
	if !ok {
		r.done = true
		return nil
	}
	copy(r.slot(0), r.slot(1))
	r.real[0], r.real[1] = true, true
	if err := r.load(2); err != nil {
		return err
	}
	if err := r.load(3); err != nil {
		return err
	}
	r.primed = true
	return nil
}

func (r *Resampler) advance() error {
	copy(r.window, r.window[r.channels:])
	copy(r.real[:], r.real[1:])
	if err := r.load(3); err != nil {
		return err
	}
	if !r.real[1] {
		r.done = true
	}
	return nil
}

// ReadSamples produces resampled frames into dst. len(dst) must be a multiple
// of Channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed && !r.done {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames && !r.done {
		pos := r.k * int64(r.srcRate)
		idx := pos / int64(r.dstRate)
		for r.base < idx && !r.done {
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
			r.base++
		}
		if r.done {
			break
		}

		alpha := float32(pos%int64(r.dstRate)) / float32(r.dstRate)
		a, b, c, d := r.slot(0), r.slot(1), r.slot(2), r.slot(3)
		out := dst[written*r.channels : (written+1)*r.channels]
		for ch := range out {
			out[ch] = catmullRom(a[ch], b[ch], c[ch], d[ch], alpha)
		}
		written++
		r.k++
	}

	if r.done {
		return written * r.channels, io.EOF
	}
	return written * r.channels, nil
}

// catmullRom interpolates between y1 and y2 at fractional position x.
func catmullRom(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return ((a0*x+a1)*x+a2)*x + a3
}
