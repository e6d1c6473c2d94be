// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMapper changes the channel count of src.
//
// Mapping rules: equal counts pass through, any count to mono averages,
// mono to N duplicates, N to fewer keeps the leading channels and N to
// more repeats the source channels in order.
type ChannelMapper struct {
	src Source
	in  int
	out int
	tmp []float32
}

func NewChannelMapper(src Source, channels int) (*ChannelMapper, error) {
	if channels <= 0 || src.Channels() <= 0 {
		return nil, ErrInvalidChannels
	}

	return &ChannelMapper{
		src: src,
		in:  src.Channels(),
		out: channels,
		tmp: make([]float32, 4096),
	}, nil
}

func (m *ChannelMapper) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMapper) Channels() int   { return m.out }
func (m *ChannelMapper) BufSize() int    { return m.src.BufSize() }

func (m *ChannelMapper) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *ChannelMapper) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}
	if m.in == m.out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.out
	need := frames * m.in
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	tmp := m.tmp[:need]

	n, err := m.src.ReadSamples(tmp)
	got := n / m.in

	switch {
	case m.out == 1:
		inv := 1 / float32(m.in)
		for f := range got {
			var sum float32
			for _, v := range tmp[f*m.in : (f+1)*m.in] {
				sum += v
			}
			dst[f] = sum * inv
		}
	default:
		for f := range got {
			frame := tmp[f*m.in : (f+1)*m.in]
			for c := range m.out {
				dst[f*m.out+c] = frame[c%m.in]
			}
		}
	}

	return got * m.out, err
}

// Conform adapts src to the sample rate and channel count of f. Sources that
// already match are returned unchanged.
func Conform(src Source, f Format) (Source, error) {
	if f.SampleRate <= 0 {
		return nil, ErrInvalidRate
	}
	if f.Channels <= 0 {
		return nil, ErrInvalidChannels
	}

	// Downmix before resampling so the interpolator touches fewer channels.
	out := src
	if out.Channels() > f.Channels {
		m, err := NewChannelMapper(out, f.Channels)
		if err != nil {
			return nil, err
		}
		out = m
	}
	if out.SampleRate() != f.SampleRate {
		r, err := NewResampler(out, f.SampleRate)
		if err != nil {
			return nil, err
		}
		out = r
	}
	if out.Channels() != f.Channels {
		m, err := NewChannelMapper(out, f.Channels)
		if err != nil {
			return nil, err
		}
		out = m
	}

	return out, nil
}
