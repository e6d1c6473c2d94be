// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"io"

	"github.com/go-audio/wav"

	"github.com/ik5/avdevice/audio"
	"github.com/ik5/avdevice/formats/internal/pcm"
)

const pcmFormat = 1

// Decoder reads 16-bit linear PCM WAV files.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	dec.ReadInfo()

	if dec.WavAudioFormat != pcmFormat || dec.BitDepth != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}
	format := dec.Format()
	if format == nil || format.NumChannels == 0 || format.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	var closer io.Closer
	if c, ok := r.(io.Closer); ok {
		closer = c
	}
	return pcm.NewSource(dec, format, closer), nil
}
