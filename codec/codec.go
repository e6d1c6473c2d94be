// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"github.com/ik5/avdevice/audio"
)

const (
	posScale = 32767.0
	negScale = 32768.0
)

// QuantizeSample clips x to [-1,1] and converts it to int16. Positive values
// scale by 32767 and negative ones by 32768, both truncated toward zero.
// NaN maps to silence.
func QuantizeSample(x float32) int16 {
	if x != x {
		return 0
	}
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	if x >= 0 {
		return int16(x * posScale)
	}
	return int16(x * negScale)
}

// ExpandSample converts v to a float in [-1,1] with the scaling convention of
// QuantizeSample.
func ExpandSample(v int16) float32 {
	if v >= 0 {
		return float32(v) / posScale
	}
	return float32(v) / negScale
}

// QuantizeSlice converts src into dst and returns the number of samples written.
func QuantizeSlice(dst []int16, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = QuantizeSample(src[i])
	}
	return n
}

// ExpandSlice converts src into dst and returns the number of samples written.
func ExpandSlice(dst []float32, src []int16) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = ExpandSample(src[i])
	}
	return n
}

// sampleRange returns the interleaved sample index range covered by
// numFrames frames starting at firstFrame. The range is checked in frames
// against a buffer of bufSamples samples before it is scaled, so huge
// arguments cannot overflow.
func sampleRange(firstFrame, numFrames, channels, bufSamples int) (int, int, error) {
	if firstFrame < 0 || numFrames < 0 || channels <= 0 {
		return 0, 0, ErrFrameRange
	}
	frames := bufSamples / channels
	if firstFrame > frames || numFrames > frames-firstFrame {
		return 0, 0, ErrFrameRange
	}
	start := firstFrame * channels
	return start, start + numFrames*channels, nil
}

// Clip quantizes numFrames frames of the float mix buffer into the PCM sample
// buffer dst. Both buffers are indexed from firstFrame, so mix mirrors the
// layout of dst one float per stored sample. Samples are stored in
// f.ByteOrder.
func Clip(mix []float32, dst []byte, firstFrame, numFrames int, f audio.Format) error {
	width := f.BytesPerSample()
	if width != 2 {
		return ErrSampleWidth
	}
	start, end, err := sampleRange(firstFrame, numFrames, f.Channels, min(len(mix), len(dst)/width))
	if err != nil {
		return err
	}

	order := f.ByteOrder.Binary()
	for i := start; i < end; i++ {
		order.PutUint16(dst[i*2:], uint16(QuantizeSample(mix[i])))
	}
	return nil
}

// Expand converts numFrames frames of the PCM sample buffer src, starting at
// firstFrame, into dst. dst is written from index 0.
func Expand(src []byte, dst []float32, firstFrame, numFrames int, f audio.Format) error {
	width := f.BytesPerSample()
	if width != 2 {
		return ErrSampleWidth
	}
	start, end, err := sampleRange(firstFrame, numFrames, f.Channels, len(src)/width)
	if err != nil {
		return err
	}
	if end-start > len(dst) {
		return ErrFrameRange
	}

	order := f.ByteOrder.Binary()
	for i := start; i < end; i++ {
		dst[i-start] = ExpandSample(int16(order.Uint16(src[i*2:])))
	}
	return nil
}
