// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestDefaultFormat(t *testing.T) {
	t.Parallel()

	f := DefaultFormat()

	if err := f.Validate(); err != nil {
		t.Fatalf("DefaultFormat().Validate() error = %v", err)
	}

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"sample rate", f.SampleRate, 48000},
		{"channels", f.Channels, 2},
		{"bytes per sample", f.BytesPerSample(), 2},
		{"frame size", f.FrameSize(), 4},
		{"buffer frames", f.BufferFrames(), 24000},
		{"buffer bytes", f.BufferBytes(), 96000},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}

	if f.ByteOrder != BigEndian {
		t.Errorf("ByteOrder = %v, want big-endian", f.ByteOrder)
	}
	if f.Alignment != AlignHighByte {
		t.Errorf("Alignment = %v, want AlignHighByte", f.Alignment)
	}
	if !f.Mixable {
		t.Error("Mixable = false, want true")
	}
}

func TestFormat_Validate(t *testing.T) {
	t.Parallel()

	mutate := func(fn func(*Format)) Format {
		f := DefaultFormat()
		fn(&f)
		return f
	}

	tests := []struct {
		name    string
		format  Format
		wantErr bool
	}{
		{"default", DefaultFormat(), false},
		{"44.1k mono", mutate(func(f *Format) { f.SampleRate, f.Channels = 44100, 1 }), false},
		{"little endian", mutate(func(f *Format) { f.ByteOrder = LittleEndian }), false},
		{"zero rate", mutate(func(f *Format) { f.SampleRate = 0 }), true},
		{"negative channels", mutate(func(f *Format) { f.Channels = -2 }), true},
		{"24 bit", mutate(func(f *Format) { f.BitDepth, f.SampleWidth = 24, 24 }), true},
		{"16 in 32", mutate(func(f *Format) { f.SampleWidth = 32 }), true},
		{"unsigned", mutate(func(f *Format) { f.Numeric = UnsignedInt }), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.format.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("Validate() error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

func TestByteOrder_Binary(t *testing.T) {
	t.Parallel()

	if BigEndian.Binary() != binary.BigEndian {
		t.Error("BigEndian.Binary() is not binary.BigEndian")
	}
	if LittleEndian.Binary() != binary.LittleEndian {
		t.Error("LittleEndian.Binary() is not binary.LittleEndian")
	}
}

func TestRateCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate   int
		name   string
		wantOK bool
	}{
		{44100, "44.1kHz", true},
		{48000, "48kHz", true},
		{96000, "unknown (96000Hz)", false},
		{0, "unknown (0Hz)", false},
	}

	for _, tt := range tests {
		name, ok := RateCategory(tt.rate)
		if name != tt.name || ok != tt.wantOK {
			t.Errorf("RateCategory(%d) = %q, %v; want %q, %v", tt.rate, name, ok, tt.name, tt.wantOK)
		}
	}
}

func TestFormat_String(t *testing.T) {
	t.Parallel()

	if got, want := DefaultFormat().String(), "48000Hz/2ch/16bit big-endian"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
