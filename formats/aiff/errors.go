// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input is not a FORM/AIFF container.
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrOnlyPCM16bitSupported indicates a sample width other than 16 bits.
	ErrOnlyPCM16bitSupported = errors.New("only 16-bit PCM AIFF is supported")

	// ErrUnsupportedAiffLayout indicates a COMM chunk with no channels or no rate.
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")

	ErrInvalidWriterFormat = errors.New("writer needs a positive sample rate and channel count")
)
