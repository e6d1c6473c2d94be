// SPDX-License-Identifier: EPL-2.0

package stream

import "errors"

var (
	ErrClosed       = errors.New("stream closed")
	ErrFormat       = errors.New("stream needs a positive sample rate and channel count")
	ErrPartialFrame = errors.New("sample count is not a whole number of frames")
	ErrNoAddress    = errors.New("no non-loopback IPv4 address to advertise")
)
