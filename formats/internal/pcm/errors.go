// SPDX-License-Identifier: EPL-2.0

package pcm

import "errors"

var (
	ErrClosed       = errors.New("writer closed")
	ErrPartialFrame = errors.New("sample count is not a whole number of frames")
)
