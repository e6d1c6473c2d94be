// SPDX-License-Identifier: EPL-2.0

package host

import "errors"

var (
	ErrOutOfMemory     = errors.New("memory limit reached")
	ErrInvalidSize     = errors.New("allocation size must be positive")
	ErrStreamLimit     = errors.New("stream limit reached")
	ErrInvalidStream   = errors.New("invalid stream descriptor")
	ErrDuplicateStream = errors.New("stream already registered")
)
