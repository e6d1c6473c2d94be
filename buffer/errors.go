// SPDX-License-Identifier: EPL-2.0

package buffer

import "errors"

var (
	ErrGeometry   = errors.New("tick geometry does not tile the buffer")
	ErrAllocation = errors.New("buffer allocation failed")
)
