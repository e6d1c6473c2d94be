// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

var (
	ErrFrameRange  = errors.New("frame range outside buffer")
	ErrSampleWidth = errors.New("only 16-bit sample words supported")
)
