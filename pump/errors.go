// SPDX-License-Identifier: EPL-2.0

package pump

import "errors"

var (
	ErrNoOutputStream  = errors.New("engine has no output stream")
	ErrNoCaptureStream = errors.New("engine has no capture stream")
	ErrInvalidLead     = errors.New("lead must leave at least one tick of the buffer free")
	ErrPrimed          = errors.New("pump already primed")
)
