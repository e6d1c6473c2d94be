// SPDX-License-Identifier: EPL-2.0

package scheduler

import "errors"

var (
	ErrInvalidInterval = errors.New("tick interval must be positive")
	ErrNoClock         = errors.New("no clock")
	ErrNoHandler       = errors.New("no tick handler")
	ErrAlreadyRunning  = errors.New("scheduler already running")
)
