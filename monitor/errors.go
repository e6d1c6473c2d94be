// SPDX-License-Identifier: EPL-2.0

package monitor

import "errors"

var (
	ErrUnavailable = errors.New("speaker monitor not built into this binary")
	ErrFormat      = errors.New("monitor needs a positive sample rate and channel count")
	ErrClosed      = errors.New("monitor closed")
)
