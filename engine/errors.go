// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceExhausted means the host could not provide buffer memory.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrRegistration means the host refused a stream descriptor.
	ErrRegistration = errors.New("stream registration failed")
	// ErrPrecondition means a lifecycle call came in the wrong order or a
	// required collaborator is missing.
	ErrPrecondition = errors.New("precondition violated")

	ErrNotInitialized = fmt.Errorf("%w: engine not initialized", ErrPrecondition)
	ErrAlreadyRunning = errors.New("engine already running")
	ErrClosed         = errors.New("engine closed")
)
