// SPDX-License-Identifier: EPL-2.0

// Package host provides Loopback, an in-process implementation of the
// services an engine expects from its environment: buffer memory, stream
// publication, timers and timestamp collection.
package host
