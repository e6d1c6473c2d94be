// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds test doubles shared by the avdevice packages:
// deterministic audio sources and a manually driven clock whose timers fire
// only when a test advances it.
package audiotest
