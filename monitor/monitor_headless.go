// SPDX-License-Identifier: EPL-2.0

//go:build headless

package monitor

// Player is unavailable in headless builds.
type Player struct{}

func New(Config) (*Player, error) { return nil, ErrUnavailable }

func (*Player) WriteSamples([]float32) error { return ErrUnavailable }
func (*Player) Dropped() uint64              { return 0 }
func (*Player) Close() error                 { return nil }
