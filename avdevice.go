// SPDX-License-Identifier: EPL-2.0

package avdevice

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ik5/avdevice/engine"
)

// Identity the device publishes to its host.
const (
	Name         = "AVAudioDevice"
	ShortName    = "AVDevice"
	Manufacturer = "osxkernel.com"
)

// ErrEngine reports that the device could not bring up its engine.
var ErrEngine = errors.New("creating audio engine")

// Device is the virtual audio device: an identity plus the one loopback
// engine it owns.
type Device struct {
	Name         string
	ShortName    string
	Manufacturer string

	eng *engine.Engine
	log zerolog.Logger
}

// Open creates the device's engine on host and initializes it. If any step
// fails nothing is left allocated or registered with the host.
func Open(cfg engine.Config, host engine.Host) (*Device, error) {
	log := cfg.Logger.With().Str("device", ShortName).Logger()

	eng, err := engine.New(cfg, host)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	if err := eng.Initialize(); err != nil {
		_ = eng.Close()
		log.Error().Err(err).Msg("engine initialization failed")
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	d := &Device{
		Name:         Name,
		ShortName:    ShortName,
		Manufacturer: Manufacturer,
		eng:          eng,
		log:          log,
	}
	log.Info().
		Str("name", d.Name).
		Str("manufacturer", d.Manufacturer).
		Stringer("geometry", eng.Geometry()).
		Msg("device ready")
	return d, nil
}

func (d *Device) Engine() *engine.Engine { return d.eng }

func (d *Device) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Manufacturer)
}

// Close stops and releases the engine.
func (d *Device) Close() error {
	err := d.eng.Close()
	d.log.Info().Msg("device closed")
	return err
}
