// SPDX-License-Identifier: EPL-2.0

package avdevice_test

import (
	"fmt"
	"time"

	"github.com/ik5/avdevice"
	"github.com/ik5/avdevice/engine"
	"github.com/ik5/avdevice/host"
	"github.com/ik5/avdevice/internal/audiotest"
)

func ExampleOpen() {
	clock := audiotest.NewFakeClock(0)
	h := host.New(host.WithClock(clock))

	dev, err := avdevice.Open(engine.DefaultConfig(), h)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer dev.Close()

	eng := dev.Engine()
	_ = eng.Start()
	clock.Advance(time.Second)

	_, wraps := h.CheckpointCount()
	fmt.Println(dev)
	fmt.Println("ticks:", eng.InterruptCount())
	fmt.Println("buffer wraps:", wraps)
	// Output:
	// AVAudioDevice (osxkernel.com)
	// ticks: 100
	// buffer wraps: 2
}
