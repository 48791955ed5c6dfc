package input

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// GPIOButton is a push button wired between a pin and ground, read with the
// internal pull-up. Pressed reads as Low.
type GPIOButton struct {
	pin gpio.PinIO
}

// NewGPIOButton opens the named pin (e.g. "GPIO17"). host.Init must have run.
func NewGPIOButton(name string) (*GPIOButton, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio pin %q not found", name)
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("gpio %s: %w", name, err)
	}
	return &GPIOButton{pin: p}, nil
}

func (b *GPIOButton) IsPressed() bool { return b.pin.Read() == gpio.Low }

func (b *GPIOButton) String() string { return b.pin.String() }
