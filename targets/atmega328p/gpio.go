//go:build atmega328p

package atmega328p

import (
	"machine"

	"avrtimers/core"
)

// Compare output pins of the ATmega328P (Arduino Uno numbering in brackets).
const (
	PinOC0B = core.GPIOPin(machine.PD5) // D5
	PinOC1A = core.GPIOPin(machine.PB1) // D9
	PinOC1B = core.GPIOPin(machine.PB2) // D10
)

// GPIODriver drives pins through the machine package. core.GPIOPin values
// are machine.Pin numbers.
type GPIODriver struct{}

func (GPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	return nil
}

func (GPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	machine.Pin(pin).Set(value)
	return nil
}
