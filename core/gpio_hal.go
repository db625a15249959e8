package core

// GPIOPin identifies a hardware pin by its board number.
type GPIOPin uint8

// NoPin marks a compare output that is not routed to a pin.
const NoPin GPIOPin = 0xFF

// GPIODriver is the pin interface the timers use to park a PWM output at a
// fixed level while its compare output is disconnected.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	ConfigureOutput(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error
}
