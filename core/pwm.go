package core

import "avrtimers/x/mathx"

// Polarity of a PWM compare output.
type Polarity int8

const (
	ActiveLow  Polarity = -1
	Disabled   Polarity = 0
	ActiveHigh Polarity = 1
)

func (p Polarity) String() string {
	switch p {
	case ActiveHigh:
		return "active-high"
	case ActiveLow:
		return "active-low"
	default:
		return "disabled"
	}
}

// Compare output modes (COMnx[1:0]) used in fast PWM.
const (
	comDisconnected uint8 = 0
	comNonInverting uint8 = 2 // clear on match, set at BOTTOM
	comInverting    uint8 = 3 // set on match, clear at BOTTOM
)

// comMode returns the compare output mode for a polarity.
func (p Polarity) comMode() uint8 {
	switch p {
	case ActiveHigh:
		return comNonInverting
	case ActiveLow:
		return comInverting
	default:
		return comDisconnected
	}
}

// idleLevel is the pin level that means "off" for the polarity.
func (p Polarity) idleLevel() bool {
	return p == ActiveLow
}

// Output selects a compare output of a timer.
type Output uint8

const (
	OutputA Output = iota
	OutputB
)

func (o Output) String() string {
	if o == OutputA {
		return "A"
	}
	return "B"
}

// PWMOutput is the state of one compare output of a timer channel.
type PWMOutput struct {
	Enabled  bool
	Polarity Polarity
	Compare  uint16
	Pin      GPIOPin
}

func (o *PWMOutput) configure(p Polarity, pin GPIOPin) {
	*o = PWMOutput{
		Enabled:  p != Disabled,
		Polarity: p,
		Pin:      pin,
	}
}

// com returns the compare output bits to program for the current state.
func (o *PWMOutput) com() uint8 {
	if !o.Enabled {
		return comDisconnected
	}
	return o.Polarity.comMode()
}

// set maps duty in [0, top] onto [0, channelTop]. duty above top is clamped.
// A duty of 0 disconnects the output and parks the pin at its idle level,
// which is high for active-low outputs. An output configured Disabled stays
// disconnected and its pin untouched. It reports whether the compare register
// must be written.
func (o *PWMOutput) set(duty, top, channelTop uint16, gpio GPIODriver) bool {
	if o.Polarity == Disabled {
		return false
	}
	duty = mathx.Clamp(duty, 0, top)
	if duty == 0 {
		o.Enabled = false
		if gpio != nil && o.Pin != NoPin {
			_ = gpio.SetPin(o.Pin, o.Polarity.idleLevel())
		}
		return false
	}
	o.Enabled = true
	o.Compare = mathx.Scale(duty, channelTop, top)
	return true
}
